package app

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/vk/fogplace/internal/coordinator"
	"gonum.org/v1/gonum/stat"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF00FF"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// deviceLoad is one row of the placement report.
type deviceLoad struct {
	Name        string
	Level       int
	RAM         int
	Used        int
	Utilization float64 // percent of RAM
	Modules     []string
}

type report struct {
	Application string
	Policy      string
	Bundle      string
	Assignments int
	Devices     []deviceLoad

	// MeanUtilization and StdDevUtilization are taken over hosting devices.
	MeanUtilization   float64
	StdDevUtilization float64
}

// buildReport summarises memory use per hosting device in topology order.
func buildReport(b *coordinator.Bundle) report {
	r := report{
		Application: b.Application.ID(),
		Policy:      b.Placement.Policy(),
		Bundle:      b.ID,
		Assignments: b.Placement.Len(),
	}

	var utils []float64
	for _, d := range b.Topology.Devices() {
		modules := b.Placement.ModulesOn(d.ID)
		if len(modules) == 0 {
			continue
		}
		load := deviceLoad{Name: d.Name, Level: d.Level, RAM: d.RAM, Modules: modules}
		for _, name := range modules {
			if m, ok := b.Application.Module(name); ok {
				load.Used += m.Memory
			}
		}
		if d.RAM > 0 {
			load.Utilization = 100 * float64(load.Used) / float64(d.RAM)
		}
		utils = append(utils, load.Utilization)
		r.Devices = append(r.Devices, load)
	}

	if len(utils) > 0 {
		r.MeanUtilization = stat.Mean(utils, nil)
	}
	if len(utils) > 1 {
		r.StdDevUtilization = stat.StdDev(utils, nil)
	}
	return r
}

func writeReport(w io.Writer, r report) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF"))).
		Headers("DEVICE", "LEVEL", "RAM", "USED", "UTIL %", "MODULES").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, d := range r.Devices {
		t.Row(
			d.Name,
			strconv.Itoa(d.Level),
			strconv.Itoa(d.RAM),
			strconv.Itoa(d.Used),
			fmt.Sprintf("%.2f", d.Utilization),
			strings.Join(d.Modules, ", "),
		)
	}

	title := titleStyle.Render(fmt.Sprintf("Placement of %s (%s, bundle %s)", r.Application, r.Policy, r.Bundle))
	summary := fmt.Sprintf("%d assignments on %d devices, utilization mean %.2f%% stddev %.2f%%",
		r.Assignments, len(r.Devices), r.MeanUtilization, r.StdDevUtilization)

	_, err := fmt.Fprintf(w, "%s\n%s\n%s\n", title, t.Render(), summary)
	return err
}
