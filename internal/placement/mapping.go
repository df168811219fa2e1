package placement

import "slices"

// ModuleMapping is an explicit table from module name to the names of the
// devices that host it.
type ModuleMapping map[string][]string

// Add maps module onto each named device, skipping names already present.
func (m ModuleMapping) Add(module string, devices ...string) {
	for _, d := range devices {
		if !slices.Contains(m[module], d) {
			m[module] = append(m[module], d)
		}
	}
}
