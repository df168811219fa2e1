package kernel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/fogplace/internal/coordinator"
	"github.com/vk/fogplace/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// File is a kernel that writes each accepted bundle as a YAML manifest named
// <application>-<bundle id>.yaml under Dir.
type File struct {
	Dir string
}

// NewFile returns a File kernel writing into dir.
func NewFile(dir string) *File {
	return &File{Dir: dir}
}

// Name implements coordinator.Kernel.
func (f *File) Name() string { return "file" }

// SubmitApplication implements coordinator.Kernel.
func (f *File) SubmitApplication(ctx context.Context, b *coordinator.Bundle) error {
	if err := Validate(b); err != nil {
		return err
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}

	out, err := yaml.Marshal(b.Manifest())
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	path := f.Path(b)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	ctxlog.FromContext(ctx).Info("Manifest written.", "bundle", b.ID, "path", path)
	return nil
}

// Path returns where the manifest of b is written.
func (f *File) Path(b *coordinator.Bundle) string {
	return filepath.Join(f.Dir, fmt.Sprintf("%s-%s.yaml", b.Application.ID(), b.ID))
}

// ReadManifest decodes a manifest written by File.
func ReadManifest(path string) (*coordinator.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m coordinator.Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	return &m, nil
}
