package kernel

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/fogplace/internal/coordinator"
)

func TestFile_WritesManifest(t *testing.T) {
	sc := smartHome(t, 3)
	b := bundle(sc, resolve(t, sc))
	dir := filepath.Join(t.TempDir(), "out", "manifests")
	k := NewFile(dir)
	assert.Equal(t, "file", k.Name())

	require.NoError(t, k.SubmitApplication(context.Background(), b))

	path := k.Path(b)
	assert.Equal(t, filepath.Join(dir, "Moody-b-1.yaml"), path)
	got, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, b.Manifest(), *got)
	assert.Equal(t, "2025-03-01T12:00:00Z", got.CreatedAt)
	assert.Len(t, got.Devices, 5)
	assert.Len(t, got.Placement.Assignments, b.Placement.Len())
}

func TestFile_RejectsMalformedBundle(t *testing.T) {
	dir := t.TempDir()
	err := NewFile(dir).SubmitApplication(context.Background(), &coordinator.Bundle{ID: "bad"})
	var malformed *MalformedBundleError
	require.ErrorAs(t, err, &malformed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadManifest_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadManifest(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("id: [unterminated"), 0o644))
	_, err = ReadManifest(broken)
	assert.ErrorContains(t, err, "decoding manifest")
}
