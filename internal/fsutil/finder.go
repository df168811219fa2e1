// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FindFilesByExtension walks every root and returns the files whose extension
// is ext, in walk order and without duplicates. A root may be a single file.
// Roots that do not exist are skipped.
func FindFilesByExtension(ext string, roots ...string) ([]string, error) {
	if ext == "" {
		return nil, errors.New("extension must not be empty")
	}

	var files []string
	seen := make(map[string]struct{})
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("error accessing path %s: %w", root, err)
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || filepath.Ext(path) != ext {
				return nil
			}
			if _, ok := seen[path]; !ok {
				seen[path] = struct{}{}
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}
