// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
)

// FindFilesByExtension recursively searches root for the files whose
// extension is ext, e.g. ".hcl". The paths are returned in lexical order so
// that loading a directory is deterministic.
func FindFilesByExtension(root, ext string) ([]string, error) {
	if ext == "" {
		return nil, errors.New("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ext {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
