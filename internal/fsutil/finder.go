// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// GridFileExtension is the suffix that marks a file as a grid definition.
const GridFileExtension = ".hcl"

// FindGridFiles returns the full paths of every grid file reachable from
// rootPath. The root may be a single grid file or a directory, which is
// searched recursively. Results come back in lexical walk order, so repeated
// loads of the same tree are deterministic.
func FindGridFiles(rootPath string) ([]string, error) {
	return FindFilesByExtension(rootPath, GridFileExtension)
}

// FindFilesByExtension recursively searches the given root path for all files
// ending with the specified extension. It returns a slice of their full paths.
func FindFilesByExtension(rootPath string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
