// Package file provides file utility functions.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"
)

// WriteAtomic writes data to path through a temporary file in the same directory that
// replaces path once fully written, readers see the old or the new content, never
// a partial one. Missing parent directories are created.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory: %w", err)
	}

	if err := atomicwriter.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("could not write file: %w", err)
	}

	return nil
}
