package platform

import (
	"errors"
	"os"
	"path/filepath"
)

// StoreDir is the directory that marks a docbridge workspace.
const StoreDir = ".docbridge"

// ErrNoRoot is returned by FindRoot when no workspace marker exists above the start.
var ErrNoRoot = errors.New("workspace root not found")

var rootMarkers = []string{StoreDir, "docbridge.yaml"}

// FindRoot looks upwards from startDir for a workspace marker: a
// .docbridge directory or a docbridge.yaml file. It returns the absolute
// path of the nearest directory holding one.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoRoot
		}
		dir = parent
	}
}
