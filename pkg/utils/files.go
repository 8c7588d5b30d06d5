package utils

import (
	"os"
	"path/filepath"
)

// ResolveSource converts relPath to an absolute path (resolves ../../ and
// cleans the path).
func ResolveSource(relPath string) (string, error) {
	return filepath.Abs(relPath)
}

// ReadSource resolves relPath and returns the file contents as a string.
func ReadSource(relPath string) (string, error) {
	fullPath, err := ResolveSource(relPath)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
