// Package source loads MathLamp programs from disk.
package source

import (
	"errors"
	"fmt"
	"os"
)

var (
	ErrFileTooLarge = errors.New("source: file size limit exceeded")
	ErrNotRegular   = errors.New("source: not a regular file")
)

// DefaultMaxSize bounds a program file when no limit is configured.
const DefaultMaxSize = 5 * 1024 * 1024

// Load reads the file at path. A maxSize <= 0 means DefaultMaxSize.
func Load(path string, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	if info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrFileTooLarge, path, info.Size(), maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return data, nil
}
