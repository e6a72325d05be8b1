//go:build windows

package mmap

import (
	"io"
	"os"
)

// Windows fallback: read the whole file instead of mapping it. Loads
// still work, they just lose the zero-copy property.
func mmap(f *os.File, size int) ([]byte, error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(f, data); err != nil {
		return nil, err
	}
	return data, nil
}

func munmap(data []byte) error {
	return nil
}
