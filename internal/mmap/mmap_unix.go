//go:build !windows

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmap maps size bytes of f read-only. The mapping is shared, so the
// pages stay backed by the file rather than swap.
func mmap(f *os.File, size int) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
}

func munmap(data []byte) error {
	return unix.Munmap(data)
}
