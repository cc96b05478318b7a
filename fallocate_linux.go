//go:build linux

package qbluff

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile reserves the snapshot's disk blocks up front so writes
// through the mapping cannot fault with SIGBUS on a full disk.
func fallocateFile(file *os.File, size int64) error {
	fd := int(file.Fd())
	if err := unix.Fallocate(fd, 0, 0, size); err != nil {
		// Some filesystems (NFS, tmpfs on old kernels) lack fallocate.
		return unix.Ftruncate(fd, size)
	}
	// Fallocate reserves blocks but leaves the size unchanged.
	return unix.Ftruncate(fd, size)
}
