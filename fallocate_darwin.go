//go:build darwin

package qbluff

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile reserves the snapshot's disk blocks with F_PREALLOCATE and
// sets the file size.
func fallocateFile(file *os.File, size int64) error {
	fst := unix.Fstore_t{
		Flags:   unix.F_ALLOCATEALL,
		Posmode: unix.F_PEOFPOSMODE,
		Length:  size,
	}
	// Preallocation is best-effort; APFS may refuse it.
	_ = unix.FcntlFstore(file.Fd(), unix.F_PREALLOCATE, &fst)
	return unix.Ftruncate(int(file.Fd()), size)
}
