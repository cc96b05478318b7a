package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// evict drops the file from the page cache so the reopen below reads from
// disk.
func evict(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if err := unix.Fdatasync(int(f.Fd())); err != nil {
		return err
	}
	return unix.Fadvise(int(f.Fd()), 0, info.Size(), unix.FADV_DONTNEED)
}
