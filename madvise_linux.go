//go:build linux

package qbluff

import "golang.org/x/sys/unix"

// adviseSequential hints to the kernel that a mapped snapshot will be read
// front to back, so readahead can run ahead of the decoder.
// Best-effort: errors are silently ignored.
func adviseSequential(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
}
