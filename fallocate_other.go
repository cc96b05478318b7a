//go:build !linux && !darwin

package qbluff

import "os"

// fallocateFile sets the snapshot size. Blocks may not be reserved on every
// filesystem.
func fallocateFile(file *os.File, size int64) error {
	return file.Truncate(size)
}
