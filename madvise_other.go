//go:build !linux

package qbluff

// adviseSequential is a no-op on non-Linux platforms.
func adviseSequential(data []byte) {}
