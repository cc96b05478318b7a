//go:build !linux

package qbluff

// prefaultRegion is a no-op on non-Linux platforms.
func prefaultRegion(data []byte) {}
