//go:build !linux

package main

// evict is a no-op on platforms without posix_fadvise.
func evict(string) error { return nil }
