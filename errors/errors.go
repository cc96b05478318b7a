// Package errors defines all exported error sentinels for the qbluff library.
//
// Both the top-level qbluff package and the internal table packages import
// from here, so errors.Is checks work across package boundaries.
package errors

import "errors"

// Table construction errors
var (
	ErrNotBijective    = errors.New("qbluff: hand classes are not a bijection onto 1..7462")
	ErrIncompleteTable = errors.New("qbluff: lookup table has unassigned entries")
	ErrHashCollision   = errors.New("qbluff: combinatorial hash collision")
	ErrTableMismatch   = errors.New("qbluff: derived table disagrees with the five-card tables")
)

// Caller contract errors (reported by the checked entry points only)
var (
	ErrInvalidCard     = errors.New("qbluff: card id out of range [0,52)")
	ErrDuplicateCard   = errors.New("qbluff: duplicate card")
	ErrCardCount       = errors.New("qbluff: unsupported number of cards")
	ErrInvalidCardName = errors.New("qbluff: invalid card name")
)

// Snapshot errors
var (
	ErrInvalidMagic    = errors.New("qbluff: invalid magic number")
	ErrInvalidVersion  = errors.New("qbluff: unsupported version")
	ErrChecksumFailed  = errors.New("qbluff: snapshot checksum verification failed")
	ErrTruncatedFile   = errors.New("qbluff: snapshot file is truncated")
	ErrCorruptedTables = errors.New("qbluff: snapshot data is corrupted")
)
