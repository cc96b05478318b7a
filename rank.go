package qbluff

import (
	"github.com/chefmatteo/Qbluff/internal/tables"
)

// HandRank is a dense hand strength: 1 is a royal flush and 7462 is the
// weakest high card. Lower values beat higher ones.
type HandRank uint16

// NumHandRanks is the number of distinct hand strengths.
const NumHandRanks = tables.NumClasses

// Category is one of the nine hand categories.
type Category = tables.Category

// Hand categories, strongest first.
const (
	StraightFlush = tables.StraightFlush
	FourOfAKind   = tables.FourOfAKind
	FullHouse     = tables.FullHouse
	Flush         = tables.Flush
	Straight      = tables.Straight
	ThreeOfAKind  = tables.ThreeOfAKind
	TwoPair       = tables.TwoPair
	OnePair       = tables.OnePair
	HighCard      = tables.HighCard
)

// Valid reports whether r is in [1, NumHandRanks].
func (r HandRank) Valid() bool {
	return r >= 1 && r <= NumHandRanks
}

// Category returns the category band holding r. It returns 0 for an invalid
// rank.
func (r HandRank) Category() Category {
	if !r.Valid() {
		return 0
	}
	return tables.CategoryOf(int(r))
}

// IsFlush reports whether r is a flush or straight flush.
func (r HandRank) IsFlush() bool {
	c := r.Category()
	return c == Flush || c == StraightFlush
}

// Beats reports whether r is strictly stronger than other.
func (r HandRank) Beats(other HandRank) bool {
	return r < other
}

// CategorySize returns the number of hand ranks in category c.
func CategorySize(c Category) int {
	return tables.BandSize(c)
}
