// Package tables builds and validates the immutable hand-rank lookup tables.
//
// Every 5-card hand belongs to one of 7462 strength classes. Classes are
// enumerated category by category in strength order and numbered 1 (royal
// flush) through 7462 (seven-high), and every table is derived from that
// numbering.
package tables

import (
	intbits "github.com/chefmatteo/Qbluff/internal/bits"
)

// NumClasses is the number of distinct 5-card hand strengths.
const NumClasses = 7462

// Category is a hand category. Lower values are stronger.
type Category uint8

// Hand categories in strength order.
const (
	StraightFlush Category = iota + 1
	FourOfAKind
	FullHouse
	Flush
	Straight
	ThreeOfAKind
	TwoPair
	OnePair
	HighCard
)

// NumCategories is the number of hand categories.
const NumCategories = int(HighCard)

// bandSizes[c] is the number of classes in category c.
var bandSizes = [NumCategories + 1]int{
	StraightFlush: 10,
	FourOfAKind:   156,
	FullHouse:     156,
	Flush:         1277,
	Straight:      10,
	ThreeOfAKind:  858,
	TwoPair:       858,
	OnePair:       2860,
	HighCard:      1277,
}

var categoryNames = [NumCategories + 1]string{
	StraightFlush: "Straight Flush",
	FourOfAKind:   "Four of a Kind",
	FullHouse:     "Full House",
	Flush:         "Flush",
	Straight:      "Straight",
	ThreeOfAKind:  "Three of a Kind",
	TwoPair:       "Two Pair",
	OnePair:       "One Pair",
	HighCard:      "High Card",
}

// String returns the category name, or "" for an unknown category.
func (c Category) String() string {
	if c == 0 || int(c) > NumCategories {
		return ""
	}
	return categoryNames[c]
}

// BandSize returns the number of classes in category c.
func BandSize(c Category) int {
	if c == 0 || int(c) > NumCategories {
		return 0
	}
	return bandSizes[c]
}

// CategoryOf maps a class number in [1, NumClasses] to its category.
func CategoryOf(rank int) Category {
	switch {
	case rank > 6185:
		return HighCard
	case rank > 3325:
		return OnePair
	case rank > 2467:
		return TwoPair
	case rank > 1609:
		return ThreeOfAKind
	case rank > 1599:
		return Straight
	case rank > 322:
		return Flush
	case rank > 166:
		return FullHouse
	case rank > 10:
		return FourOfAKind
	default:
		return StraightFlush
	}
}

// Class is one hand-strength equivalence class.
type Class struct {
	Category Category

	// Ranks of a representative hand, in the order they are compared
	// (the wheel lists its ace last).
	Ranks [intbits.HandSize]uint8
}

// Pattern returns the rank pattern of the class. It is meaningful for classes
// whose ranks are distinct (flushes, straights and high cards).
func (c Class) Pattern() uint16 {
	var p uint16
	for _, r := range c.Ranks {
		p |= 1 << r
	}
	return p
}

// Histogram returns the per-rank card counts of the class.
func (c Class) Histogram() [intbits.NumRanks]uint8 {
	var q [intbits.NumRanks]uint8
	for _, r := range c.Ranks {
		q[r]++
	}
	return q
}

// Suited reports whether the class is made of five cards of one suit.
func (c Class) Suited() bool {
	return c.Category == StraightFlush || c.Category == Flush
}

const ace = intbits.NumRanks - 1

// wheelPattern is A-2-3-4-5, the lowest straight.
const wheelPattern = 1<<ace | 0b1111

// straights returns the ten straights from ace-high down to five-high.
func straights() [][intbits.HandSize]uint8 {
	out := make([][intbits.HandSize]uint8, 0, 10)
	for high := uint8(ace); high >= 3; high-- {
		var s [intbits.HandSize]uint8
		for i := range s {
			if high == 3 && i == 4 {
				s[i] = ace
				continue
			}
			s[i] = high - uint8(i)
		}
		out = append(out, s)
	}
	return out
}

// isStraightPattern reports whether a 5-bit rank pattern is a straight.
func isStraightPattern(p uint16) bool {
	if p == wheelPattern {
		return true
	}
	for low := 0; low+4 < intbits.NumRanks; low++ {
		if p == 0b11111<<low {
			return true
		}
	}
	return false
}

// distinctRanksDescending returns every set of five distinct ranks that is not
// a straight, strongest first. Comparing 13-bit patterns as integers orders
// them the same way as comparing their ranks from the highest down.
func distinctRanksDescending() [][intbits.HandSize]uint8 {
	out := make([][intbits.HandSize]uint8, 0, 1277)
	for p := uint16(intbits.RankMask); p > 0; p-- {
		if intbits.PopCount(p) != intbits.HandSize || isStraightPattern(p) {
			continue
		}
		var ranks [intbits.HandSize]uint8
		i := 0
		for r := ace; r >= 0; r-- {
			if p&(1<<r) != 0 {
				ranks[i] = uint8(r)
				i++
			}
		}
		out = append(out, ranks)
	}
	return out
}

// Classes enumerates all hand classes, strongest first. Class i (0-based) has
// rank i+1.
func Classes() []Class {
	classes := make([]Class, 0, NumClasses)
	add := func(c Category, ranks ...uint8) {
		var cl Class
		cl.Category = c
		copy(cl.Ranks[:], ranks)
		classes = append(classes, cl)
	}

	for _, s := range straights() {
		add(StraightFlush, s[:]...)
	}
	for q := ace; q >= 0; q-- {
		for k := ace; k >= 0; k-- {
			if k != q {
				add(FourOfAKind, uint8(q), uint8(q), uint8(q), uint8(q), uint8(k))
			}
		}
	}
	for t := ace; t >= 0; t-- {
		for p := ace; p >= 0; p-- {
			if p != t {
				add(FullHouse, uint8(t), uint8(t), uint8(t), uint8(p), uint8(p))
			}
		}
	}
	distinct := distinctRanksDescending()
	for _, d := range distinct {
		add(Flush, d[:]...)
	}
	for _, s := range straights() {
		add(Straight, s[:]...)
	}
	for t := ace; t >= 0; t-- {
		for k1 := ace; k1 >= 0; k1-- {
			for k2 := k1 - 1; k2 >= 0; k2-- {
				if k1 != t && k2 != t {
					add(ThreeOfAKind, uint8(t), uint8(t), uint8(t), uint8(k1), uint8(k2))
				}
			}
		}
	}
	for p1 := ace; p1 >= 0; p1-- {
		for p2 := p1 - 1; p2 >= 0; p2-- {
			for k := ace; k >= 0; k-- {
				if k != p1 && k != p2 {
					add(TwoPair, uint8(p1), uint8(p1), uint8(p2), uint8(p2), uint8(k))
				}
			}
		}
	}
	for p := ace; p >= 0; p-- {
		for k1 := ace; k1 >= 0; k1-- {
			for k2 := k1 - 1; k2 >= 0; k2-- {
				for k3 := k2 - 1; k3 >= 0; k3-- {
					if k1 != p && k2 != p && k3 != p {
						add(OnePair, uint8(p), uint8(p), uint8(k1), uint8(k2), uint8(k3))
					}
				}
			}
		}
	}
	for _, d := range distinct {
		add(HighCard, d[:]...)
	}
	return classes
}
