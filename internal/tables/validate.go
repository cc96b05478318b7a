package tables

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	qblufferrors "github.com/chefmatteo/Qbluff/errors"
	intbits "github.com/chefmatteo/Qbluff/internal/bits"
	"github.com/chefmatteo/Qbluff/internal/combin"
)

// Validate checks that s assigns every class in classes exactly once, that
// the category bands partition the ranks and that every derived table is
// complete. It is run on freshly built tables and on tables loaded from a
// snapshot.
func Validate(s *Set, classes []Class) error {
	if err := validateBands(classes); err != nil {
		return err
	}
	if err := validateShapes(s); err != nil {
		return err
	}

	// Each class must sit where its own pattern or histogram hashes, and
	// every 5-card slot must hold a distinct class.
	for i, c := range classes {
		want := uint16(i + 1)
		var got uint16
		if c.Suited() {
			got = s.Flush[c.Pattern()]
		} else {
			q := c.Histogram()
			got = s.NoFlush[MinHand][combin.HashQuinary(&q, MinHand)]
		}
		if got != want {
			return fmt.Errorf("%w: class %d (%s) stored as %d", qblufferrors.ErrNotBijective, want, c.Description(), got)
		}
	}
	seen := make([]bool, NumClasses+1)
	mark := func(v uint16, what string) error {
		if v == 0 || int(v) > NumClasses {
			return fmt.Errorf("%w: %s holds %d", qblufferrors.ErrIncompleteTable, what, v)
		}
		if seen[v] {
			return fmt.Errorf("%w: rank %d assigned twice (%s)", qblufferrors.ErrNotBijective, v, what)
		}
		seen[v] = true
		return nil
	}
	binarySeen := make([]bool, combin.BinarySize(intbits.NumRanks, intbits.HandSize)+1)
	for p := range uint16(FlushSize) {
		if intbits.PopCount(p) != intbits.HandSize {
			continue
		}
		h := combin.HashBinary(uint32(p), intbits.NumRanks, intbits.HandSize)
		if binarySeen[h] {
			return fmt.Errorf("%w: flush pattern %#x hashes to %d", qblufferrors.ErrHashCollision, p, h)
		}
		binarySeen[h] = true
		if err := mark(s.Flush[p], fmt.Sprintf("flush[%#x]", p)); err != nil {
			return err
		}
		if !CategoryOf(int(s.Flush[p])).suited() {
			return fmt.Errorf("%w: flush[%#x] = %d is not a flush", qblufferrors.ErrNotBijective, p, s.Flush[p])
		}
	}
	for h, v := range s.NoFlush[MinHand] {
		if err := mark(v, fmt.Sprintf("noflush5[%d]", h)); err != nil {
			return err
		}
	}
	for v := 1; v <= NumClasses; v++ {
		if !seen[v] {
			return fmt.Errorf("%w: rank %d never assigned", qblufferrors.ErrNotBijective, v)
		}
	}

	for p, v := range s.Flush {
		if intbits.PopCount(uint16(p)) > intbits.HandSize && (v == 0 || !CategoryOf(int(v)).suited()) {
			return fmt.Errorf("%w: flush[%#x] = %d", qblufferrors.ErrIncompleteTable, p, v)
		}
	}
	for k := MinHand + 1; k <= MaxHand; k++ {
		for h, v := range s.NoFlush[k] {
			if v == 0 || int(v) > NumClasses {
				return fmt.Errorf("%w: noflush%d[%d] = %d", qblufferrors.ErrIncompleteTable, k, h, v)
			}
		}
	}
	for hash, suit := range s.Suits {
		if want := suitOf(uint16(hash)); suit != want {
			return fmt.Errorf("%w: suits[%d] = %d, want %d", qblufferrors.ErrIncompleteTable, hash, suit, want)
		}
	}
	return nil
}

// suitOf returns 1 + the suit holding all five cards of a suit hash, or 0.
// Hashes whose lanes do not sum to five cards cannot come from a hand and
// map to 0.
func suitOf(hash uint16) uint8 {
	total, flush := 0, uint8(0)
	for st := range uint8(intbits.NumSuits) {
		n := intbits.LaneCount(hash, st)
		total += int(n)
		if n == intbits.HandSize {
			flush = st + 1
		}
	}
	if total != intbits.HandSize {
		return 0
	}
	return flush
}

func (c Category) suited() bool {
	return c == StraightFlush || c == Flush
}

// validateBands checks the enumeration against the fixed category bands.
func validateBands(classes []Class) error {
	if len(classes) != NumClasses {
		return fmt.Errorf("%w: %d classes, want %d", qblufferrors.ErrNotBijective, len(classes), NumClasses)
	}
	var counts [NumCategories + 1]int
	for i, c := range classes {
		if got := CategoryOf(i + 1); got != c.Category {
			return fmt.Errorf("%w: class %d is %s but falls in the %s band",
				qblufferrors.ErrNotBijective, i+1, c.Category, got)
		}
		counts[c.Category]++
	}
	for c := StraightFlush; c <= HighCard; c++ {
		if counts[c] != bandSizes[c] {
			return fmt.Errorf("%w: %d %s classes, want %d", qblufferrors.ErrNotBijective, counts[c], c, bandSizes[c])
		}
	}
	return nil
}

// validateShapes checks every table has its expected length.
func validateShapes(s *Set) error {
	check := func(name string, got, want int) error {
		if got != want {
			return fmt.Errorf("%w: %s has %d entries, want %d", qblufferrors.ErrIncompleteTable, name, got, want)
		}
		return nil
	}
	if err := check("flush", len(s.Flush), FlushSize); err != nil {
		return err
	}
	if err := check("suits", len(s.Suits), intbits.SuitHashSize); err != nil {
		return err
	}
	for k := MinHand; k <= MaxHand; k++ {
		if err := check(fmt.Sprintf("noflush%d", k), len(s.NoFlush[k]), combin.QuinarySize(k)); err != nil {
			return err
		}
	}
	if (s.FlushPlo4 == nil) != (s.NoFlushPlo4 == nil) {
		return fmt.Errorf("%w: only one omaha table present", qblufferrors.ErrIncompleteTable)
	}
	if s.HasOmaha() {
		if err := check("flush_plo4", len(s.FlushPlo4), Plo4FlushSize); err != nil {
			return err
		}
		if err := check("noflush_plo4", len(s.NoFlushPlo4), Plo4NoFlushSize); err != nil {
			return err
		}
	}
	return nil
}

// VerifyDerived rebuilds every table that is derived from the five-card
// tables and checks that s holds exactly the same entries: the extended
// flush table, noflush6..9 and, when present, both Omaha tables. Validate
// must have accepted s first.
func VerifyDerived(ctx context.Context, s *Set, workers int) error {
	flush := make([]uint16, FlushSize)
	for p, v := range s.Flush {
		if intbits.PopCount(uint16(p)) == intbits.HandSize {
			flush[p] = v
		}
	}
	extendFlush(flush)
	if err := sameTable("flush", s.Flush, flush); err != nil {
		return err
	}

	noflush, err := buildNoFlushK(ctx, s.NoFlush[MinHand])
	if err != nil {
		return err
	}
	for k := MinHand + 1; k <= MaxHand; k++ {
		if err := sameTable(fmt.Sprintf("noflush%d", k), s.NoFlush[k], noflush[k]); err != nil {
			return err
		}
	}

	if !s.HasOmaha() {
		return nil
	}
	workers = workerCount(workers)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		want, err := buildFlushPlo4(gctx, flush, workers)
		if err != nil {
			return err
		}
		return sameTable("flush_plo4", s.FlushPlo4, want)
	})
	g.Go(func() error {
		want, err := buildNoFlushPlo4(gctx, s.NoFlush[MinHand], workers)
		if err != nil {
			return err
		}
		return sameTable("noflush_plo4", s.NoFlushPlo4, want)
	})
	return g.Wait()
}

func sameTable(name string, got, want []uint16) error {
	if len(got) != len(want) {
		return fmt.Errorf("%w: %s has %d entries, want %d", qblufferrors.ErrIncompleteTable, name, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("%w: %s[%d] = %d, rebuilt %d", qblufferrors.ErrTableMismatch, name, i, got[i], want[i])
		}
	}
	return nil
}
