package tables

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	qblufferrors "github.com/chefmatteo/Qbluff/errors"
	intbits "github.com/chefmatteo/Qbluff/internal/bits"
	"github.com/chefmatteo/Qbluff/internal/combin"
)

const (
	// MinHand and MaxHand bound the hand sizes with a noflush table.
	MinHand = intbits.HandSize
	MaxHand = combin.MaxQuinaryK

	// FlushSize is the length of the flush table: one entry per 13-bit
	// suited rank pattern.
	FlushSize = 1 << intbits.NumRanks
)

// Set holds every lookup table. A Set is immutable once Build or Validate has
// returned it without error.
type Set struct {
	// Flush maps a suited rank pattern with at least five bits to the best
	// class its ranks make. Patterns with fewer than five bits map to 0.
	Flush []uint16

	// NoFlush[k] maps HashQuinary of a k-card histogram to the best class
	// made ignoring suits, for k in [MinHand, MaxHand].
	NoFlush [MaxHand + 1][]uint16

	// Suits maps a 5-card suit hash to 1 + the suit holding all five cards,
	// or 0 when the hand is not a flush.
	Suits []uint8

	// Omaha tables; nil when built without them.
	FlushPlo4   []uint16
	NoFlushPlo4 []uint16
}

// HasOmaha reports whether the Omaha tables are present.
func (s *Set) HasOmaha() bool {
	return s.FlushPlo4 != nil && s.NoFlushPlo4 != nil
}

// Config controls Build.
type Config struct {
	// Workers bounds the goroutines used for the Omaha tables. Values <= 0
	// use GOMAXPROCS.
	Workers int

	// Omaha enables the Omaha tables.
	Omaha bool

	Logger logrus.FieldLogger
}

// Build enumerates the classes, derives every table from them and validates
// the result. No Set is returned unless validation passes.
func Build(ctx context.Context, cfg Config) (*Set, error) {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	workers := workerCount(cfg.Workers)

	start := time.Now()
	classes := Classes()
	s := &Set{Suits: buildSuits()}
	if err := s.assignClasses(classes); err != nil {
		return nil, err
	}
	extendFlush(s.Flush)
	log.WithFields(logrus.Fields{
		"classes": len(classes),
		"elapsed": time.Since(start),
	}).Debug("five-card tables built")

	var (
		noflush     [MaxHand + 1][]uint16
		flushPlo4   []uint16
		noflushPlo4 []uint16
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t := time.Now()
		var err error
		noflush, err = buildNoFlushK(gctx, s.NoFlush[MinHand])
		if err == nil {
			log.WithField("elapsed", time.Since(t)).Debug("multi-card tables built")
		}
		return err
	})
	if cfg.Omaha {
		g.Go(func() error {
			t := time.Now()
			var err error
			flushPlo4, err = buildFlushPlo4(gctx, s.Flush, workers)
			if err == nil {
				log.WithField("elapsed", time.Since(t)).Debug("omaha flush table built")
			}
			return err
		})
		g.Go(func() error {
			t := time.Now()
			var err error
			noflushPlo4, err = buildNoFlushPlo4(gctx, s.NoFlush[MinHand], workers)
			if err == nil {
				log.WithFields(logrus.Fields{
					"workers": workers,
					"elapsed": time.Since(t),
				}).Debug("omaha noflush table built")
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build tables: %w", err)
	}
	for k := MinHand + 1; k <= MaxHand; k++ {
		s.NoFlush[k] = noflush[k]
	}
	s.FlushPlo4 = flushPlo4
	s.NoFlushPlo4 = noflushPlo4

	if err := Validate(s, classes); err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"omaha":   s.HasOmaha(),
		"elapsed": time.Since(start),
	}).Info("hand-rank tables ready")
	return s, nil
}

// assignClasses numbers the classes 1..NumClasses and stores each in the
// five-card table its category belongs to. Two classes landing on one slot
// fail the build.
func (s *Set) assignClasses(classes []Class) error {
	if len(classes) != NumClasses {
		return fmt.Errorf("%w: enumerated %d classes, want %d", qblufferrors.ErrNotBijective, len(classes), NumClasses)
	}
	s.Flush = make([]uint16, FlushSize)
	noflush5 := make([]uint16, combin.QuinarySize(MinHand))
	for i, c := range classes {
		rank := uint16(i + 1)
		var slot *uint16
		if c.Suited() {
			slot = &s.Flush[c.Pattern()]
		} else {
			q := c.Histogram()
			slot = &noflush5[combin.HashQuinary(&q, MinHand)]
		}
		if *slot != 0 {
			return fmt.Errorf("%w: class %d (%s) shares a slot with class %d",
				qblufferrors.ErrNotBijective, rank, c.Description(), *slot)
		}
		*slot = rank
	}
	s.NoFlush[MinHand] = noflush5
	return nil
}

// extendFlush fills the entries for patterns of six or more ranks with the
// best 5-rank subset. Removing a bit always yields a smaller pattern, so an
// ascending scan sees every subset before its supersets.
func extendFlush(flush []uint16) {
	for p := range flush {
		if intbits.PopCount(uint16(p)) <= intbits.HandSize {
			continue
		}
		best := uint16(0)
		for rest := uint16(p); rest != 0; rest &= rest - 1 {
			bit := rest & -rest
			if v := flush[uint16(p)&^bit]; best == 0 || v < best {
				best = v
			}
		}
		flush[p] = best
	}
}

// buildSuits marks the suit hashes in which one lane holds all five cards.
func buildSuits() []uint8 {
	suits := make([]uint8, intbits.SuitHashSize)
	for s := range intbits.NumSuits {
		suits[intbits.HandSize<<(intbits.SuitLaneWidth*s)] = uint8(s + 1)
	}
	return suits
}

// buildNoFlushK derives the 6..9 card noflush tables. A k-card histogram
// scores the best of its (k-1)-card sub-histograms, each already scored.
func buildNoFlushK(ctx context.Context, noflush5 []uint16) ([MaxHand + 1][]uint16, error) {
	var out [MaxHand + 1][]uint16
	out[MinHand] = noflush5
	for k := MinHand + 1; k <= MaxHand; k++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		prev := out[k-1]
		table := make([]uint16, combin.QuinarySize(k))
		forEachHistogram(k, func(q *Histogram) {
			best := uint16(0)
			for r := range q {
				if q[r] == 0 {
					continue
				}
				q[r]--
				v := prev[combin.HashQuinary(q, k-1)]
				q[r]++
				if best == 0 || v < best {
					best = v
				}
			}
			table[combin.HashQuinary(q, k)] = best
		})
		out[k] = table
	}
	return out, nil
}

// workerCount maps a configured worker count to a usable limit.
func workerCount(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// workerGroup returns an errgroup limited to n goroutines.
func workerGroup(ctx context.Context, n int) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n)
	return g, gctx
}
