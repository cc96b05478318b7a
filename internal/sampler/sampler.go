// Package sampler draws cards uniformly without replacement.
package sampler

import (
	"fmt"
	"math/rand/v2"

	qblufferrors "github.com/chefmatteo/Qbluff/errors"
	intbits "github.com/chefmatteo/Qbluff/internal/bits"
)

// Sampler deals card ids from a full deck. It is not safe for concurrent use;
// give each goroutine its own Sampler.
type Sampler struct {
	rng  *rand.Rand
	deck [intbits.NumCards]uint8
}

// New returns a Sampler drawing from rng.
func New(rng *rand.Rand) *Sampler {
	s := &Sampler{rng: rng}
	for i := range s.deck {
		s.deck[i] = uint8(i)
	}
	return s
}

// NewSeeded returns a Sampler with a deterministic PCG source.
func NewSeeded(seed1, seed2 uint64) *Sampler {
	return New(rand.New(rand.NewPCG(seed1, seed2)))
}

// Sample returns n distinct card ids. It runs a partial Fisher-Yates shuffle
// over the deck: each draw swaps a random unpicked card to the end of the
// unpicked range and takes it.
func (s *Sampler) Sample(n int) ([]uint8, error) {
	if n < 0 || n > len(s.deck) {
		return nil, fmt.Errorf("%w: cannot sample %d of %d", qblufferrors.ErrCardCount, n, len(s.deck))
	}
	out := make([]uint8, n)
	s.SampleInto(out)
	return out, nil
}

// SampleInto fills dst with distinct card ids. len(dst) must not exceed the
// deck size.
func (s *Sampler) SampleInto(dst []uint8) {
	remaining := len(s.deck)
	for i := range dst {
		j := s.rng.IntN(remaining)
		tail := remaining - 1
		s.deck[j], s.deck[tail] = s.deck[tail], s.deck[j]
		dst[i] = s.deck[tail]
		remaining--
	}
}
