package qbluff

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

var (
	baseOnce sync.Once
	base     *Tables
	baseErr  error

	fullOnce sync.Once
	full     *Tables
	fullErr  error
)

// quietLogger discards build logs.
func quietLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

// baseTables returns shared tables built without the Omaha tables.
func baseTables(t testing.TB) *Tables {
	t.Helper()
	baseOnce.Do(func() {
		base, baseErr = Build(t.Context(), WithoutOmaha(), WithLogger(quietLogger()))
	})
	if baseErr != nil {
		t.Fatalf("Build: %v", baseErr)
	}
	return base
}

// fullTables returns shared tables including the Omaha tables.
func fullTables(t testing.TB) *Tables {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping omaha table build in short mode")
	}
	fullOnce.Do(func() {
		full, fullErr = Build(t.Context(), WithLogger(quietLogger()))
	})
	if fullErr != nil {
		t.Fatalf("Build: %v", fullErr)
	}
	return full
}

// deal returns n distinct random cards.
func deal(rng *rand.Rand, n int) []Card {
	perm := rng.Perm(NumCards)
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = Card(perm[i])
	}
	return cards
}

// bestBySubsets is an independent reference for multi-card hands: it
// enumerates 5-card subsets recursively and keeps the strongest.
func bestBySubsets(t *Tables, cards []Card) (HandRank, int) {
	best := HandRank(NumHandRanks + 1)
	checked := 0
	var pick [5]Card
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == len(pick) {
			checked++
			if r := t.Evaluate5(pick); r < best {
				best = r
			}
			return
		}
		for i := start; i < len(cards); i++ {
			pick[depth] = cards[i]
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
	return best, checked
}
