package bits

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand/v2"
	"testing"
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

// TestCardEncoding verifies rank*4+suit round-trips for every id.
func TestCardEncoding(t *testing.T) {
	for r := uint8(0); r < NumRanks; r++ {
		for s := uint8(0); s < NumSuits; s++ {
			id := r*NumSuits + s
			if got := RankOf(id); got != r {
				t.Errorf("RankOf(%d) = %d, want %d", id, got, r)
			}
			if got := SuitOf(id); got != s {
				t.Errorf("SuitOf(%d) = %d, want %d", id, got, s)
			}
			if got := RankBit(id); got != 1<<r {
				t.Errorf("RankBit(%d) = %#x, want %#x", id, got, 1<<r)
			}
		}
	}
}

// TestSuitHashLanesNeverCollide enumerates every suit distribution of five
// cards and checks each packs to a distinct hash below SuitHashSize whose
// lanes decode back to the original counts.
func TestSuitHashLanesNeverCollide(t *testing.T) {
	seen := make(map[uint16][4]uint8)
	for c0 := uint8(0); c0 <= HandSize; c0++ {
		for c1 := uint8(0); c0+c1 <= HandSize; c1++ {
			for c2 := uint8(0); c0+c1+c2 <= HandSize; c2++ {
				c3 := HandSize - c0 - c1 - c2
				counts := [4]uint8{c0, c1, c2, c3}

				var hash uint16
				for s, n := range counts {
					for range n {
						hash += SuitLane(uint8(s))
					}
				}
				if int(hash) >= SuitHashSize {
					t.Fatalf("hash %d for %v exceeds SuitHashSize %d", hash, counts, SuitHashSize)
				}
				if prev, ok := seen[hash]; ok {
					t.Fatalf("hash %d shared by %v and %v", hash, prev, counts)
				}
				seen[hash] = counts
				for s := uint8(0); s < NumSuits; s++ {
					if got := LaneCount(hash, s); got != counts[s] {
						t.Errorf("LaneCount(%d, %d) = %d, want %d", hash, s, got, counts[s])
					}
				}
			}
		}
	}
	// C(5+3, 3) distributions of five cards over four suits.
	if len(seen) != 56 {
		t.Errorf("saw %d distributions, want 56", len(seen))
	}
}

// TestSuitLaneRandomHands checks lane counts against a direct tally.
func TestSuitLaneRandomHands(t *testing.T) {
	rng := newTestRNG(t)
	for i := 0; i < 1000; i++ {
		perm := rng.Perm(NumCards)
		var hash uint16
		var want [NumSuits]uint8
		for _, c := range perm[:HandSize] {
			hash += SuitLane(uint8(c))
			want[SuitOf(uint8(c))]++
		}
		for s := uint8(0); s < NumSuits; s++ {
			if got := LaneCount(hash, s); got != want[s] {
				t.Fatalf("iter %d: suit %d count %d, want %d", i, s, got, want[s])
			}
		}
	}
}

func TestOmahaPadding(t *testing.T) {
	if OmahaPatternLen != 15 {
		t.Fatalf("OmahaPatternLen = %d, want 15", OmahaPatternLen)
	}
	for missing := 0; missing <= 2; missing++ {
		pad := OmahaPadding(missing)
		if PopCount(pad) != missing {
			t.Errorf("OmahaPadding(%d) has %d bits", missing, PopCount(pad))
		}
		if pad&RankMask != 0 {
			t.Errorf("OmahaPadding(%d) = %#x overlaps rank positions", missing, pad)
		}
		if pad>>OmahaPatternLen != 0 {
			t.Errorf("OmahaPadding(%d) = %#x exceeds %d bits", missing, pad, OmahaPatternLen)
		}
	}
	// Every legal side population pads up to its nominal width.
	for n := OmahaMinBoard; n <= OmahaBoardBits; n++ {
		if got := n + PopCount(OmahaPadding(OmahaBoardBits-n)); got != OmahaBoardBits {
			t.Errorf("board with %d suited cards pads to %d bits", n, got)
		}
	}
	for n := OmahaMinHole; n <= OmahaHoleBits; n++ {
		if got := n + PopCount(OmahaPadding(OmahaHoleBits-n)); got != OmahaHoleBits {
			t.Errorf("hole with %d suited cards pads to %d bits", n, got)
		}
	}
}
