package tables

import (
	intbits "github.com/chefmatteo/Qbluff/internal/bits"
	"github.com/chefmatteo/Qbluff/internal/combin"
)

// Histogram is a rank histogram: one card count (0..4) per rank, deuce first.
type Histogram = [intbits.NumRanks]uint8

// forEachHistogram calls fn for every histogram whose counts sum to k. The
// histogram passed to fn is reused between calls.
func forEachHistogram(k int, fn func(q *Histogram)) {
	var q Histogram
	var rec func(pos, left int)
	rec = func(pos, left int) {
		if pos == intbits.NumRanks {
			if left == 0 {
				fn(&q)
			}
			return
		}
		for c := 0; c <= combin.MaxCount && c <= left; c++ {
			q[pos] = uint8(c)
			rec(pos+1, left-c)
		}
		q[pos] = 0
	}
	rec(0, k)
}

// subHistograms returns the HashQuinary index of every distinct
// sub-histogram of q with size cards.
func subHistograms(q *Histogram, size int) []int {
	var out []int
	var sub Histogram
	var rec func(pos, left int)
	rec = func(pos, left int) {
		if left == 0 {
			out = append(out, combin.HashQuinary(&sub, size))
			return
		}
		if pos == intbits.NumRanks {
			return
		}
		for c := min(int(q[pos]), left); c >= 0; c-- {
			sub[pos] = uint8(c)
			rec(pos+1, left-c)
		}
		sub[pos] = 0
	}
	rec(0, size)
	return out
}

// subPatterns returns every subset of pattern with exactly n bits set.
func subPatterns(pattern uint16, n int) []uint16 {
	var out []uint16
	for sub := pattern; sub > 0; sub = (sub - 1) & pattern {
		if intbits.PopCount(sub) == n {
			out = append(out, sub)
		}
	}
	return out
}
