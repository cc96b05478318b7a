// Package combin implements the combinatorial number system used to index
// the hand-rank lookup tables.
//
// Two rankings are provided, both O(length) and driven by tables computed once
// at package initialization and never mutated afterwards:
//
//   - HashBinary ranks a bit pattern of length L with exactly k set bits among
//     all such patterns (1-based). It indexes suited rank patterns.
//   - HashQuinary ranks a rank histogram (13 counts in 0..4 summing to k) among
//     all such histograms (0-based). It indexes the non-flush tables.
package combin

import (
	intbits "github.com/chefmatteo/Qbluff/internal/bits"
)

const (
	// MaxN is the largest n held in the choose table.
	MaxN = intbits.NumCards

	// MaxCount is the largest per-rank count in a histogram.
	MaxCount = intbits.NumSuits

	// MaxQuinaryK is the largest histogram size supported by HashQuinary.
	MaxQuinaryK = 9
)

// choose[n][k] = C(n, k) for 0 <= k <= n <= MaxN; zero when k > n.
var choose [MaxN + 1][MaxN + 1]uint64

// quinaryPrefix[c][n][k] counts the histograms of length n summing to k-c'
// over every c' < c: the histograms that sort before one whose current
// position holds c, with n positions left and k cards still to place.
var quinaryPrefix [MaxCount + 1][intbits.NumRanks + 1][MaxQuinaryK + 1]int

func init() {
	for n := 0; n <= MaxN; n++ {
		choose[n][0] = 1
		for k := 1; k <= n; k++ {
			choose[n][k] = choose[n-1][k-1] + choose[n-1][k]
		}
	}

	for n := 0; n <= intbits.NumRanks; n++ {
		for k := 0; k <= MaxQuinaryK; k++ {
			for c := 1; c <= MaxCount; c++ {
				quinaryPrefix[c][n][k] = quinaryPrefix[c-1][n][k]
				if k-(c-1) >= 0 {
					quinaryPrefix[c][n][k] += boundedCompositions(n, k-(c-1))
				}
			}
		}
	}
}

// Choose returns C(n, k). It returns 0 when k > n or either argument is out
// of range.
func Choose(n, k int) uint64 {
	if n < 0 || k < 0 || n > MaxN || k > MaxN {
		return 0
	}
	return choose[n][k]
}

// boundedCompositions counts sequences of n values in 0..MaxCount that sum to s,
// by inclusion-exclusion over the positions forced above MaxCount.
func boundedCompositions(n, s int) int {
	if n == 0 {
		if s == 0 {
			return 1
		}
		return 0
	}
	total := 0
	for j := 0; j <= n && j*(MaxCount+1) <= s; j++ {
		term := int(Choose(n, j) * Choose(s-j*(MaxCount+1)+n-1, n-1))
		if j%2 == 0 {
			total += term
		} else {
			total -= term
		}
	}
	return total
}

// QuinarySize returns the number of rank histograms of size k, which is the
// length of a table indexed by HashQuinary(_, k).
func QuinarySize(k int) int {
	return boundedCompositions(intbits.NumRanks, k)
}

// HashQuinary returns the dense 0-based index of a rank histogram whose counts
// sum to k. Positions are walked from the ace down to the deuce; each count
// adds the number of histograms holding a smaller count at that position with
// the same stronger-rank prefix.
func HashQuinary(q *[intbits.NumRanks]uint8, k int) int {
	sum := 0
	for i := intbits.NumRanks - 1; i >= 0 && k > 0; i-- {
		sum += quinaryPrefix[q[i]][i][k]
		k -= int(q[i])
	}
	return sum
}

// HashBinary returns the 1-based rank of pattern among all length-bit patterns
// with exactly k set bits. Scanning from position 0, each set bit at position
// i adds C(length-i-1, k): the patterns that would sort earlier had a 0 been
// placed there. The scan stops once the remaining budget reaches 0.
func HashBinary(pattern uint32, length, k int) int {
	sum := uint64(0)
	for i := 0; i < length && k > 0; i++ {
		if pattern&(1<<i) == 0 {
			continue
		}
		sum += choose[length-i-1][k]
		k--
	}
	return int(sum) + 1
}

// BinarySize returns C(length, k), the number of values HashBinary(_, length, k)
// can produce.
func BinarySize(length, k int) int {
	return int(Choose(length, k))
}
