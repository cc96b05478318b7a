package tables

import (
	"context"

	intbits "github.com/chefmatteo/Qbluff/internal/bits"
	"github.com/chefmatteo/Qbluff/internal/combin"
)

// Omaha table geometry.
//
// The flush table is indexed by the padded board pattern (5 of 15 bits) and
// the padded hole pattern (4 of 15 bits). The noflush table is indexed by the
// 5-card board histogram and the 4-card hole histogram.
var (
	Plo4FlushHoleSpace   = combin.BinarySize(intbits.OmahaPatternLen, intbits.OmahaHoleBits)
	Plo4FlushBoardSpace  = combin.BinarySize(intbits.OmahaPatternLen, intbits.OmahaBoardBits)
	Plo4NoFlushHoleSpace = combin.QuinarySize(intbits.OmahaHoleBits)
	Plo4NoFlushBoardSize = combin.QuinarySize(intbits.OmahaBoardBits)

	Plo4FlushSize   = Plo4FlushBoardSpace * Plo4FlushHoleSpace
	Plo4NoFlushSize = Plo4NoFlushBoardSize * Plo4NoFlushHoleSpace
)

// omahaRowsPerTask is the number of board rows one worker fills per task.
const omahaRowsPerTask = 64

// Plo4FlushIndex returns the flush_plo4 index of a suit's board and hole
// rank patterns. The board must hold 3..5 ranks and the hole 2..4.
func Plo4FlushIndex(board, hole uint16) int {
	return plo4FlushRow(board) + plo4FlushColumn(hole)
}

// plo4FlushRow returns the offset of a board pattern's row.
func plo4FlushRow(board uint16) int {
	b := board | intbits.OmahaPadding(intbits.OmahaBoardBits-intbits.PopCount(board))
	return (combin.HashBinary(uint32(b), intbits.OmahaPatternLen, intbits.OmahaBoardBits) - 1) * Plo4FlushHoleSpace
}

// plo4FlushColumn returns the column of a hole pattern within a row.
func plo4FlushColumn(hole uint16) int {
	h := hole | intbits.OmahaPadding(intbits.OmahaHoleBits-intbits.PopCount(hole))
	return combin.HashBinary(uint32(h), intbits.OmahaPatternLen, intbits.OmahaHoleBits) - 1
}

// Plo4NoFlushIndex returns the noflush_plo4 index of a 5-card board histogram
// and a 4-card hole histogram.
func Plo4NoFlushIndex(board, hole *Histogram) int {
	return combin.HashQuinary(board, intbits.OmahaBoardBits)*Plo4NoFlushHoleSpace +
		combin.HashQuinary(hole, intbits.OmahaHoleBits)
}

// buildFlushPlo4 scores every compatible pair of board and hole patterns of
// one suit by the best flush using exactly three board and two hole ranks.
// Pairs sharing a rank cannot occur and stay 0.
func buildFlushPlo4(ctx context.Context, flush []uint16, workers int) ([]uint16, error) {
	type side struct {
		pattern uint16
		index   int
		subs    []uint16
	}
	collect := func(lo, hi, pick int) []side {
		var out []side
		for p := uint16(1); p <= intbits.RankMask; p++ {
			n := intbits.PopCount(p)
			if n < lo || n > hi {
				continue
			}
			out = append(out, side{pattern: p, subs: subPatterns(p, pick)})
		}
		return out
	}
	boards := collect(intbits.OmahaMinBoard, intbits.OmahaBoardBits, intbits.OmahaMinBoard)
	holes := collect(intbits.OmahaMinHole, intbits.OmahaHoleBits, intbits.OmahaMinHole)
	for i := range boards {
		boards[i].index = plo4FlushRow(boards[i].pattern)
	}
	for i := range holes {
		holes[i].index = plo4FlushColumn(holes[i].pattern)
	}

	table := make([]uint16, Plo4FlushSize)
	g, gctx := workerGroup(ctx, workers)
	for lo := 0; lo < len(boards); lo += omahaRowsPerTask {
		rows := boards[lo:min(lo+omahaRowsPerTask, len(boards))]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for _, b := range rows {
				for _, h := range holes {
					if b.pattern&h.pattern != 0 {
						continue
					}
					best := uint16(0)
					for _, b3 := range b.subs {
						for _, h2 := range h.subs {
							if v := flush[b3|h2]; best == 0 || v < best {
								best = v
							}
						}
					}
					table[b.index+h.index] = best
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table, nil
}

// buildNoFlushPlo4 scores every board and hole histogram pair by the best
// hand ignoring suits that uses exactly three board and two hole cards.
//
// The candidate hands are the sums of a 3-card board sub-histogram and a
// 2-card hole sub-histogram, so those sums are scored once up front. A board
// has at most C(5,3) = 10 distinct 3-card sub-histograms and a hole at most
// C(4,2) = 6 distinct 2-card ones.
func buildNoFlushPlo4(ctx context.Context, noflush5 []uint16, workers int) ([]uint16, error) {
	const (
		boardPick = intbits.OmahaMinBoard
		holePick  = intbits.OmahaMinHole
	)
	pickBoard := combin.QuinarySize(boardPick)
	pickHole := combin.QuinarySize(holePick)

	var boardParts, holeParts []Histogram
	forEachHistogram(boardPick, func(q *Histogram) { boardParts = append(boardParts, *q) })
	forEachHistogram(holePick, func(q *Histogram) { holeParts = append(holeParts, *q) })

	// pair[b3*pickHole+h2] is the 5-card score of the two parts combined, or
	// 0 when a rank would need a fifth card.
	pair := make([]uint16, pickBoard*pickHole)
	for _, b := range boardParts {
		bi := combin.HashQuinary(&b, boardPick)
		for _, h := range holeParts {
			var sum Histogram
			ok := true
			for r := range sum {
				sum[r] = b[r] + h[r]
				if sum[r] > combin.MaxCount {
					ok = false
				}
			}
			if ok {
				pair[bi*pickHole+combin.HashQuinary(&h, holePick)] = noflush5[combin.HashQuinary(&sum, intbits.HandSize)]
			}
		}
	}

	holeSubs := make([][]int, Plo4NoFlushHoleSpace)
	forEachHistogram(intbits.OmahaHoleBits, func(q *Histogram) {
		holeSubs[combin.HashQuinary(q, intbits.OmahaHoleBits)] = subHistograms(q, holePick)
	})
	boardSubs := make([][]int, Plo4NoFlushBoardSize)
	forEachHistogram(intbits.OmahaBoardBits, func(q *Histogram) {
		boardSubs[combin.HashQuinary(q, intbits.OmahaBoardBits)] = subHistograms(q, boardPick)
	})

	table := make([]uint16, Plo4NoFlushSize)
	g, gctx := workerGroup(ctx, workers)
	for lo := 0; lo < len(boardSubs); lo += omahaRowsPerTask {
		hi := min(lo+omahaRowsPerTask, len(boardSubs))
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for b := lo; b < hi; b++ {
				row := table[b*Plo4NoFlushHoleSpace : (b+1)*Plo4NoFlushHoleSpace]
				for h, hs := range holeSubs {
					best := uint16(0)
					for _, b3 := range boardSubs[b] {
						cand := pair[b3*pickHole : (b3+1)*pickHole]
						for _, h2 := range hs {
							if v := cand[h2]; v != 0 && (best == 0 || v < best) {
								best = v
							}
						}
					}
					row[h] = best
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return table, nil
}
