package qbluff

import (
	"fmt"
	"math"

	qblufferrors "github.com/chefmatteo/Qbluff/errors"
	intbits "github.com/chefmatteo/Qbluff/internal/bits"
	"github.com/chefmatteo/Qbluff/internal/combin"
	"github.com/chefmatteo/Qbluff/internal/tables"
)

// The unchecked evaluators below assume distinct cards in [0, 52). Use
// Evaluate or EvaluateOmaha to validate untrusted input first.

const (
	minCards = tables.MinHand
	maxCards = tables.MaxHand

	omahaBoard   = 5
	omahaHole    = 4
	maxOmahaHole = 6
)

// fiveOf[n] lists every 5-card selection from n cards as index tuples.
var fiveOf [maxCards + 1][][minCards]uint8

// omahaPicks[n] lists every selection of three board and two of n hole
// cards.
var omahaPicks [maxOmahaHole + 1][][minCards]uint8

// holeFours[n] lists every 4-card selection from n hole cards.
var holeFours [maxOmahaHole + 1][][minCards]uint8

func init() {
	for n := minCards; n <= maxCards; n++ {
		fiveOf[n] = selections(n, minCards)
	}
	for n := omahaHole; n <= maxOmahaHole; n++ {
		for _, b := range selections(omahaBoard, intbits.OmahaMinBoard) {
			for _, h := range selections(n, intbits.OmahaMinHole) {
				omahaPicks[n] = append(omahaPicks[n], [minCards]uint8{b[0], b[1], b[2], h[0], h[1]})
			}
		}
		holeFours[n] = selections(n, omahaHole)
	}
}

// selections returns every k-subset of [0, n) in lexicographic order, padded
// to five entries.
func selections(n, k int) [][minCards]uint8 {
	out := make([][minCards]uint8, 0, combin.Choose(n, k))
	var cur [minCards]uint8
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			out = append(out, cur)
			return
		}
		for i := start; i < n; i++ {
			cur[depth] = uint8(i)
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
	return out
}

// eval5 ranks five cards: one suit-hash probe decides between the flush
// table and the histogram table.
func (t *Tables) eval5(a, b, c, d, e Card) HandRank {
	hash := intbits.SuitLane(uint8(a)) + intbits.SuitLane(uint8(b)) + intbits.SuitLane(uint8(c)) +
		intbits.SuitLane(uint8(d)) + intbits.SuitLane(uint8(e))
	if t.set.Suits[hash] != 0 {
		pattern := intbits.RankBit(uint8(a)) | intbits.RankBit(uint8(b)) | intbits.RankBit(uint8(c)) |
			intbits.RankBit(uint8(d)) | intbits.RankBit(uint8(e))
		return HandRank(t.set.Flush[pattern])
	}
	var q tables.Histogram
	q[intbits.RankOf(uint8(a))]++
	q[intbits.RankOf(uint8(b))]++
	q[intbits.RankOf(uint8(c))]++
	q[intbits.RankOf(uint8(d))]++
	q[intbits.RankOf(uint8(e))]++
	return HandRank(t.set.NoFlush[minCards][combin.HashQuinary(&q, minCards)])
}

// bestOf returns the strongest rank over the given 5-card selections.
func (t *Tables) bestOf(cards []Card, picks [][minCards]uint8) HandRank {
	best := HandRank(math.MaxUint16)
	for _, p := range picks {
		if r := t.eval5(cards[p[0]], cards[p[1]], cards[p[2]], cards[p[3]], cards[p[4]]); r < best {
			best = r
		}
	}
	return best
}

// Evaluate5 ranks a 5-card hand.
func (t *Tables) Evaluate5(cards [5]Card) HandRank {
	return t.eval5(cards[0], cards[1], cards[2], cards[3], cards[4])
}

// Evaluate6 ranks the best 5-card hand among 6 cards.
func (t *Tables) Evaluate6(cards [6]Card) HandRank {
	return t.bestOf(cards[:], fiveOf[6])
}

// Evaluate7 ranks the best 5-card hand among 7 cards.
func (t *Tables) Evaluate7(cards [7]Card) HandRank {
	return t.bestOf(cards[:], fiveOf[7])
}

// Evaluate8 ranks the best 5-card hand among 8 cards.
func (t *Tables) Evaluate8(cards [8]Card) HandRank {
	return t.bestOf(cards[:], fiveOf[8])
}

// Evaluate9 ranks the best 5-card hand among 9 cards.
func (t *Tables) Evaluate9(cards [9]Card) HandRank {
	return t.bestOf(cards[:], fiveOf[9])
}

// Evaluate ranks the best 5-card hand among 5 to 9 cards. Unlike the
// fixed-size evaluators it rejects a wrong card count, out-of-range ids and
// repeated cards.
func (t *Tables) Evaluate(cards ...Card) (HandRank, error) {
	if len(cards) < minCards || len(cards) > maxCards {
		return 0, fmt.Errorf("%w: %d cards, want %d to %d", qblufferrors.ErrCardCount, len(cards), minCards, maxCards)
	}
	if err := validateCards(cards); err != nil {
		return 0, err
	}
	if len(cards) == minCards {
		return t.eval5(cards[0], cards[1], cards[2], cards[3], cards[4]), nil
	}
	return t.bestOf(cards, fiveOf[len(cards)]), nil
}

// Lookup ranks 5 to 9 cards with a single probe of the multi-card tables
// instead of scoring every 5-card selection. It agrees with Evaluate on
// every valid hand. Like the fixed-size evaluators it does not validate its
// input: cards must hold 5 to 9 distinct ids in [0, 52), and other lengths
// panic.
func (t *Tables) Lookup(cards []Card) HandRank {
	if len(cards) < minCards || len(cards) > maxCards {
		panic(fmt.Sprintf("qbluff: Lookup of %d cards, want %d to %d", len(cards), minCards, maxCards))
	}
	var (
		q        tables.Histogram
		counts   [intbits.NumSuits]uint8
		patterns [intbits.NumSuits]uint16
	)
	for _, c := range cards {
		q[intbits.RankOf(uint8(c))]++
		counts[intbits.SuitOf(uint8(c))]++
		patterns[intbits.SuitOf(uint8(c))] |= intbits.RankBit(uint8(c))
	}
	best := HandRank(t.set.NoFlush[len(cards)][combin.HashQuinary(&q, len(cards))])
	for s, n := range counts {
		if n >= minCards {
			// A flush always beats the best non-flush hand of the same cards.
			return min(best, HandRank(t.set.Flush[patterns[s]]))
		}
	}
	return best
}

// EvaluatePlo4 ranks an Omaha hand: the best 5-card hand using exactly three
// of the five board cards and two of the four hole cards.
func (t *Tables) EvaluatePlo4(board [5]Card, hole [4]Card) HandRank {
	if !t.set.HasOmaha() {
		return t.omahaSearch(board, hole[:])
	}

	var (
		bq, hq tables.Histogram
		bc, hc [intbits.NumSuits]int
		bp, hp [intbits.NumSuits]uint16
	)
	for _, c := range board {
		bq[intbits.RankOf(uint8(c))]++
		bc[intbits.SuitOf(uint8(c))]++
		bp[intbits.SuitOf(uint8(c))] |= intbits.RankBit(uint8(c))
	}
	for _, c := range hole {
		hq[intbits.RankOf(uint8(c))]++
		hc[intbits.SuitOf(uint8(c))]++
		hp[intbits.SuitOf(uint8(c))] |= intbits.RankBit(uint8(c))
	}

	best := HandRank(t.set.NoFlushPlo4[tables.Plo4NoFlushIndex(&bq, &hq)])
	for s := range intbits.NumSuits {
		if bc[s] < intbits.OmahaMinBoard || hc[s] < intbits.OmahaMinHole {
			continue
		}
		// Three board cards of one suit leave too few for another suit.
		var v uint16
		if bc[s] == intbits.OmahaMinBoard && hc[s] == intbits.OmahaMinHole {
			v = t.set.Flush[bp[s]|hp[s]]
		} else {
			v = t.set.FlushPlo4[tables.Plo4FlushIndex(bp[s], hp[s])]
		}
		return min(best, HandRank(v))
	}
	return best
}

// omahaSearch ranks an Omaha hand of 4 to 6 hole cards by scoring every
// legal selection: 60, 100 or 150 of them.
func (t *Tables) omahaSearch(board [5]Card, hole []Card) HandRank {
	best := HandRank(math.MaxUint16)
	for _, p := range omahaPicks[len(hole)] {
		r := t.eval5(board[p[0]], board[p[1]], board[p[2]], hole[p[3]], hole[p[4]])
		if r < best {
			best = r
		}
	}
	return best
}

// omahaBest ranks a hand of 5 or 6 hole cards as the best of its 4-card
// hole selections. Every legal pair of hole cards lies in one of them.
func (t *Tables) omahaBest(board [5]Card, hole []Card) HandRank {
	if !t.set.HasOmaha() {
		return t.omahaSearch(board, hole)
	}
	best := HandRank(math.MaxUint16)
	for _, p := range holeFours[len(hole)] {
		if r := t.EvaluatePlo4(board, [4]Card{hole[p[0]], hole[p[1]], hole[p[2]], hole[p[3]]}); r < best {
			best = r
		}
	}
	return best
}

// EvaluatePlo5 ranks a five-card Omaha hand: the best 5-card hand using
// exactly three board cards and two of the five hole cards.
func (t *Tables) EvaluatePlo5(board [5]Card, hole [5]Card) HandRank {
	return t.omahaBest(board, hole[:])
}

// EvaluatePlo6 ranks a six-card Omaha hand: the best 5-card hand using
// exactly three board cards and two of the six hole cards.
func (t *Tables) EvaluatePlo6(board [5]Card, hole [6]Card) HandRank {
	return t.omahaBest(board, hole[:])
}

// EvaluateOmaha4 is EvaluatePlo4.
func (t *Tables) EvaluateOmaha4(board [5]Card, hole [4]Card) HandRank {
	return t.EvaluatePlo4(board, hole)
}

// EvaluateOmaha validates an Omaha hand of five board cards and four to six
// hole cards and ranks it.
func (t *Tables) EvaluateOmaha(board, hole []Card) (HandRank, error) {
	if len(board) != omahaBoard || len(hole) < omahaHole || len(hole) > maxOmahaHole {
		return 0, fmt.Errorf("%w: %d board and %d hole cards, want %d and %d to %d",
			qblufferrors.ErrCardCount, len(board), len(hole), omahaBoard, omahaHole, maxOmahaHole)
	}
	all := make([]Card, 0, omahaBoard+maxOmahaHole)
	all = append(append(all, board...), hole...)
	if err := validateCards(all); err != nil {
		return 0, err
	}
	if len(hole) == omahaHole {
		return t.EvaluatePlo4([5]Card(board), [4]Card(hole)), nil
	}
	return t.omahaBest([5]Card(board), hole), nil
}

// Package-level evaluators use Default().

// Evaluate5 is Default().Evaluate5.
func Evaluate5(cards [5]Card) HandRank { return Default().Evaluate5(cards) }

// Evaluate6 is Default().Evaluate6.
func Evaluate6(cards [6]Card) HandRank { return Default().Evaluate6(cards) }

// Evaluate7 is Default().Evaluate7.
func Evaluate7(cards [7]Card) HandRank { return Default().Evaluate7(cards) }

// Evaluate8 is Default().Evaluate8.
func Evaluate8(cards [8]Card) HandRank { return Default().Evaluate8(cards) }

// Evaluate9 is Default().Evaluate9.
func Evaluate9(cards [9]Card) HandRank { return Default().Evaluate9(cards) }

// Evaluate is Default().Evaluate.
func Evaluate(cards ...Card) (HandRank, error) { return Default().Evaluate(cards...) }

// EvaluatePlo4 is Default().EvaluatePlo4.
func EvaluatePlo4(board [5]Card, hole [4]Card) HandRank {
	return Default().EvaluatePlo4(board, hole)
}

// EvaluateOmaha4 is Default().EvaluateOmaha4.
func EvaluateOmaha4(board [5]Card, hole [4]Card) HandRank {
	return Default().EvaluateOmaha4(board, hole)
}

// EvaluatePlo5 is Default().EvaluatePlo5.
func EvaluatePlo5(board [5]Card, hole [5]Card) HandRank {
	return Default().EvaluatePlo5(board, hole)
}

// EvaluatePlo6 is Default().EvaluatePlo6.
func EvaluatePlo6(board [5]Card, hole [6]Card) HandRank {
	return Default().EvaluatePlo6(board, hole)
}

// EvaluateOmaha is Default().EvaluateOmaha.
func EvaluateOmaha(board, hole []Card) (HandRank, error) {
	return Default().EvaluateOmaha(board, hole)
}
