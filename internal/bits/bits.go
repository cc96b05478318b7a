// Package bits provides the bit-level card encodings shared by the table
// builder and the evaluator.
//
// A card id is rank*4 + suit, so the two low bits are the suit and the
// remaining bits are the rank (0 = deuce … 12 = ace).
package bits

import "math/bits"

const (
	// NumRanks is the number of distinct ranks (deuce through ace).
	NumRanks = 13

	// NumSuits is the number of suits (club, diamond, heart, spade).
	NumSuits = 4

	// NumCards is the size of the deck and the exclusive upper bound of a card id.
	NumCards = NumRanks * NumSuits

	// suitMask extracts the suit from a card id.
	suitMask = NumSuits - 1

	// rankShift extracts the rank from a card id.
	rankShift = 2

	// RankMask covers the 13 rank positions of a suited rank pattern.
	RankMask = 1<<NumRanks - 1
)

// Suit hash lanes.
//
// The suit hash of a 5-card hand packs one counter per suit. A counter never
// exceeds 5 (every card in one suit), so each lane needs ceil(log2(6)) = 3 bits
// and adding five lane increments can never carry into the next lane.
const (
	// HandSize is the number of cards hashed by SuitLane sums.
	HandSize = 5

	// SuitLaneWidth is the width of one suit counter in the suit hash.
	SuitLaneWidth = 3

	// SuitHashSize is one past the largest suit hash of a 5-card hand
	// (all five cards in the highest lane).
	SuitHashSize = HandSize<<(SuitLaneWidth*(NumSuits-1)) + 1
)

// Compile-time check: a lane must hold the value HandSize without overflow.
const _ uint = 1<<SuitLaneWidth - 1 - HandSize

// Omaha flush pattern geometry.
//
// A flush in Omaha uses exactly 3 board and 2 hole cards of one suit. The
// board side of a flush-capable suit holds 3..5 suited cards and the hole side
// 2..4. Both sides are padded to a fixed population (5 for the board, 4 for the
// hole) so each side hashes into a single combinatorial index space. The most
// padding either side needs is 2 bits (5-3 and 4-2), placed above the 13 rank
// positions, giving a 15-bit pattern.
const (
	// OmahaBoardBits is the nominal population of a padded board pattern.
	OmahaBoardBits = 5

	// OmahaHoleBits is the nominal population of a padded hole pattern.
	OmahaHoleBits = 4

	// OmahaMinBoard is the fewest suited board cards that can make a flush.
	OmahaMinBoard = 3

	// OmahaMinHole is the fewest suited hole cards that can make a flush.
	OmahaMinHole = 2

	// omahaPadBits is the number of padding positions above the ranks.
	omahaPadBits = max(OmahaBoardBits-OmahaMinBoard, OmahaHoleBits-OmahaMinHole)

	// OmahaPatternLen is the bit length of a padded Omaha pattern.
	OmahaPatternLen = NumRanks + omahaPadBits
)

// Compile-time check: padding fits exactly above the rank positions.
const _ uint = OmahaPatternLen - 15

// omahaPadding[n] sets n padding bits starting just above the ace position.
var omahaPadding = [omahaPadBits + 1]uint16{
	0,
	1 << NumRanks,
	1<<NumRanks | 1<<(NumRanks+1),
}

// RankOf returns the rank (0..12) of a card id.
func RankOf(id uint8) uint8 {
	return id >> rankShift
}

// SuitOf returns the suit (0..3) of a card id.
func SuitOf(id uint8) uint8 {
	return id & suitMask
}

// SuitLane returns the suit hash increment for a card id.
func SuitLane(id uint8) uint16 {
	return 1 << (SuitLaneWidth * uint16(SuitOf(id)))
}

// LaneCount extracts the counter for suit s from a suit hash.
func LaneCount(hash uint16, s uint8) uint8 {
	return uint8(hash>>(SuitLaneWidth*uint16(s))) & (1<<SuitLaneWidth - 1)
}

// RankBit returns the rank pattern bit for a card id.
func RankBit(id uint8) uint16 {
	return 1 << RankOf(id)
}

// OmahaPadding returns the padding bits for a side that is missing n cards of
// its nominal population. n must be in [0,2].
func OmahaPadding(missing int) uint16 {
	return omahaPadding[missing]
}

// PopCount returns the number of set bits in a rank pattern.
func PopCount(pattern uint16) int {
	return bits.OnesCount16(pattern)
}
