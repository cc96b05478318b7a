package tables

import (
	"strings"
)

var rankNames = [...]string{
	"Deuce", "Trey", "Four", "Five", "Six", "Seven", "Eight",
	"Nine", "Ten", "Jack", "Queen", "King", "Ace",
}

var rankPlurals = [...]string{
	"Deuces", "Treys", "Fours", "Fives", "Sixes", "Sevens", "Eights",
	"Nines", "Tens", "Jacks", "Queens", "Kings", "Aces",
}

// RankChars are the single-character rank names, deuce first.
const RankChars = "23456789TJQKA"

// Description returns the human-readable name of the class, such as
// "Aces Full over Kings" or "Queen-High Flush".
func (c Class) Description() string {
	r := c.Ranks
	switch c.Category {
	case StraightFlush:
		if r[0] == ace {
			return "Royal Flush"
		}
		return rankNames[r[0]] + "-High Straight Flush"
	case FourOfAKind:
		return "Four " + rankPlurals[r[0]]
	case FullHouse:
		return rankPlurals[r[0]] + " Full over " + rankPlurals[r[3]]
	case Flush:
		return rankNames[r[0]] + "-High Flush"
	case Straight:
		return rankNames[r[0]] + "-High Straight"
	case ThreeOfAKind:
		return "Three " + rankPlurals[r[0]]
	case TwoPair:
		return rankPlurals[r[0]] + " and " + rankPlurals[r[2]]
	case OnePair:
		return "Pair of " + rankPlurals[r[0]]
	case HighCard:
		return rankNames[r[0]] + "-High"
	}
	return ""
}

// SampleHand returns the ranks of a representative hand as rank characters,
// for example "AKQJT".
func (c Class) SampleHand() string {
	var sb strings.Builder
	sb.Grow(len(c.Ranks))
	for _, r := range c.Ranks {
		sb.WriteByte(RankChars[r])
	}
	return sb.String()
}
