package qbluff

import (
	"fmt"
	"strings"

	qblufferrors "github.com/chefmatteo/Qbluff/errors"
	intbits "github.com/chefmatteo/Qbluff/internal/bits"
	"github.com/chefmatteo/Qbluff/internal/tables"
)

// Card is a card id in [0, 52): rank*4 + suit.
type Card uint8

// Rank is a card rank, Deuce (0) through Ace (12).
type Rank uint8

// Suit is a card suit.
type Suit uint8

// Ranks.
const (
	Deuce Rank = iota
	Trey
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Suits, in id order.
const (
	Club Suit = iota
	Diamond
	Heart
	Spade
)

// NumCards is the size of the deck.
const NumCards = intbits.NumCards

const suitChars = "cdhs"

// NewCard returns the card of rank r and suit s.
func NewCard(r Rank, s Suit) (Card, error) {
	if r > Ace || s > Spade {
		return 0, fmt.Errorf("%w: rank %d suit %d", qblufferrors.ErrInvalidCard, r, s)
	}
	return Card(uint8(r)*intbits.NumSuits + uint8(s)), nil
}

// Rank returns the card's rank.
func (c Card) Rank() Rank {
	return Rank(intbits.RankOf(uint8(c)))
}

// Suit returns the card's suit.
func (c Card) Suit() Suit {
	return Suit(intbits.SuitOf(uint8(c)))
}

// Valid reports whether c is a card id in range.
func (c Card) Valid() bool {
	return c < NumCards
}

// String returns the two-character name of the card, such as "As".
func (c Card) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Card(%d)", uint8(c))
	}
	return string([]byte{tables.RankChars[c.Rank()], suitChars[c.Suit()]})
}

// String returns the rank character.
func (r Rank) String() string {
	if r > Ace {
		return fmt.Sprintf("Rank(%d)", uint8(r))
	}
	return tables.RankChars[r : r+1]
}

// String returns the suit character.
func (s Suit) String() string {
	if s > Spade {
		return fmt.Sprintf("Suit(%d)", uint8(s))
	}
	return suitChars[s : s+1]
}

// ParseCard parses a rank character from "23456789TJQKA" followed by a suit
// character from "cdhs". Both are case-insensitive.
func ParseCard(name string) (Card, error) {
	if len(name) != 2 {
		return 0, fmt.Errorf("%w: %q", qblufferrors.ErrInvalidCardName, name)
	}
	r := strings.IndexByte(tables.RankChars, upper(name[0]))
	s := strings.IndexByte(suitChars, lower(name[1]))
	if r < 0 || s < 0 {
		return 0, fmt.Errorf("%w: %q", qblufferrors.ErrInvalidCardName, name)
	}
	return Card(r*intbits.NumSuits + s), nil
}

// MustParseCard is like ParseCard but panics on error.
func MustParseCard(name string) Card {
	c, err := ParseCard(name)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCards parses a list of cards. Cards may be separated by spaces or
// commas, or written back to back ("AsKsQs").
func ParseCards(s string) ([]Card, error) {
	var cards []Card
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	}) {
		if len(field)%2 != 0 {
			return nil, fmt.Errorf("%w: %q", qblufferrors.ErrInvalidCardName, field)
		}
		for i := 0; i < len(field); i += 2 {
			c, err := ParseCard(field[i : i+2])
			if err != nil {
				return nil, err
			}
			cards = append(cards, c)
		}
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

func upper(b byte) byte {
	if 'a' <= b && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b - 'A' + 'a'
	}
	return b
}

// validateCards checks every card is in range and appears once.
func validateCards(cards []Card) error {
	var seen uint64
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("%w: %d", qblufferrors.ErrInvalidCard, uint8(c))
		}
		if seen&(1<<c) != 0 {
			return fmt.Errorf("%w: %s", qblufferrors.ErrDuplicateCard, c)
		}
		seen |= 1 << c
	}
	return nil
}
