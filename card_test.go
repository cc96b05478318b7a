package qbluff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qblufferrors "github.com/chefmatteo/Qbluff/errors"
)

func TestParseCardRoundTrip(t *testing.T) {
	for id := Card(0); id < NumCards; id++ {
		c, err := ParseCard(id.String())
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", id.String(), err)
		}
		if c != id {
			t.Errorf("ParseCard(%q) = %d, want %d", id.String(), c, id)
		}
	}
}

func TestParseCardEncoding(t *testing.T) {
	tests := []struct {
		name string
		id   Card
		rank Rank
		suit Suit
	}{
		{"2c", 0, Deuce, Club},
		{"2d", 1, Deuce, Diamond},
		{"2s", 3, Deuce, Spade},
		{"3c", 4, Trey, Club},
		{"Th", 34, Ten, Heart},
		{"td", 33, Ten, Diamond},
		{"AS", 51, Ace, Spade},
		{"Kd", 45, King, Diamond},
	}
	for _, tt := range tests {
		c, err := ParseCard(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.id, c, tt.name)
		assert.Equal(t, tt.rank, c.Rank(), tt.name)
		assert.Equal(t, tt.suit, c.Suit(), tt.name)

		nc, err := NewCard(tt.rank, tt.suit)
		require.NoError(t, err)
		assert.Equal(t, tt.id, nc)
	}
}

func TestParseCardRejects(t *testing.T) {
	for _, name := range []string{"", "A", "Asd", "1s", "Ax", "10s", "  "} {
		_, err := ParseCard(name)
		if !errors.Is(err, qblufferrors.ErrInvalidCardName) {
			t.Errorf("ParseCard(%q) = %v, want ErrInvalidCardName", name, err)
		}
	}
	_, err := ParseCard("Zz")
	assert.ErrorContains(t, err, `"Zz"`)
}

func TestParseCards(t *testing.T) {
	want := []Card{MustParseCard("As"), MustParseCard("Kd"), MustParseCard("2c")}
	for _, s := range []string{"As Kd 2c", "AsKd2c", "As,Kd,2c", " As  Kd\t2c\n"} {
		got, err := ParseCards(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}

	_, err := ParseCards("As Kd2")
	assert.ErrorIs(t, err, qblufferrors.ErrInvalidCardName)
	assert.ErrorContains(t, err, `"Kd2"`)

	_, err = ParseCards("As Kx")
	assert.ErrorIs(t, err, qblufferrors.ErrInvalidCardName)

	cards, err := ParseCards("")
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestNewCardRejects(t *testing.T) {
	_, err := NewCard(Ace+1, Club)
	assert.ErrorIs(t, err, qblufferrors.ErrInvalidCard)
	_, err = NewCard(Ace, Spade+1)
	assert.ErrorIs(t, err, qblufferrors.ErrInvalidCard)
}

func TestMustParseCardPanics(t *testing.T) {
	assert.Panics(t, func() { MustParseCard("Xx") })
	assert.Panics(t, func() { MustParseCards("As X") })
}

func TestCardStrings(t *testing.T) {
	assert.Equal(t, "As", MustParseCard("as").String())
	assert.Equal(t, "Card(60)", Card(60).String())
	assert.Equal(t, "T", Ten.String())
	assert.Equal(t, "h", Heart.String())
	assert.False(t, Card(52).Valid())
	assert.True(t, Card(51).Valid())
}
