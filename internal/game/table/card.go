package table

import (
	"fmt"
	"strings"
)

// Suit 花色 (0-3)，顺序同时决定标准牌序
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// NumSuits / NumRanks / DeckSize describe a standard 52-card deck.
const (
	NumSuits = 4
	NumRanks = 13
	DeckSize = NumSuits * NumRanks
)

var suitLetters = [NumSuits]byte{'c', 'd', 'h', 's'}

// Letter returns the lowercase notation letter of the suit.
func (s Suit) Letter() string {
	if int(s) >= NumSuits {
		return "?"
	}
	return string(suitLetters[s])
}

func (s Suit) Valid() bool { return s < NumSuits }

// Rank 点数 (2-14)，A 为 14
type Rank uint8

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

func (r Rank) Valid() bool { return r >= Two && r <= Ace }

// Symbol returns the notation rank text: "2".."10", "J", "Q", "K", "A".
func (r Rank) Symbol() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	}
	if r.Valid() {
		return fmt.Sprintf("%d", r)
	}
	return "?"
}

var rankNames = map[Rank][2]string{
	Two:   {"Two", "Twos"},
	Three: {"Three", "Threes"},
	Four:  {"Four", "Fours"},
	Five:  {"Five", "Fives"},
	Six:   {"Six", "Sixes"},
	Seven: {"Seven", "Sevens"},
	Eight: {"Eight", "Eights"},
	Nine:  {"Nine", "Nines"},
	Ten:   {"Ten", "Tens"},
	Jack:  {"Jack", "Jacks"},
	Queen: {"Queen", "Queens"},
	King:  {"King", "Kings"},
	Ace:   {"Ace", "Aces"},
}

// Name is the English rank name ("King").
func (r Rank) Name() string { return rankNames[r][0] }

// Plural is the English plural rank name ("Kings").
func (r Rank) Plural() string { return rankNames[r][1] }

// Card is an immutable playing card. Its wire form is the notation string
// (rank + lowercase suit letter), e.g. "Ah", "10d".
type Card struct {
	Rank Rank
	Suit Suit
}

func NewCard(r Rank, s Suit) (Card, error) {
	if !r.Valid() || !s.Valid() {
		return Card{}, fmt.Errorf("invalid card rank=%d suit=%d", r, s)
	}
	return Card{Rank: r, Suit: s}, nil
}

func (c Card) Valid() bool { return c.Rank.Valid() && c.Suit.Valid() }

// Index is the position of the card in the canonical deck (suit-major, rank-minor).
func (c Card) Index() int {
	return int(c.Suit)*NumRanks + int(c.Rank-Two)
}

func (c Card) String() string {
	return c.Rank.Symbol() + c.Suit.Letter()
}

func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid card rank=%d suit=%d", c.Rank, c.Suit)
	}
	return []byte(c.String()), nil
}

func (c *Card) UnmarshalText(b []byte) error {
	parsed, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// NotationError reports card text that is not valid notation.
type NotationError struct {
	Input  string
	Reason string
}

func (e *NotationError) Error() string {
	return fmt.Sprintf("invalid card notation %q: %s", e.Input, e.Reason)
}

// ParseCard decodes notation such as "Ah", "10d" or "2c". It is the exact
// inverse of Card.String for all 52 cards; "T", upper-case suits and
// whitespace are rejected.
func ParseCard(s string) (Card, error) {
	if len(s) < 2 || len(s) > 3 {
		return Card{}, &NotationError{Input: s, Reason: "want 2 or 3 characters"}
	}
	rankText, suitText := s[:len(s)-1], s[len(s)-1]

	suit := Suit(NumSuits)
	for i, l := range suitLetters {
		if l == suitText {
			suit = Suit(i)
			break
		}
	}
	if !suit.Valid() {
		return Card{}, &NotationError{Input: s, Reason: "unknown suit letter"}
	}

	var rank Rank
	switch rankText {
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "A":
		rank = Ace
	case "10":
		rank = Ten
	default:
		if len(rankText) == 1 && rankText[0] >= '2' && rankText[0] <= '9' {
			rank = Rank(rankText[0] - '0')
		}
	}
	if !rank.Valid() {
		return Card{}, &NotationError{Input: s, Reason: "unknown rank"}
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards decodes a list of notations, failing on the first bad entry.
func ParseCards(notations []string) ([]Card, error) {
	out := make([]Card, 0, len(notations))
	for _, n := range notations {
		c, err := ParseCard(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// MustParseCards is ParseCards for fixtures; it panics on bad input.
func MustParseCards(notations ...string) []Card {
	cards, err := ParseCards(notations)
	if err != nil {
		panic(err)
	}
	return cards
}

// Notations encodes cards to their wire form.
func Notations(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

// FormatCards joins notations with spaces, for logs.
func FormatCards(cards []Card) string {
	return strings.Join(Notations(cards), " ")
}
