package dealer

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"

	"FairPoker/internal/game/table"
)

// ErrDeckExhausted is returned when more cards are requested than remain.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is an ordered sequence of cards; index 0 is the top of the deck.
type Deck []table.Card

// BuildDeck returns the 52 cards in canonical order: suit-major (c, d, h, s),
// rank-minor (2..A). The seeded shuffle permutes this order.
func BuildDeck() Deck {
	deck := make(Deck, 0, table.DeckSize)
	for s := table.Clubs; s <= table.Spades; s++ {
		for r := table.Two; r <= table.Ace; r++ {
			deck = append(deck, table.Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Shuffle returns a Fisher–Yates shuffle of d from a non-reproducible source.
// Not verifiable; used for casual play and tests.
func Shuffle(d Deck) Deck {
	out := d.Clone()
	for i := len(out) - 1; i > 0; i-- {
		j := rand.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// SeededShuffle returns a deterministic Fisher–Yates shuffle of d driven by
// seed. The same seed and the same input order always yield the same output.
// See seedStream for the exact byte derivation.
func SeededShuffle(d Deck, seed string) Deck {
	out := d.Clone()
	s := newSeedStream(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := s.uniform(uint32(i + 1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// seedStream expands SHA-256(seed) into a byte stream: block k is
// SHA-256(digest || uint64_be(k)). Words are read as big-endian uint32.
type seedStream struct {
	digest [sha256.Size]byte
	block  uint64
	buf    [sha256.Size]byte
	pos    int
}

func newSeedStream(seed string) *seedStream {
	s := &seedStream{digest: sha256.Sum256([]byte(seed))}
	s.refill()
	return s
}

func (s *seedStream) refill() {
	var msg [sha256.Size + 8]byte
	copy(msg[:], s.digest[:])
	binary.BigEndian.PutUint64(msg[sha256.Size:], s.block)
	s.buf = sha256.Sum256(msg[:])
	s.block++
	s.pos = 0
}

func (s *seedStream) next32() uint32 {
	if s.pos+4 > len(s.buf) {
		s.refill()
	}
	v := binary.BigEndian.Uint32(s.buf[s.pos:])
	s.pos += 4
	return v
}

// uniform returns an unbiased value in [0, n) by rejection sampling.
func (s *seedStream) uniform(n uint32) uint32 {
	limit := uint64(1<<32) - (uint64(1<<32) % uint64(n))
	for {
		v := s.next32()
		if uint64(v) < limit {
			return v % n
		}
	}
}

// Clone copies the deck so callers never alias each other's order.
func (d Deck) Clone() Deck {
	out := make(Deck, len(d))
	copy(out, d)
	return out
}

// Deal takes the first n cards. d itself is not modified.
func (d Deck) Deal(n int) (dealt, remaining Deck, err error) {
	if n < 0 || n > len(d) {
		return nil, d, fmt.Errorf("%w: want %d, have %d", ErrDeckExhausted, n, len(d))
	}
	return d[:n:n].Clone(), d[n:].Clone(), nil
}

// Dealer 只负责按固定顺序发牌（无规则判断）。
// Order: hole cards round-robin by seat from seat 0, then burn+3, burn+1, burn+1.
type Dealer struct {
	deck Deck
}

func NewDealer(deck Deck) *Dealer {
	return &Dealer{deck: deck.Clone()}
}

// Remaining returns a copy of the undealt cards.
func (d *Dealer) Remaining() Deck {
	return d.deck.Clone()
}

// DealHoleCards 每人 2 张：先从座位 0 起每人一张，再发第二轮
func (d *Dealer) DealHoleCards(players int) ([][]table.Card, error) {
	if players*HoleCards > len(d.deck) {
		return nil, fmt.Errorf("%w: %d players need %d cards, have %d",
			ErrDeckExhausted, players, players*HoleCards, len(d.deck))
	}
	out := make([][]table.Card, players)
	for round := 0; round < HoleCards; round++ {
		for seat := 0; seat < players; seat++ {
			c, _ := d.draw()
			out[seat] = append(out[seat], c)
		}
	}
	return out, nil
}

// DealFlop burns one card and reveals three.
func (d *Dealer) DealFlop() ([]table.Card, error) { return d.burnAndReveal(3) }

// DealTurn burns one card and reveals one.
func (d *Dealer) DealTurn() ([]table.Card, error) { return d.burnAndReveal(1) }

// DealRiver burns one card and reveals one.
func (d *Dealer) DealRiver() ([]table.Card, error) { return d.burnAndReveal(1) }

func (d *Dealer) burnAndReveal(n int) ([]table.Card, error) {
	if n+1 > len(d.deck) {
		return nil, fmt.Errorf("%w: street needs %d cards, have %d", ErrDeckExhausted, n+1, len(d.deck))
	}
	_, _ = d.draw()
	out := make([]table.Card, 0, n)
	for i := 0; i < n; i++ {
		c, _ := d.draw()
		out = append(out, c)
	}
	return out, nil
}

func (d *Dealer) draw() (table.Card, error) {
	if len(d.deck) == 0 {
		return table.Card{}, ErrDeckExhausted
	}
	c := d.deck[0]
	d.deck = d.deck[1:]
	return c, nil
}
