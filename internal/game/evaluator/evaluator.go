package evaluator

import (
	"errors"
	"fmt"
	"sort"

	"FairPoker/internal/game/table"
)

var (
	// ErrTooFewCards: fewer than 2 hole cards, or more cards than a hold'em hand holds.
	ErrTooFewCards   = errors.New("evaluator: need exactly 2 hole cards and at most 5 community cards")
	ErrDuplicateCard = errors.New("evaluator: duplicate card")
	ErrInvalidCard   = errors.New("evaluator: invalid card")
)

// Category is the hand class. Its numeric value is the coarse rank value:
// a larger category always beats a smaller one.
type Category uint8

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	}
	return "Unknown"
}

// EvaluatedHand is the result of one evaluation. Cards holds the best hand
// (up to five cards) ordered by significance; TieBreak holds the rank values
// compared lexicographically after Value. In a wheel the ace counts as 1.
type EvaluatedHand struct {
	Category    Category     `json:"category"`
	Value       int          `json:"value"`
	Cards       []table.Card `json:"cards"`
	TieBreak    []int        `json:"tieBreak"`
	Description string       `json:"description"`
}

// Evaluate finds the best hand from two hole cards and 0-5 community cards.
func Evaluate(hole, community []table.Card) (EvaluatedHand, error) {
	if len(hole) != 2 || len(community) > 5 {
		return EvaluatedHand{}, fmt.Errorf("%w: got %d hole, %d community", ErrTooFewCards, len(hole), len(community))
	}
	all := make([]table.Card, 0, 7)
	all = append(all, hole...)
	all = append(all, community...)

	seen := make(map[table.Card]bool, len(all))
	for _, c := range all {
		if !c.Valid() {
			return EvaluatedHand{}, fmt.Errorf("%w: rank=%d suit=%d", ErrInvalidCard, c.Rank, c.Suit)
		}
		if seen[c] {
			return EvaluatedHand{}, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen[c] = true
	}
	return evaluateCards(all), nil
}

// MustEvaluate panics on contract violations. For fixtures and callers that
// already validated their input.
func MustEvaluate(hole, community []table.Card) EvaluatedHand {
	h, err := Evaluate(hole, community)
	if err != nil {
		panic(err)
	}
	return h
}

// evaluateCards ranks 1-7 distinct valid cards.
func evaluateCards(cards []table.Card) EvaluatedHand {
	sorted := append([]table.Card(nil), cards...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Rank != sorted[j].Rank {
			return sorted[i].Rank > sorted[j].Rank
		}
		return sorted[i].Suit > sorted[j].Suit
	})

	var bySuit [table.NumSuits][]table.Card
	var byRank [table.Ace + 1][]table.Card
	for _, c := range sorted {
		bySuit[c.Suit] = append(bySuit[c.Suit], c)
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}

	// groups of equal rank, largest group first, then higher rank
	var quads, trips, pairs []table.Rank
	for r := table.Ace; r >= table.Two; r-- {
		switch len(byRank[r]) {
		case 4:
			quads = append(quads, r)
		case 3:
			trips = append(trips, r)
		case 2:
			pairs = append(pairs, r)
		}
	}

	// straight flush / royal flush
	var best []table.Card
	for s := range bySuit {
		if len(bySuit[s]) < 5 {
			continue
		}
		if run := findStraight(bySuit[s]); run != nil {
			if best == nil || straightHigh(run) > straightHigh(best) {
				best = run
			}
		}
	}
	if best != nil {
		cat := StraightFlush
		if best[0].Rank == table.Ace {
			cat = RoyalFlush
		}
		return finish(cat, best, straightTieBreak(best))
	}

	if len(quads) > 0 {
		hand := append([]table.Card(nil), byRank[quads[0]]...)
		hand = append(hand, kickers(sorted, 1, quads[0])...)
		return finish(FourOfAKind, hand, ranksOf(hand))
	}

	if len(trips) > 0 {
		// second group may be another set of trips
		var pairRank table.Rank
		for _, r := range append(trips[1:], pairs...) {
			if r > pairRank {
				pairRank = r
			}
		}
		if pairRank != 0 {
			hand := append([]table.Card(nil), byRank[trips[0]]...)
			hand = append(hand, byRank[pairRank][:2]...)
			return finish(FullHouse, hand, ranksOf(hand))
		}
	}

	for s := range bySuit {
		if len(bySuit[s]) >= 5 {
			hand := append([]table.Card(nil), bySuit[s][:5]...)
			// at most one suit can hold five of seven cards
			return finish(Flush, hand, ranksOf(hand))
		}
	}

	if run := findStraight(sorted); run != nil {
		return finish(Straight, run, straightTieBreak(run))
	}

	if len(trips) > 0 {
		hand := append([]table.Card(nil), byRank[trips[0]]...)
		hand = append(hand, kickers(sorted, 2, trips[0])...)
		return finish(ThreeOfAKind, hand, ranksOf(hand))
	}

	if len(pairs) >= 2 {
		hand := append([]table.Card(nil), byRank[pairs[0]]...)
		hand = append(hand, byRank[pairs[1]]...)
		hand = append(hand, kickers(sorted, 1, pairs[0], pairs[1])...)
		return finish(TwoPair, hand, ranksOf(hand))
	}

	if len(pairs) == 1 {
		hand := append([]table.Card(nil), byRank[pairs[0]]...)
		hand = append(hand, kickers(sorted, 3, pairs[0])...)
		return finish(OnePair, hand, ranksOf(hand))
	}

	n := 5
	if len(sorted) < n {
		n = len(sorted)
	}
	hand := append([]table.Card(nil), sorted[:n]...)
	return finish(HighCard, hand, ranksOf(hand))
}

// findStraight returns the highest five-card run in cards (sorted by rank
// descending), ordered high to low. A wheel comes back as 5-4-3-2-A.
func findStraight(cards []table.Card) []table.Card {
	var top [table.Ace + 1]*table.Card
	for i := range cards {
		if top[cards[i].Rank] == nil {
			top[cards[i].Rank] = &cards[i]
		}
	}
	at := func(r int) *table.Card {
		if r == 1 {
			return top[table.Ace]
		}
		return top[r]
	}
	for high := int(table.Ace); high >= int(table.Five); high-- {
		run := make([]table.Card, 0, 5)
		for r := high; r > high-5; r-- {
			c := at(r)
			if c == nil {
				break
			}
			run = append(run, *c)
		}
		if len(run) == 5 {
			return run
		}
	}
	return nil
}

func straightHigh(run []table.Card) int {
	return straightTieBreak(run)[0]
}

// straightTieBreak: a straight compares on its top card only, the wheel's being 5.
func straightTieBreak(run []table.Card) []int {
	if run[0].Rank == table.Five && run[4].Rank == table.Ace {
		return []int{5}
	}
	return []int{int(run[0].Rank)}
}

// kickers takes up to n highest cards whose rank is not excluded.
func kickers(sorted []table.Card, n int, exclude ...table.Rank) []table.Card {
	out := make([]table.Card, 0, n)
	for _, c := range sorted {
		if len(out) == n {
			break
		}
		skip := false
		for _, r := range exclude {
			if c.Rank == r {
				skip = true
				break
			}
		}
		if !skip {
			out = append(out, c)
		}
	}
	return out
}

func ranksOf(cards []table.Card) []int {
	out := make([]int, len(cards))
	for i, c := range cards {
		out[i] = int(c.Rank)
	}
	return out
}

func finish(cat Category, cards []table.Card, tieBreak []int) EvaluatedHand {
	return EvaluatedHand{
		Category:    cat,
		Value:       int(cat),
		Cards:       cards,
		TieBreak:    tieBreak,
		Description: describe(cat, cards),
	}
}

func describe(cat Category, cards []table.Card) string {
	top := cards[0].Rank
	switch cat {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush:
		return fmt.Sprintf("Straight Flush, %s high", top.Name())
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", top.Plural())
	case FullHouse:
		return fmt.Sprintf("Full House, %s full of %s", top.Plural(), cards[3].Rank.Plural())
	case Flush:
		return fmt.Sprintf("Flush, %s high", top.Name())
	case Straight:
		return fmt.Sprintf("Straight, %s high", top.Name())
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", top.Plural())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", top.Plural(), cards[2].Rank.Plural())
	case OnePair:
		return fmt.Sprintf("Pair of %s", top.Plural())
	}
	return fmt.Sprintf("High Card, %s", top.Name())
}

// Compare orders hands: 1 if a beats b, -1 if b beats a, 0 for a split.
func Compare(a, b EvaluatedHand) int {
	if a.Value != b.Value {
		if a.Value > b.Value {
			return 1
		}
		return -1
	}
	n := len(a.TieBreak)
	if len(b.TieBreak) > n {
		n = len(b.TieBreak)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a.TieBreak) {
			av = a.TieBreak[i]
		}
		if i < len(b.TieBreak) {
			bv = b.TieBreak[i]
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Contender is one player's cards going into showdown.
type Contender struct {
	ID   string
	Hole []table.Card
}

// Result pairs a contender with their evaluated hand.
type Result struct {
	ID   string
	Hand EvaluatedHand
}

// DetermineWinners evaluates every contender against the board and returns
// all hands tied for best, in input order, plus every evaluation.
func DetermineWinners(contenders []Contender, community []table.Card) (winners []Result, all []Result, err error) {
	if len(contenders) == 0 {
		return nil, nil, errors.New("evaluator: no hands to compare")
	}
	all = make([]Result, 0, len(contenders))
	for _, c := range contenders {
		h, err := Evaluate(c.Hole, community)
		if err != nil {
			return nil, nil, fmt.Errorf("player %s: %w", c.ID, err)
		}
		all = append(all, Result{ID: c.ID, Hand: h})
	}

	best := all[0].Hand
	for _, r := range all[1:] {
		if Compare(r.Hand, best) > 0 {
			best = r.Hand
		}
	}
	for _, r := range all {
		if Compare(r.Hand, best) == 0 {
			winners = append(winners, r)
		}
	}
	return winners, all, nil
}
