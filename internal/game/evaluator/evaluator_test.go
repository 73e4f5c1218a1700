package evaluator

import (
	"math/rand/v2"
	"testing"

	"FairPoker/internal/game/table"

	"github.com/paulhankin/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cards = table.MustParseCards

func TestEvaluateCategories(t *testing.T) {
	tests := []struct {
		name  string
		hole  []string
		board []string
		cat   Category
		desc  string
		best  []string
	}{
		{"royal flush", []string{"Ah", "Kh"}, []string{"Qh", "Jh", "10h", "2c", "3d"}, RoyalFlush, "Royal Flush", []string{"Ah", "Kh", "Qh", "Jh", "10h"}},
		{"straight flush", []string{"9s", "8s"}, []string{"7s", "6s", "5s", "Ad", "Kd"}, StraightFlush, "Straight Flush, Nine high", []string{"9s", "8s", "7s", "6s", "5s"}},
		{"steel wheel", []string{"As", "2s"}, []string{"3s", "4s", "5s", "Kd", "Kc"}, StraightFlush, "Straight Flush, Five high", []string{"5s", "4s", "3s", "2s", "As"}},
		{"quads", []string{"Kc", "Kd"}, []string{"Kh", "Ks", "2c", "9d", "3h"}, FourOfAKind, "Four of a Kind, Kings", []string{"Ks", "Kh", "Kd", "Kc", "9d"}},
		{"full house", []string{"2c", "2d"}, []string{"Ks", "Kd", "2h", "3s", "4c"}, FullHouse, "Full House, Twos full of Kings", []string{"2h", "2d", "2c", "Ks", "Kd"}},
		{"two trips make a boat", []string{"7c", "7d"}, []string{"7h", "9s", "9d", "9c", "2h"}, FullHouse, "Full House, Nines full of Sevens", []string{"9s", "9d", "9c", "7h", "7d"}},
		{"flush", []string{"Ad", "9d"}, []string{"2d", "5d", "Jd", "Kc", "Qh"}, Flush, "Flush, Ace high", []string{"Ad", "Jd", "9d", "5d", "2d"}},
		{"flush six cards", []string{"Ad", "9d"}, []string{"2d", "5d", "Jd", "3d", "Qh"}, Flush, "Flush, Ace high", []string{"Ad", "Jd", "9d", "5d", "3d"}},
		{"straight", []string{"10c", "9d"}, []string{"8h", "7s", "6c", "2d", "2h"}, Straight, "Straight, Ten high", []string{"10c", "9d", "8h", "7s", "6c"}},
		{"wheel", []string{"Ac", "2d"}, []string{"3h", "4s", "5c", "Kd", "Qh"}, Straight, "Straight, Five high", []string{"5c", "4s", "3h", "2d", "Ac"}},
		{"broadway over wheel cards", []string{"Ac", "Kd"}, []string{"Qh", "Js", "10c", "2d", "3h"}, Straight, "Straight, Ace high", []string{"Ac", "Kd", "Qh", "Js", "10c"}},
		{"trips", []string{"7c", "7d"}, []string{"7h", "Ks", "2d", "9c", "4h"}, ThreeOfAKind, "Three of a Kind, Sevens", []string{"7h", "7d", "7c", "Ks", "9c"}},
		{"two pair", []string{"Kc", "2d"}, []string{"Kh", "2s", "9d", "5c", "4h"}, TwoPair, "Two Pair, Kings and Twos", []string{"Kh", "Kc", "2s", "2d", "9d"}},
		{"three pairs", []string{"Kc", "2d"}, []string{"Kh", "2s", "9d", "9c", "4h"}, TwoPair, "Two Pair, Kings and Nines", []string{"Kh", "Kc", "9d", "9c", "4h"}},
		{"pair", []string{"Ac", "Ad"}, []string{"Kh", "2s", "9d", "5c", "4h"}, OnePair, "Pair of Aces", []string{"Ad", "Ac", "Kh", "9d", "5c"}},
		{"high card", []string{"Ac", "Jd"}, []string{"Kh", "2s", "9d", "5c", "4h"}, HighCard, "High Card, Ace", []string{"Ac", "Kh", "Jd", "9d", "5c"}},
		{"preflop pair", []string{"8c", "8d"}, nil, OnePair, "Pair of Eights", []string{"8d", "8c"}},
		{"preflop high", []string{"8c", "Qd"}, nil, HighCard, "High Card, Queen", []string{"Qd", "8c"}},
		{"flop quads no kicker room", []string{"8c", "8d"}, []string{"8h", "8s", "Ac"}, FourOfAKind, "Four of a Kind, Eights", []string{"8s", "8h", "8d", "8c", "Ac"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Evaluate(cards(tt.hole...), cards(tt.board...))
			require.NoError(t, err)
			assert.Equal(t, tt.cat, h.Category)
			assert.Equal(t, int(tt.cat), h.Value)
			assert.Equal(t, tt.desc, h.Description)
			assert.Equal(t, tt.best, table.Notations(h.Cards))
		})
	}
}

func TestEvaluateContractViolations(t *testing.T) {
	_, err := Evaluate(cards("Ah"), cards("Kd", "Qd", "Jd"))
	assert.ErrorIs(t, err, ErrTooFewCards)

	_, err = Evaluate(nil, nil)
	assert.ErrorIs(t, err, ErrTooFewCards)

	_, err = Evaluate(cards("Ah", "Kh"), cards("2c", "3c", "4c", "5c", "6c", "7c"))
	assert.ErrorIs(t, err, ErrTooFewCards)

	_, err = Evaluate(cards("Ah", "Kh"), cards("Ah", "3c", "4c"))
	assert.ErrorIs(t, err, ErrDuplicateCard)

	_, err = Evaluate([]table.Card{{}, {Rank: table.Two}}, nil)
	assert.ErrorIs(t, err, ErrInvalidCard)

	assert.Panics(t, func() { MustEvaluate(cards("Ah"), nil) })
}

func TestWheelIsLowestStraight(t *testing.T) {
	wheel := MustEvaluate(cards("Ac", "2d"), cards("3h", "4s", "5c", "Kd", "Qh"))
	six := MustEvaluate(cards("6c", "2d"), cards("3h", "4s", "5c", "Kd", "Qh"))
	broadway := MustEvaluate(cards("Ac", "Kd"), cards("Qh", "Js", "10c", "2d", "3h"))

	assert.Equal(t, -1, Compare(wheel, six))
	assert.Equal(t, 1, Compare(broadway, six))
	assert.Equal(t, []int{5}, wheel.TieBreak)

	// ace stays high outside the wheel
	aceHigh := MustEvaluate(cards("Ac", "3d"), cards("7h", "9s", "Jc", "Kd", "2h"))
	kingHigh := MustEvaluate(cards("Qc", "3d"), cards("7h", "9s", "Jc", "Kd", "2h"))
	assert.Equal(t, 1, Compare(aceHigh, kingHigh))
}

func TestCompareKickers(t *testing.T) {
	board := cards("Kh", "Kd", "7s", "4c", "2h")
	aceKicker := MustEvaluate(cards("Ac", "3d"), board)
	queenKicker := MustEvaluate(cards("Qc", "3s"), board)
	assert.Equal(t, OnePair, aceKicker.Category)
	assert.Equal(t, 1, Compare(aceKicker, queenKicker))
	assert.Equal(t, -1, Compare(queenKicker, aceKicker))

	// 公共牌决定胜负：平分
	playBoard := cards("Ah", "Kd", "Qs", "Jc", "10h")
	a := MustEvaluate(cards("2c", "3d"), playBoard)
	b := MustEvaluate(cards("4c", "5d"), playBoard)
	assert.Equal(t, 0, Compare(a, b))
}

func TestDetermineWinnersScenario(t *testing.T) {
	board := cards("Ks", "Kd", "2h", "3s", "4c")
	winners, all, err := DetermineWinners([]Contender{
		{ID: "A", Hole: cards("Ah", "Kh")},
		{ID: "B", Hole: cards("2c", "2d")},
	}, board)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Len(t, winners, 1)
	assert.Equal(t, "B", winners[0].ID)
	assert.Equal(t, "Full House, Twos full of Kings", winners[0].Hand.Description)
	assert.Equal(t, "Three of a Kind, Kings", all[0].Hand.Description)
}

func TestDetermineWinnersSplit(t *testing.T) {
	board := cards("Ah", "Kd", "Qs", "Jc", "10h")
	winners, _, err := DetermineWinners([]Contender{
		{ID: "A", Hole: cards("2c", "3d")},
		{ID: "B", Hole: cards("4c", "5d")},
		{ID: "C", Hole: cards("6c", "7d")},
	}, board)
	require.NoError(t, err)
	assert.Len(t, winners, 3)

	_, _, err = DetermineWinners(nil, board)
	assert.Error(t, err)
}

func TestEvaluateIsPure(t *testing.T) {
	hole := cards("Ah", "Kh")
	board := cards("Qh", "Jh", "2c", "3d", "9s")
	first := MustEvaluate(hole, board)
	second := MustEvaluate(hole, board)
	assert.Equal(t, first, second)
	assert.Equal(t, cards("Ah", "Kh"), hole, "inputs untouched")
	assert.Equal(t, cards("Qh", "Jh", "2c", "3d", "9s"), board)
}

func randomSeven(r *rand.Rand) []table.Card {
	deck := make([]table.Card, 0, table.DeckSize)
	for s := table.Clubs; s <= table.Spades; s++ {
		for rk := table.Two; rk <= table.Ace; rk++ {
			deck = append(deck, table.Card{Rank: rk, Suit: s})
		}
	}
	perm := r.Perm(len(deck))
	out := make([]table.Card, 7)
	for i := range out {
		out[i] = deck[perm[i]]
	}
	return out
}

// bruteForce picks the best of all 21 five-card subsets.
func bruteForce(seven []table.Card) EvaluatedHand {
	var best *EvaluatedHand
	for a := 0; a < 7; a++ {
		for b := a + 1; b < 7; b++ {
			five := make([]table.Card, 0, 5)
			for i := 0; i < 7; i++ {
				if i != a && i != b {
					five = append(five, seven[i])
				}
			}
			h := evaluateCards(five)
			if best == nil || Compare(h, *best) > 0 {
				best = &h
			}
		}
	}
	return *best
}

func TestEvaluateMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 3000; i++ {
		seven := randomSeven(r)
		got := MustEvaluate(seven[:2], seven[2:])
		want := bruteForce(seven)
		require.Equal(t, want.Category, got.Category, table.FormatCards(seven))
		require.Equal(t, 0, Compare(want, got), table.FormatCards(seven))
	}
}

func toOracle(t *testing.T, seven []table.Card) *[7]poker.Card {
	var out [7]poker.Card
	for i, c := range seven {
		rank := poker.Rank(c.Rank)
		if c.Rank == table.Ace {
			rank = poker.Rank(1)
		}
		pc, err := poker.MakeCard(poker.Suit(c.Suit), rank)
		require.NoError(t, err)
		out[i] = pc
	}
	return &out
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Cross-check ordering against an independent evaluator.
func TestCompareAgreesWithOracle(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 3000; i++ {
		a, b := randomSeven(r), randomSeven(r)
		ours := Compare(MustEvaluate(a[:2], a[2:]), MustEvaluate(b[:2], b[2:]))
		theirs := sign(int(poker.Eval7(toOracle(t, a))) - int(poker.Eval7(toOracle(t, b))))
		require.Equal(t, theirs, ours, "%s vs %s", table.FormatCards(a), table.FormatCards(b))
	}
}

func TestCompareTotalOrder(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	hands := make([]EvaluatedHand, 60)
	for i := range hands {
		s := randomSeven(r)
		hands[i] = MustEvaluate(s[:2], s[2:])
	}
	for _, a := range hands {
		assert.Equal(t, 0, Compare(a, a))
		for _, b := range hands {
			require.Equal(t, -Compare(b, a), Compare(a, b), "antisymmetry")
			if Compare(a, b) == 0 {
				assert.Equal(t, a.Value, b.Value)
				assert.Equal(t, a.TieBreak, b.TieBreak)
			}
			for _, c := range hands {
				if Compare(a, b) >= 0 && Compare(b, c) >= 0 {
					require.GreaterOrEqual(t, Compare(a, c), 0, "transitivity")
				}
			}
		}
	}
}
