package dealer

import (
	"errors"
	"fmt"
	"testing"

	"FairPoker/internal/game/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 工具：检查是否有重复牌
func hasDuplicates(cards []table.Card) bool {
	seen := make(map[table.Card]bool)
	for _, c := range cards {
		if seen[c] {
			return true
		}
		seen[c] = true
	}
	return false
}

func TestBuildDeck(t *testing.T) {
	d := BuildDeck()

	if len(d) != 52 {
		t.Fatalf("expected 52 cards, got %d", len(d))
	}
	if hasDuplicates(d) {
		t.Fatalf("deck should not contain duplicates")
	}
	assert.Equal(t, "2c", d[0].String())
	assert.Equal(t, "Ac", d[12].String())
	assert.Equal(t, "2d", d[13].String())
	assert.Equal(t, "As", d[51].String())
	for i, c := range d {
		assert.Equal(t, i, c.Index())
	}
}

func TestSeededShuffleDeterministic(t *testing.T) {
	a := SeededShuffle(BuildDeck(), "seed-abc:1")
	b := SeededShuffle(BuildDeck(), "seed-abc:1")
	assert.Equal(t, a, b, "same seed must give identical order")

	c := SeededShuffle(BuildDeck(), "seed-abc:2")
	assert.NotEqual(t, a, c, "different seed should give a different order")

	assert.Len(t, a, 52)
	assert.False(t, hasDuplicates(a))
	assert.ElementsMatch(t, BuildDeck(), a)
}

// 固定向量：任何平台、任何版本都必须得到同样的顺序
func TestSeededShuffleGolden(t *testing.T) {
	got := SeededShuffle(BuildDeck(), "golden")
	want := table.MustParseCards("Js", "2d", "Jd", "5c", "3d", "Ad", "7d", "2c", "4h", "9s", "7s", "8h")
	assert.Equal(t, want, []table.Card(got[:len(want)]))
}

func TestSeededShuffleDoesNotMutateInput(t *testing.T) {
	in := BuildDeck()
	_ = SeededShuffle(in, "x")
	assert.Equal(t, BuildDeck(), in)
}

func TestSeededShuffleDependsOnInputOrder(t *testing.T) {
	in := BuildDeck()
	rev := in.Clone()
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	assert.NotEqual(t, SeededShuffle(in, "s"), SeededShuffle(rev, "s"))
}

func TestSeededShuffleSpreadsTopCard(t *testing.T) {
	// 200 seeds should put many distinct cards on top
	tops := map[table.Card]bool{}
	for i := 0; i < 200; i++ {
		d := SeededShuffle(BuildDeck(), fmt.Sprintf("spread:%d", i))
		tops[d[0]] = true
	}
	assert.Greater(t, len(tops), 30)
}

func TestSeedStreamUniformRange(t *testing.T) {
	s := newSeedStream("range")
	for n := uint32(1); n <= 52; n++ {
		for i := 0; i < 50; i++ {
			v := s.uniform(n)
			require.Less(t, v, n)
		}
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	d := Shuffle(BuildDeck())
	assert.Len(t, d, 52)
	assert.ElementsMatch(t, BuildDeck(), d)
}

func TestDeckDeal(t *testing.T) {
	d := BuildDeck()
	dealt, rest, err := d.Deal(5)
	require.NoError(t, err)
	assert.Equal(t, d[:5], dealt)
	assert.Len(t, rest, 47)
	assert.Len(t, d, 52, "source deck untouched")

	_, _, err = rest.Deal(48)
	assert.True(t, errors.Is(err, ErrDeckExhausted))
}

// ✅ 测试底牌发放逻辑
func TestDealHoleCards(t *testing.T) {
	deck := BuildDeck()
	dl := NewDealer(deck)
	hands, err := dl.DealHoleCards(3)
	require.NoError(t, err)

	for seat := 0; seat < 3; seat++ {
		if len(hands[seat]) != 2 {
			t.Fatalf("seat %d should have 2 cards, got %d", seat, len(hands[seat]))
		}
	}
	// round-robin: seat0 gets deck[0] and deck[3]
	assert.Equal(t, deck[0], hands[0][0])
	assert.Equal(t, deck[1], hands[1][0])
	assert.Equal(t, deck[2], hands[2][0])
	assert.Equal(t, deck[3], hands[0][1])
	assert.Equal(t, deck[5], hands[2][1])

	if len(dl.Remaining()) != 52-6 {
		t.Fatalf("expected remaining deck 46, got %d", len(dl.Remaining()))
	}
}

// ✅ 测试公共牌发放逻辑（含 burn）
func TestDealCommunity(t *testing.T) {
	deck := BuildDeck()
	dl := NewDealer(deck)

	flop, err := dl.DealFlop()
	require.NoError(t, err)
	turn, err := dl.DealTurn()
	require.NoError(t, err)
	river, err := dl.DealRiver()
	require.NoError(t, err)

	assert.Equal(t, []table.Card(deck[1:4]), flop)
	assert.Equal(t, []table.Card{deck[5]}, turn)
	assert.Equal(t, []table.Card{deck[7]}, river)
	assert.Len(t, dl.Remaining(), 52-8)
}

func TestDealerExhaustion(t *testing.T) {
	dl := NewDealer(BuildDeck()[:3])
	_, err := dl.DealHoleCards(2)
	assert.ErrorIs(t, err, ErrDeckExhausted)

	dl = NewDealer(BuildDeck()[:3])
	_, err = dl.DealFlop()
	assert.ErrorIs(t, err, ErrDeckExhausted)
	assert.Len(t, dl.Remaining(), 3, "failed deal must not consume cards")
}

func TestDealPlanMatchesDealer(t *testing.T) {
	deck := SeededShuffle(BuildDeck(), "plan")
	dl := NewDealer(deck)
	holes, err := dl.DealHoleCards(4)
	require.NoError(t, err)
	var community []table.Card
	for _, f := range []func() ([]table.Card, error){dl.DealFlop, dl.DealTurn, dl.DealRiver} {
		cs, err := f()
		require.NoError(t, err)
		community = append(community, cs...)
	}

	plan := DealPlan(4, 5)
	assert.Len(t, plan, CardsNeeded(4))
	for _, slot := range plan {
		switch slot.Kind {
		case SlotHole:
			assert.Equal(t, deck[slot.DeckIndex], holes[slot.Seat][slot.Card], slot.String())
		case SlotCommunity:
			assert.Equal(t, deck[slot.DeckIndex], community[slot.Card], slot.String())
		}
	}
}

func TestDealPlanPartialBoard(t *testing.T) {
	assert.Len(t, DealPlan(2, 0), 4)
	assert.Len(t, DealPlan(2, 3), 8)
	assert.Len(t, DealPlan(2, 4), 10)
	assert.Equal(t, "community card 4 (turn)", DealPlan(2, 4)[9].String())
}
