package dealer

import "fmt"

const (
	HoleCards      = 2
	CommunityCards = 5
	// Burns is the number of burn cards over a full hand (flop, turn, river).
	Burns = 3
)

// CardsNeeded is the deck size required to run a full hand for n players.
func CardsNeeded(players int) int {
	return players*HoleCards + Burns + CommunityCards
}

// SlotKind tells what a deck position is used for.
type SlotKind string

const (
	SlotHole      SlotKind = "hole"
	SlotBurn      SlotKind = "burn"
	SlotCommunity SlotKind = "community"
)

// Slot is one position of the dealing plan.
type Slot struct {
	DeckIndex int
	Kind      SlotKind
	Seat      int // hole only
	Card      int // hole: 0 or 1; community: 0..4
}

func (s Slot) String() string {
	switch s.Kind {
	case SlotHole:
		return fmt.Sprintf("seat %d hole card %d", s.Seat, s.Card+1)
	case SlotCommunity:
		return fmt.Sprintf("community card %d (%s)", s.Card+1, streetOf(s.Card))
	}
	return fmt.Sprintf("burn at %d", s.DeckIndex)
}

func streetOf(communityIdx int) string {
	switch {
	case communityIdx < 3:
		return "flop"
	case communityIdx == 3:
		return "turn"
	}
	return "river"
}

// DealPlan lays out which deck position feeds which slot, in exactly the order
// Dealer consumes the deck. Verifiers replay it against the seeded deck.
func DealPlan(players, community int) []Slot {
	plan := make([]Slot, 0, CardsNeeded(players))
	idx := 0
	for round := 0; round < HoleCards; round++ {
		for seat := 0; seat < players; seat++ {
			plan = append(plan, Slot{DeckIndex: idx, Kind: SlotHole, Seat: seat, Card: round})
			idx++
		}
	}
	streets := []int{3, 1, 1}
	dealt := 0
	for _, n := range streets {
		if dealt >= community {
			break
		}
		plan = append(plan, Slot{DeckIndex: idx, Kind: SlotBurn})
		idx++
		for i := 0; i < n && dealt < community; i++ {
			plan = append(plan, Slot{DeckIndex: idx, Kind: SlotCommunity, Card: dealt})
			idx++
			dealt++
		}
	}
	return plan
}
