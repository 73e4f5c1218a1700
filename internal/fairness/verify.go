package fairness

import (
	"fmt"

	"FairPoker/internal/game/dealer"
	"FairPoker/internal/game/table"
)

// ExpectedDeck is the deck hand n must have been dealt from.
func ExpectedDeck(seed string, handNumber int) dealer.Deck {
	return dealer.SeededShuffle(dealer.BuildDeck(), HandSeed(seed, handNumber))
}

// VerifyHandCards replays the dealing order of hand handNumber against the
// seeded deck and compares every dealt card in that order. It stops at the
// first divergence. hole is indexed by seat; community holds 0, 3, 4 or 5
// cards.
func VerifyHandCards(seed string, handNumber int, hole [][]table.Card, community []table.Card) (HandResult, error) {
	if err := checkSeed(seed); err != nil {
		return HandResult{}, err
	}
	if err := checkHand(handNumber, hole, community); err != nil {
		return HandResult{}, err
	}

	deck := ExpectedDeck(seed, handNumber)
	res := HandResult{Valid: true, HandNumber: handNumber}
	for _, slot := range dealer.DealPlan(len(hole), len(community)) {
		var actual table.Card
		switch slot.Kind {
		case dealer.SlotHole:
			actual = hole[slot.Seat][slot.Card]
		case dealer.SlotCommunity:
			actual = community[slot.Card]
		default:
			continue // burns are never shown
		}
		if expected := deck[slot.DeckIndex]; expected != actual {
			res.Valid = false
			res.Reason = ReasonCardMismatch
			res.Mismatch = &CardMismatch{
				DeckIndex: slot.DeckIndex,
				Slot:      slot.String(),
				Expected:  expected,
				Actual:    actual,
			}
			res.ExpectedDeck = table.Notations(deck)
			return res, nil
		}
	}
	return res, nil
}

func checkHand(handNumber int, hole [][]table.Card, community []table.Card) error {
	if handNumber < 1 {
		return &FormatError{Field: "hand number", Value: fmt.Sprint(handNumber), Reason: "hands are numbered from 1"}
	}
	if len(hole) < 2 || dealer.CardsNeeded(len(hole)) > table.DeckSize {
		return &FormatError{Field: "hole cards", Reason: fmt.Sprintf("%d players cannot be dealt from one deck", len(hole))}
	}
	for seat, cards := range hole {
		if len(cards) != dealer.HoleCards {
			return &FormatError{Field: "hole cards", Reason: fmt.Sprintf("seat %d has %d cards, want %d", seat, len(cards), dealer.HoleCards)}
		}
	}
	switch len(community) {
	case 0, 3, 4, 5:
	default:
		return &FormatError{Field: "community cards", Reason: fmt.Sprintf("%d cards is not a street boundary", len(community))}
	}
	return nil
}

// DealtHand is what a game published for one hand.
type DealtHand struct {
	Number    int            `json:"number"`
	Hole      [][]table.Card `json:"hole"`
	Community []table.Card   `json:"community"`
}

// VerifyGame checks the commitment and replays every hand of a game.
func (s Scheme) VerifyGame(commitment, seed string, hands []DealtHand) (GameResult, error) {
	cr, err := s.Verify(commitment, seed)
	if err != nil {
		return GameResult{}, err
	}
	out := GameResult{Valid: cr.Valid, Commitment: cr, Hands: make([]HandResult, 0, len(hands))}
	for _, h := range hands {
		hr, err := VerifyHandCards(seed, h.Number, h.Hole, h.Community)
		if err != nil {
			return GameResult{}, fmt.Errorf("hand %d: %w", h.Number, err)
		}
		out.Valid = out.Valid && hr.Valid
		out.Hands = append(out.Hands, hr)
	}
	return out, nil
}
