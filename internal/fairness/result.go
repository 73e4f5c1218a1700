package fairness

import (
	"fmt"

	"FairPoker/internal/game/table"
)

// Reason is a machine-readable verification failure code.
type Reason string

const (
	ReasonHashMismatch Reason = "hash_mismatch"
	ReasonCardMismatch Reason = "card_mismatch"
)

// FormatError rejects input before any hashing or replay happens.
type FormatError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("fairness: invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("fairness: invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// CommitmentResult 种子与承诺的校验结果
type CommitmentResult struct {
	Valid      bool   `json:"valid"`
	Reason     Reason `json:"reason,omitempty"`
	Scheme     Scheme `json:"scheme"`
	Commitment string `json:"commitment"`
	Computed   string `json:"computed"`
}

// CardMismatch locates the first dealt card that differs from the replay.
type CardMismatch struct {
	DeckIndex int        `json:"deckIndex"`
	Slot      string     `json:"slot"`
	Expected  table.Card `json:"expected"`
	Actual    table.Card `json:"actual"`
}

func (m *CardMismatch) String() string {
	return fmt.Sprintf("%s (deck index %d): expected %s, got %s", m.Slot, m.DeckIndex, m.Expected, m.Actual)
}

// HandResult is the outcome of replaying one hand. ExpectedDeck is filled
// only when verification fails.
type HandResult struct {
	Valid        bool          `json:"valid"`
	Reason       Reason        `json:"reason,omitempty"`
	HandNumber   int           `json:"handNumber"`
	Mismatch     *CardMismatch `json:"mismatch,omitempty"`
	ExpectedDeck []string      `json:"expectedDeck,omitempty"`
}

// GameResult combines the commitment check with every hand's replay.
type GameResult struct {
	Valid      bool             `json:"valid"`
	Commitment CommitmentResult `json:"commitment"`
	Hands      []HandResult     `json:"hands"`
}
