package engine

import (
	"sort"

	"FairPoker/internal/game/evaluator"
)

// Pot is one main or side pot and the players who can win it.
type Pot struct {
	Amount   int64    `json:"amount"`
	Eligible []string `json:"eligible"`
}

// buildPots layers the hand's contributions by the commitment levels of the
// players still in. Chips a folded player put in above the top level join the
// last pot. A top pot with a single eligible player is an uncalled bet.
func buildPots(players []PlayerState) []Pot {
	var levels []int64
	seen := map[int64]bool{}
	for _, p := range players {
		if !p.Folded && p.Committed > 0 && !seen[p.Committed] {
			seen[p.Committed] = true
			levels = append(levels, p.Committed)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	if len(levels) == 0 {
		var total int64
		var eligible []string
		for _, p := range players {
			total += p.Committed
			if !p.Folded {
				eligible = append(eligible, p.ID)
			}
		}
		return []Pot{{Amount: total, Eligible: eligible}}
	}

	pots := make([]Pot, 0, len(levels))
	var prev int64
	for li, lvl := range levels {
		pot := Pot{}
		for _, p := range players {
			if li == len(levels)-1 {
				pot.Amount += max(p.Committed-prev, 0)
			} else {
				pot.Amount += min(p.Committed, lvl) - min(p.Committed, prev)
			}
			if !p.Folded && p.Committed >= lvl {
				pot.Eligible = append(pot.Eligible, p.ID)
			}
		}
		pots = append(pots, pot)
		prev = lvl
	}
	return pots
}

// bestOf returns the eligible ids holding the best hand, in input order.
func bestOf(eligible []string, hands map[string]evaluator.EvaluatedHand) []string {
	var best []string
	for _, id := range eligible {
		if len(best) == 0 {
			best = []string{id}
			continue
		}
		switch evaluator.Compare(hands[id], hands[best[0]]) {
		case 1:
			best = []string{id}
		case 0:
			best = append(best, id)
		}
	}
	return best
}
