package manager

import (
	"time"

	"FairPoker/internal/fairness"
	"FairPoker/internal/game/engine"
	"FairPoker/internal/game/table"
)

type Status string

const (
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Options 每局游戏的规则参数
type Options struct {
	Engine        engine.Config
	StartingStack int64
	// MaxHands stops the game after that many hands. Zero plays until one
	// player holds every chip.
	MaxHands int
	Scheme   fairness.Scheme
}

// ActionRecord is one accepted action of a hand.
type ActionRecord struct {
	PlayerID string        `json:"playerId"`
	Street   table.Street  `json:"street"`
	Action   engine.Action `json:"action"`
}

// HandRecord keeps everything needed to replay and verify a finished hand.
// Hole cards stay private until the game's seed is revealed.
type HandRecord struct {
	Number    int            `json:"number"`
	Seats     []string       `json:"seats"`
	Hole      [][]table.Card `json:"-"`
	Community []table.Card   `json:"community"`
	Actions   []ActionRecord `json:"actions"`
	Result    table.Snapshot `json:"result"`
}

// Game 一局多手牌的淘汰赛
type Game struct {
	ID         string
	Pool       string
	Players    []string // fixed seating order
	Stacks     map[string]int64
	Commitment fairness.GameCommitment
	Options    Options
	Button     int // index into Players
	HandNumber int
	Hand       *engine.HandState
	Seats      []string // Players still holding chips, as seated in Hand
	Actions    []ActionRecord
	History    []HandRecord
	Status     Status
	Winner     string
	CreatedAt  time.Time
	FinishedAt time.Time
}

func (g *Game) inHand() bool { return g.Hand != nil && !g.Hand.Complete }

func (g *Game) seated(playerID string) bool {
	_, ok := g.Stacks[playerID]
	return ok
}

// View is the public state of a game; it never carries the seed.
type View struct {
	ID         string           `json:"id"`
	Pool       string           `json:"pool,omitempty"`
	Status     Status           `json:"status"`
	Commitment string           `json:"commitment"`
	Scheme     fairness.Scheme  `json:"scheme"`
	Players    []string         `json:"players"`
	Stacks     map[string]int64 `json:"stacks"`
	HandNumber int              `json:"handNumber"`
	Hand       *table.Snapshot  `json:"hand,omitempty"`
	Acting     string           `json:"acting,omitempty"`
	Legal      []string         `json:"legal,omitempty"`
	MinRaiseTo int64            `json:"minRaiseTo,omitempty"`
	MaxRaiseTo int64            `json:"maxRaiseTo,omitempty"`
	History    []HandRecord     `json:"history"`
	Winner     string           `json:"winner,omitempty"`
}

func (g *Game) view() View {
	v := View{
		ID:         g.ID,
		Pool:       g.Pool,
		Status:     g.Status,
		Commitment: g.Commitment.Commitment,
		Scheme:     g.Commitment.Scheme,
		Players:    append([]string(nil), g.Players...),
		Stacks:     make(map[string]int64, len(g.Stacks)),
		HandNumber: g.HandNumber,
		History:    append([]HandRecord{}, g.History...),
		Winner:     g.Winner,
	}
	for id, chips := range g.Stacks {
		v.Stacks[id] = chips
	}
	if g.Hand != nil {
		snap := g.Hand.Snapshot()
		v.Hand = &snap
	}
	if !g.inHand() {
		return v
	}
	if p, ok := g.Hand.Acting(); ok {
		v.Acting = p.ID
		lo, hi, canRaise := engine.RaiseBounds(g.Hand)
		if canRaise {
			v.MinRaiseTo, v.MaxRaiseTo = lo, hi
		}
		if legal, err := engine.LegalActions(g.Hand); err == nil {
			for _, k := range legal {
				// 筹码够跟注但不够最小加注：只能全下
				if k == engine.Raise && !canRaise {
					continue
				}
				v.Legal = append(v.Legal, k.String())
			}
		}
	}
	return v
}

// Reveal is published once a game has finished: the seed plus every dealt
// card, enough for anyone to rerun the verification.
type Reveal struct {
	GameID     string               `json:"gameId"`
	Seed       string               `json:"seed"`
	Commitment string               `json:"commitment"`
	Scheme     fairness.Scheme      `json:"scheme"`
	Hands      []fairness.DealtHand `json:"hands"`
}

func (g *Game) dealtHands() []fairness.DealtHand {
	out := make([]fairness.DealtHand, 0, len(g.History))
	for _, h := range g.History {
		hole := make([][]table.Card, len(h.Hole))
		for i, cards := range h.Hole {
			hole[i] = append([]table.Card(nil), cards...)
		}
		out = append(out, fairness.DealtHand{
			Number:    h.Number,
			Hole:      hole,
			Community: append([]table.Card{}, h.Community...),
		})
	}
	return out
}
