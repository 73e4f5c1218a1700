package table

// Street 当前下注轮
type Street string

const (
	Preflop  Street = "preflop"
	Flop     Street = "flop"
	Turn     Street = "turn"
	River    Street = "river"
	Showdown Street = "showdown"
)

// Snapshot is the public view of one hand: what the orchestrator persists,
// broadcasts and displays. Hole cards appear only for players who reached
// showdown.
type Snapshot struct {
	HandNumber  int          `json:"handNumber"`
	Street      Street       `json:"street"`
	Pot         int64        `json:"pot"`
	Community   []Card       `json:"community"`
	CurrentBet  int64        `json:"currentBet"`
	ActiveIndex int          `json:"activeIndex"`
	DealerIndex int          `json:"dealerIndex"`
	Players     []PlayerView `json:"players"`
	Complete    bool         `json:"isComplete"`
	WinnerID    string       `json:"winnerId,omitempty"`
	WinnerIDs   []string     `json:"winnerIds,omitempty"`
	WinningHand string       `json:"winningHand,omitempty"`
	Payouts     []Payout     `json:"payouts,omitempty"`
}

// PlayerView 单个座位的公开状态
type PlayerView struct {
	ID     string `json:"id"`
	Seat   int    `json:"seat"`
	Chips  int64  `json:"chips"`
	Bet    int64  `json:"bet"`
	Folded bool   `json:"folded"`
	AllIn  bool   `json:"allIn"`
	Hole   []Card `json:"hole,omitempty"`
}

// Payout records chips moved from one pot to one player at resolution.
type Payout struct {
	PlayerID string `json:"playerId"`
	Pot      int    `json:"pot"`
	Amount   int64  `json:"amount"`
}
