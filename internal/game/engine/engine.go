package engine

import (
	"errors"
	"fmt"

	"FairPoker/internal/game/dealer"
	"FairPoker/internal/game/evaluator"
	"FairPoker/internal/game/table"
)

var (
	ErrIllegalAction = errors.New("illegal action")
	ErrHandComplete  = errors.New("hand already complete")
	ErrInvalidConfig = errors.New("invalid hand config")
)

// UncontestedHand is the winning-hand text when everyone else folded.
const UncontestedHand = "Uncontested"

// Config is the table configuration for one hand.
type Config struct {
	SmallBlind int64 `json:"smallBlind"`
	BigBlind   int64 `json:"bigBlind"`
	// MinRaise is the smallest raise increment at the start of each street.
	// Zero means the big blind.
	MinRaise int64 `json:"minRaise"`
}

func (c Config) Validate() error {
	if c.BigBlind <= 0 || c.SmallBlind < 0 || c.SmallBlind > c.BigBlind || c.MinRaise < 0 {
		return fmt.Errorf("%w: blinds %d/%d, min raise %d", ErrInvalidConfig, c.SmallBlind, c.BigBlind, c.MinRaise)
	}
	return nil
}

func (c Config) minRaise() int64 {
	if c.MinRaise > 0 {
		return c.MinRaise
	}
	return c.BigBlind
}

// Seat is a player entering a hand.
type Seat struct {
	ID    string
	Chips int64
}

// PlayerState 单手牌内的玩家状态，只由 HandState 持有
type PlayerState struct {
	ID       string       `json:"id"`
	Seat     int          `json:"seat"`
	Hole     []table.Card `json:"hole"`
	Chips    int64        `json:"chips"`
	Bet      int64        `json:"bet"`
	Folded   bool         `json:"folded"`
	AllIn    bool         `json:"allIn"`
	HasActed bool         `json:"hasActed"`
	// Committed is everything put into the pot this hand.
	Committed int64 `json:"committed"`
}

func (p *PlayerState) canAct() bool { return !p.Folded && !p.AllIn }

// HandState is the aggregate root of one hand. ApplyAction never mutates the
// state it is given; it returns a new one.
type HandState struct {
	Number          int                `json:"number"`
	Config          Config             `json:"config"`
	Street          table.Street       `json:"street"`
	Pot             int64              `json:"pot"`
	Community       []table.Card       `json:"community"`
	CurrentBet      int64              `json:"currentBet"`
	MinRaise        int64              `json:"minRaise"`
	ActiveIndex     int                `json:"activeIndex"`
	DealerIndex     int                `json:"dealerIndex"`
	SmallBlindIndex int                `json:"smallBlindIndex"`
	BigBlindIndex   int                `json:"bigBlindIndex"`
	Players         []PlayerState      `json:"players"`
	Deck            dealer.Deck        `json:"-"`
	Complete        bool               `json:"complete"`
	Winners         []string           `json:"winners,omitempty"`
	WinningHand     string             `json:"winningHand,omitempty"`
	Pots            []Pot              `json:"pots,omitempty"`
	Payouts         []table.Payout     `json:"payouts,omitempty"`
	Showdown        []evaluator.Result `json:"showdown,omitempty"`
}

// StartHand deals hole cards, posts blinds and hands the action to the seat
// after the big blind. A nil deck is replaced by a freshly shuffled one.
func StartHand(seats []Seat, dealerIndex int, cfg Config, deck dealer.Deck) (*HandState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deck == nil {
		deck = dealer.Shuffle(dealer.BuildDeck())
	}
	n := len(seats)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 players, got %d", ErrInvalidConfig, n)
	}
	if dealer.CardsNeeded(n) > len(deck) {
		return nil, fmt.Errorf("%w: %d players need %d cards, deck has %d", ErrInvalidConfig, n, dealer.CardsNeeded(n), len(deck))
	}
	if dealerIndex < 0 || dealerIndex >= n {
		return nil, fmt.Errorf("%w: dealer index %d out of range", ErrInvalidConfig, dealerIndex)
	}
	if err := checkDeck(deck); err != nil {
		return nil, err
	}

	ids := make(map[string]bool, n)
	players := make([]PlayerState, n)
	for i, s := range seats {
		if s.ID == "" || ids[s.ID] {
			return nil, fmt.Errorf("%w: seat %d has empty or duplicate id %q", ErrInvalidConfig, i, s.ID)
		}
		if s.Chips <= 0 {
			return nil, fmt.Errorf("%w: player %s has no chips", ErrInvalidConfig, s.ID)
		}
		ids[s.ID] = true
		players[i] = PlayerState{ID: s.ID, Seat: i, Chips: s.Chips}
	}

	d := dealer.NewDealer(deck)
	holes, err := d.DealHoleCards(n)
	if err != nil {
		return nil, err
	}
	for i := range players {
		players[i].Hole = holes[i]
	}

	h := &HandState{
		Config:          cfg,
		Street:          table.Preflop,
		Community:       []table.Card{},
		MinRaise:        cfg.minRaise(),
		DealerIndex:     dealerIndex,
		SmallBlindIndex: (dealerIndex + 1) % n,
		BigBlindIndex:   (dealerIndex + 2) % n,
		Players:         players,
		Deck:            d.Remaining(),
	}
	h.commit(&h.Players[h.SmallBlindIndex], min(cfg.SmallBlind, h.Players[h.SmallBlindIndex].Chips))
	h.commit(&h.Players[h.BigBlindIndex], min(cfg.BigBlind, h.Players[h.BigBlindIndex].Chips))
	h.CurrentBet = max(h.Players[h.SmallBlindIndex].Bet, h.Players[h.BigBlindIndex].Bet)

	if err := h.advance((dealerIndex + 3) % n); err != nil {
		return nil, err
	}
	return h, nil
}

func checkDeck(deck dealer.Deck) error {
	seen := make(map[table.Card]bool, len(deck))
	for _, c := range deck {
		if !c.Valid() || seen[c] {
			return fmt.Errorf("%w: deck has invalid or repeated card %v", ErrInvalidConfig, c)
		}
		seen[c] = true
	}
	return nil
}

// LegalActions lists what the acting player may do, in a fixed order.
func LegalActions(h *HandState) ([]ActionKind, error) {
	p, err := h.actor()
	if err != nil {
		return nil, err
	}
	gap := h.CurrentBet - p.Bet
	legal := []ActionKind{Fold}
	if gap == 0 {
		legal = append(legal, Check)
	}
	if gap > 0 && p.Chips > 0 {
		legal = append(legal, Call)
	}
	if p.Chips > gap {
		legal = append(legal, Raise)
	}
	if p.Chips > 0 {
		legal = append(legal, AllIn)
	}
	return legal, nil
}

// RaiseBounds returns the smallest and largest legal raise totals for the
// acting player. ok is false when no raise amount is reachable.
func RaiseBounds(h *HandState) (minTotal, maxTotal int64, ok bool) {
	p, err := h.actor()
	if err != nil {
		return 0, 0, false
	}
	minTotal = h.CurrentBet + h.MinRaise
	maxTotal = p.Bet + p.Chips
	return minTotal, maxTotal, p.Chips > h.CurrentBet-p.Bet && minTotal <= maxTotal
}

func (h *HandState) actor() (*PlayerState, error) {
	if h.Complete {
		return nil, ErrHandComplete
	}
	if h.ActiveIndex < 0 || h.ActiveIndex >= len(h.Players) {
		return nil, fmt.Errorf("%w: no player to act", ErrIllegalAction)
	}
	p := &h.Players[h.ActiveIndex]
	if !p.canAct() {
		return nil, fmt.Errorf("%w: player %s cannot act (folded=%v allIn=%v)", ErrIllegalAction, p.ID, p.Folded, p.AllIn)
	}
	return p, nil
}

// ApplyAction validates a for the acting player and returns the next state.
// On error h is unchanged and no state is returned.
func ApplyAction(h *HandState, a Action) (*HandState, error) {
	legal, err := LegalActions(h)
	if err != nil {
		return nil, err
	}
	allowed := false
	for _, k := range legal {
		if k == a.Kind {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s not allowed for %s (legal: %v)", ErrIllegalAction, a, h.Players[h.ActiveIndex].ID, legal)
	}

	next := h.Clone()
	idx := next.ActiveIndex
	p := &next.Players[idx]
	gap := next.CurrentBet - p.Bet

	switch a.Kind {
	case Fold:
		p.Folded = true
	case Check:
	case Call:
		next.commit(p, min(gap, p.Chips))
	case Raise:
		switch {
		case a.Amount <= next.CurrentBet:
			return nil, fmt.Errorf("%w: raise to %d does not exceed current bet %d", ErrIllegalAction, a.Amount, next.CurrentBet)
		case a.Amount-next.CurrentBet < next.MinRaise:
			return nil, fmt.Errorf("%w: raise to %d is below minimum %d", ErrIllegalAction, a.Amount, next.CurrentBet+next.MinRaise)
		case a.Amount-p.Bet > p.Chips:
			return nil, fmt.Errorf("%w: raise to %d exceeds stack (max %d)", ErrIllegalAction, a.Amount, p.Bet+p.Chips)
		}
		next.MinRaise = a.Amount - next.CurrentBet
		next.CurrentBet = a.Amount
		next.commit(p, a.Amount-p.Bet)
		next.reopen(idx)
	case AllIn:
		next.commit(p, p.Chips)
		if p.Bet > next.CurrentBet {
			if inc := p.Bet - next.CurrentBet; inc >= next.MinRaise {
				next.MinRaise = inc
			}
			next.CurrentBet = p.Bet
			next.reopen(idx)
		}
	}
	p.HasActed = true

	if err := next.advance((idx + 1) % len(next.Players)); err != nil {
		return nil, err
	}
	return next, nil
}

func (h *HandState) commit(p *PlayerState, amount int64) {
	p.Chips -= amount
	p.Bet += amount
	p.Committed += amount
	h.Pot += amount
	if p.Chips == 0 {
		p.AllIn = true
	}
}

// reopen makes every other player who can still bet respond to a new bet.
func (h *HandState) reopen(raiser int) {
	for i := range h.Players {
		if i != raiser && h.Players[i].canAct() {
			h.Players[i].HasActed = false
		}
	}
}

func (h *HandState) needsToAct(i int) bool {
	p := &h.Players[i]
	return p.canAct() && (!p.HasActed || p.Bet < h.CurrentBet)
}

func (h *HandState) unfolded() []int {
	out := make([]int, 0, len(h.Players))
	for i := range h.Players {
		if !h.Players[i].Folded {
			out = append(out, i)
		}
	}
	return out
}

func (h *HandState) roundComplete() bool {
	var active []int
	for i := range h.Players {
		if h.Players[i].canAct() {
			active = append(active, i)
		}
	}
	if len(active) == 0 {
		return true
	}
	pending := false
	for _, i := range active {
		if h.needsToAct(i) {
			pending = true
			break
		}
	}
	if !pending {
		return true
	}
	// lone bettor left: nobody to bet against once matched
	return len(active) == 1 && h.Players[active[0]].Bet >= h.CurrentBet
}

// nextToAct searches clockwise from start (inclusive).
func (h *HandState) nextToAct(start int) int {
	n := len(h.Players)
	for step := 0; step < n; step++ {
		i := (start + step) % n
		if h.needsToAct(i) {
			return i
		}
	}
	return -1
}

// advance moves the hand forward after a change: picks the next actor, or
// closes the street, deals the next one, and resolves at the end.
func (h *HandState) advance(from int) error {
	for {
		if live := h.unfolded(); len(live) <= 1 {
			h.awardUncontested(live)
			return nil
		}
		if !h.roundComplete() {
			h.ActiveIndex = h.nextToAct(from)
			return nil
		}
		if h.Street == table.River {
			return h.showdown()
		}
		if err := h.dealNextStreet(); err != nil {
			return err
		}
		from = (h.DealerIndex + 1) % len(h.Players)
	}
}

func (h *HandState) resetRound() {
	for i := range h.Players {
		h.Players[i].Bet = 0
		h.Players[i].HasActed = false
	}
	h.CurrentBet = 0
	h.MinRaise = h.Config.minRaise()
}

func (h *HandState) dealNextStreet() error {
	h.resetRound()
	d := dealer.NewDealer(h.Deck)
	var (
		cards []table.Card
		err   error
	)
	switch h.Street {
	case table.Preflop:
		cards, err = d.DealFlop()
		h.Street = table.Flop
	case table.Flop:
		cards, err = d.DealTurn()
		h.Street = table.Turn
	case table.Turn:
		cards, err = d.DealRiver()
		h.Street = table.River
	default:
		return fmt.Errorf("cannot deal after %s", h.Street)
	}
	if err != nil {
		return fmt.Errorf("deal %s: %w", h.Street, err)
	}
	h.Community = append(h.Community, cards...)
	h.Deck = d.Remaining()
	return nil
}

func (h *HandState) finish() {
	h.Complete = true
	h.ActiveIndex = -1
	for i := range h.Players {
		h.Players[i].Bet = 0
	}
}

func (h *HandState) awardUncontested(live []int) {
	h.finish()
	if len(live) == 0 {
		return
	}
	w := &h.Players[live[0]]
	w.Chips += h.Pot
	h.Winners = []string{w.ID}
	h.WinningHand = UncontestedHand
	h.Pots = []Pot{{Amount: h.Pot, Eligible: []string{w.ID}}}
	h.Payouts = []table.Payout{{PlayerID: w.ID, Pot: 0, Amount: h.Pot}}
}

func (h *HandState) showdown() error {
	h.Street = table.Showdown
	h.finish()

	contenders := make([]evaluator.Contender, 0, len(h.Players))
	for _, i := range h.unfolded() {
		contenders = append(contenders, evaluator.Contender{ID: h.Players[i].ID, Hole: h.Players[i].Hole})
	}
	_, all, err := evaluator.DetermineWinners(contenders, h.Community)
	if err != nil {
		return fmt.Errorf("showdown: %w", err)
	}
	h.Showdown = all
	hands := make(map[string]evaluator.EvaluatedHand, len(all))
	for _, r := range all {
		hands[r.ID] = r.Hand
	}

	h.Pots = buildPots(h.Players)
	for potIdx, pot := range h.Pots {
		winners := bestOf(pot.Eligible, hands)
		shares := h.split(pot.Amount, winners)
		for _, id := range winners {
			h.player(id).Chips += shares[id]
			h.Payouts = append(h.Payouts, table.Payout{PlayerID: id, Pot: potIdx, Amount: shares[id]})
		}
		if potIdx == 0 {
			h.Winners = winners
			h.WinningHand = hands[winners[0]].Description
		}
	}
	return nil
}

func (h *HandState) player(id string) *PlayerState {
	for i := range h.Players {
		if h.Players[i].ID == id {
			return &h.Players[i]
		}
	}
	return nil
}

// split divides amount evenly; odd chips go one each to the winners closest
// clockwise from the dealer.
func (h *HandState) split(amount int64, winners []string) map[string]int64 {
	out := make(map[string]int64, len(winners))
	share := amount / int64(len(winners))
	rest := amount % int64(len(winners))
	order := h.clockwiseFromDealer(winners)
	for _, id := range order {
		out[id] = share
		if rest > 0 {
			out[id]++
			rest--
		}
	}
	return out
}

func (h *HandState) clockwiseFromDealer(ids []string) []string {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	n := len(h.Players)
	out := make([]string, 0, len(ids))
	for step := 1; step <= n; step++ {
		p := h.Players[(h.DealerIndex+step)%n]
		if want[p.ID] {
			out = append(out, p.ID)
		}
	}
	return out
}

// Acting returns the player to act, if any.
func (h *HandState) Acting() (PlayerState, bool) {
	if h.Complete || h.ActiveIndex < 0 {
		return PlayerState{}, false
	}
	return h.Players[h.ActiveIndex], true
}

// Clone deep-copies the state.
func (h *HandState) Clone() *HandState {
	c := *h
	c.Players = make([]PlayerState, len(h.Players))
	for i, p := range h.Players {
		p.Hole = append([]table.Card(nil), p.Hole...)
		c.Players[i] = p
	}
	c.Community = append([]table.Card{}, h.Community...)
	c.Deck = h.Deck.Clone()
	c.Winners = append([]string(nil), h.Winners...)
	c.Payouts = append([]table.Payout(nil), h.Payouts...)
	c.Showdown = append([]evaluator.Result(nil), h.Showdown...)
	if h.Pots != nil {
		c.Pots = make([]Pot, len(h.Pots))
		for i, p := range h.Pots {
			p.Eligible = append([]string(nil), p.Eligible...)
			c.Pots[i] = p
		}
	}
	return &c
}

// HoleCards returns every seat's hole cards in seat order.
func (h *HandState) HoleCards() [][]table.Card {
	out := make([][]table.Card, len(h.Players))
	for i, p := range h.Players {
		out[i] = append([]table.Card(nil), p.Hole...)
	}
	return out
}

// Snapshot builds the public view. Hole cards are shown only for hands
// that went to showdown.
func (h *HandState) Snapshot() table.Snapshot {
	shown := make(map[string]bool, len(h.Showdown))
	for _, r := range h.Showdown {
		shown[r.ID] = true
	}
	s := table.Snapshot{
		HandNumber:  h.Number,
		Street:      h.Street,
		Pot:         h.Pot,
		Community:   append([]table.Card{}, h.Community...),
		CurrentBet:  h.CurrentBet,
		ActiveIndex: h.ActiveIndex,
		DealerIndex: h.DealerIndex,
		Players:     make([]table.PlayerView, len(h.Players)),
		Complete:    h.Complete,
		WinnerIDs:   append([]string(nil), h.Winners...),
		WinningHand: h.WinningHand,
		Payouts:     append([]table.Payout(nil), h.Payouts...),
	}
	if len(h.Winners) > 0 {
		s.WinnerID = h.Winners[0]
	}
	for i, p := range h.Players {
		v := table.PlayerView{ID: p.ID, Seat: p.Seat, Chips: p.Chips, Bet: p.Bet, Folded: p.Folded, AllIn: p.AllIn}
		if shown[p.ID] {
			v.Hole = append([]table.Card(nil), p.Hole...)
		}
		s.Players[i] = v
	}
	return s
}
