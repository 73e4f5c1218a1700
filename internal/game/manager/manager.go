package manager

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"FairPoker/internal/fairness"
	"FairPoker/internal/game/engine"
	"FairPoker/internal/game/table"
	"FairPoker/internal/matchmaker"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrNotSeated       = errors.New("player not seated in game")
	ErrPlayerBusy      = errors.New("player already in a game")
	ErrNotYourTurn     = errors.New("not this player's turn")
	ErrNoActiveHand    = errors.New("no hand in progress")
	ErrHandInProgress  = errors.New("hand already in progress")
	ErrGameFinished    = errors.New("game finished")
	ErrGameNotFinished = errors.New("game still in progress")
)

// GameManager 管理所有对局：发牌种子、按钮轮转、筹码结转、结束后公开种子
type GameManager struct {
	mu           sync.RWMutex
	games        map[string]*Game
	playerToGame map[string]string // player → game, only while playing
	opts         Options
	log          *log.Logger

	// OnFinish runs after a game ends, outside the manager lock.
	OnFinish func(View)
}

func NewGameManager(opts Options, logger *log.Logger) *GameManager {
	if opts.Scheme == "" {
		opts.Scheme = fairness.SHA256
	}
	if logger == nil {
		logger = log.Default()
	}
	return &GameManager{
		games:        make(map[string]*Game),
		playerToGame: make(map[string]string),
		opts:         opts,
		log:          logger,
	}
}

// CreateGame seats players in the given order and commits to a fresh seed.
// An empty id gets a random one.
func (m *GameManager) CreateGame(id, pool string, players []string) (View, error) {
	if err := m.opts.Engine.Validate(); err != nil {
		return View{}, err
	}
	if m.opts.StartingStack <= 0 {
		return View{}, fmt.Errorf("%w: starting stack %d", engine.ErrInvalidConfig, m.opts.StartingStack)
	}
	if len(players) < 2 {
		return View{}, fmt.Errorf("%w: need at least 2 players, got %d", engine.ErrInvalidConfig, len(players))
	}
	gc, err := m.opts.Scheme.Generate()
	if err != nil {
		return View{}, err
	}
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[id]; ok {
		return View{}, fmt.Errorf("game %s already exists", id)
	}
	stacks := make(map[string]int64, len(players))
	for _, p := range players {
		if p == "" {
			return View{}, fmt.Errorf("%w: empty player id", engine.ErrInvalidConfig)
		}
		if _, dup := stacks[p]; dup {
			return View{}, fmt.Errorf("%w: player %s seated twice", engine.ErrInvalidConfig, p)
		}
		if other, busy := m.playerToGame[p]; busy {
			return View{}, fmt.Errorf("%w: %s is playing %s", ErrPlayerBusy, p, other)
		}
		stacks[p] = m.opts.StartingStack
	}

	g := &Game{
		ID:         id,
		Pool:       pool,
		Players:    append([]string(nil), players...),
		Stacks:     stacks,
		Commitment: gc,
		Options:    m.opts,
		Status:     StatusPlaying,
		CreatedAt:  time.Now(),
	}
	m.games[id] = g
	for _, p := range players {
		m.playerToGame[p] = id
	}
	m.log.Info("game created", "game", id, "players", players, "commitment", gc.Commitment, "scheme", gc.Scheme)
	return g.view(), nil
}

// StartRoom turns a matched room into a game and deals its first hand.
func (m *GameManager) StartRoom(r *matchmaker.Room) error {
	if _, err := m.CreateGame(r.ID, r.Pool, r.Players); err != nil {
		return err
	}
	_, err := m.StartNextHand(r.ID)
	return err
}

// StartNextHand deals the next hand from the committed seed.
func (m *GameManager) StartNextHand(gameID string) (View, error) {
	m.mu.Lock()
	v, done, err := m.startNextHand(gameID)
	m.mu.Unlock()
	if done {
		m.finished(v)
	}
	return v, err
}

func (m *GameManager) startNextHand(gameID string) (View, bool, error) {
	g, err := m.game(gameID)
	if err != nil {
		return View{}, false, err
	}
	if g.Status == StatusFinished {
		return View{}, false, ErrGameFinished
	}
	if g.inHand() {
		return View{}, false, ErrHandInProgress
	}

	seats, dealerIdx := g.nextSeats()
	number := g.HandNumber + 1
	deck := fairness.ExpectedDeck(g.Commitment.Seed, number)
	h, err := engine.StartHand(seats, dealerIdx, g.Options.Engine, deck)
	if err != nil {
		return View{}, false, fmt.Errorf("start hand %d: %w", number, err)
	}
	h.Number = number

	g.HandNumber = number
	g.Hand = h
	g.Seats = make([]string, len(seats))
	for i, s := range seats {
		g.Seats[i] = s.ID
	}
	g.Actions = nil
	m.log.Info("hand started", "game", g.ID, "hand", number, "button", g.Players[g.Button], "seats", g.Seats)

	done := false
	if h.Complete {
		// everyone was all-in from the blinds
		done = m.settle(g)
	}
	return g.view(), done, nil
}

// nextSeats lists players still holding chips, in seating order, and the
// button's position among them.
func (g *Game) nextSeats() ([]engine.Seat, int) {
	seats := make([]engine.Seat, 0, len(g.Players))
	dealerIdx := 0
	for i, id := range g.Players {
		if g.Stacks[id] <= 0 {
			continue
		}
		if i == g.Button {
			dealerIdx = len(seats)
		}
		seats = append(seats, engine.Seat{ID: id, Chips: g.Stacks[id]})
	}
	return seats, dealerIdx
}

// Act applies one action for playerID, who must be the player to act.
func (m *GameManager) Act(gameID, playerID string, a engine.Action) (View, error) {
	m.mu.Lock()
	v, done, err := m.act(gameID, playerID, a)
	m.mu.Unlock()
	if done {
		m.finished(v)
	}
	return v, err
}

func (m *GameManager) act(gameID, playerID string, a engine.Action) (View, bool, error) {
	g, err := m.game(gameID)
	if err != nil {
		return View{}, false, err
	}
	if g.Status == StatusFinished {
		return View{}, false, ErrGameFinished
	}
	if !g.seated(playerID) {
		return View{}, false, fmt.Errorf("%w: %s", ErrNotSeated, playerID)
	}
	if !g.inHand() {
		return View{}, false, ErrNoActiveHand
	}
	if p, ok := g.Hand.Acting(); !ok || p.ID != playerID {
		return View{}, false, fmt.Errorf("%w: waiting for %s", ErrNotYourTurn, p.ID)
	}

	street := g.Hand.Street
	next, err := engine.ApplyAction(g.Hand, a)
	if err != nil {
		return View{}, false, err
	}
	g.Hand = next
	g.Actions = append(g.Actions, ActionRecord{PlayerID: playerID, Street: street, Action: a})
	m.log.Debug("action", "game", g.ID, "hand", g.HandNumber, "player", playerID, "action", a.String(), "pot", next.Pot)

	done := false
	if next.Complete {
		done = m.settle(g)
	}
	return g.view(), done, nil
}

// settle carries the hand's stacks over, records it and decides whether the
// game goes on. It reports whether the game just finished.
func (m *GameManager) settle(g *Game) bool {
	h := g.Hand
	for _, p := range h.Players {
		g.Stacks[p.ID] = p.Chips
	}
	g.History = append(g.History, HandRecord{
		Number:    h.Number,
		Seats:     append([]string(nil), g.Seats...),
		Hole:      h.HoleCards(),
		Community: append([]table.Card{}, h.Community...),
		Actions:   append([]ActionRecord(nil), g.Actions...),
		Result:    h.Snapshot(),
	})
	m.log.Info("hand complete", "game", g.ID, "hand", h.Number, "winners", h.Winners, "pot", h.Pot, "best", h.WinningHand)

	alive := 0
	for _, id := range g.Players {
		if g.Stacks[id] > 0 {
			alive++
		} else if g.Stacks[id] == 0 && g.wasSeated(id) {
			m.log.Info("player eliminated", "game", g.ID, "hand", h.Number, "player", id)
		}
	}
	if alive <= 1 || (g.Options.MaxHands > 0 && g.HandNumber >= g.Options.MaxHands) {
		m.finish(g)
		return true
	}
	g.Button = g.nextButton()
	return false
}

// wasSeated reports whether id played the hand just settled.
func (g *Game) wasSeated(id string) bool {
	for _, s := range g.Seats {
		if s == id {
			return true
		}
	}
	return false
}

// nextButton moves the button clockwise to the next player with chips.
func (g *Game) nextButton() int {
	n := len(g.Players)
	for step := 1; step <= n; step++ {
		i := (g.Button + step) % n
		if g.Stacks[g.Players[i]] > 0 {
			return i
		}
	}
	return g.Button
}

func (m *GameManager) finish(g *Game) {
	g.Status = StatusFinished
	g.FinishedAt = time.Now()
	var best int64 = -1
	for _, id := range g.Players {
		if g.Stacks[id] > best {
			best = g.Stacks[id]
			g.Winner = id
		}
		delete(m.playerToGame, id)
	}
	m.log.Info("game finished", "game", g.ID, "hands", g.HandNumber, "winner", g.Winner)
}

func (m *GameManager) finished(v View) {
	if m.OnFinish != nil {
		m.OnFinish(v)
	}
}

// Get returns the public view of a game.
func (m *GameManager) Get(gameID string) (View, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, err := m.game(gameID)
	if err != nil {
		return View{}, err
	}
	return g.view(), nil
}

// List returns every game, newest first.
func (m *GameManager) List() []View {
	m.mu.RLock()
	defer m.mu.RUnlock()
	games := make([]*Game, 0, len(m.games))
	for _, g := range m.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool {
		if !games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].CreatedAt.After(games[j].CreatedAt)
		}
		return games[i].ID < games[j].ID
	})
	out := make([]View, len(games))
	for i, g := range games {
		out[i] = g.view()
	}
	return out
}

// HoleCards returns playerID's cards for the current or last hand.
func (m *GameManager) HoleCards(gameID, playerID string) ([]table.Card, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, err := m.game(gameID)
	if err != nil {
		return nil, err
	}
	if !g.seated(playerID) {
		return nil, fmt.Errorf("%w: %s", ErrNotSeated, playerID)
	}
	if g.Hand == nil {
		return nil, ErrNoActiveHand
	}
	for _, p := range g.Hand.Players {
		if p.ID == playerID {
			return append([]table.Card(nil), p.Hole...), nil
		}
	}
	return nil, fmt.Errorf("%w: %s was not dealt in hand %d", ErrNotSeated, playerID, g.HandNumber)
}

// PlayerGame is the game a player is currently playing.
func (m *GameManager) PlayerGame(playerID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.playerToGame[playerID]
	return id, ok
}

// Reveal publishes the seed and all dealt cards of a finished game.
func (m *GameManager) Reveal(gameID string) (Reveal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, err := m.game(gameID)
	if err != nil {
		return Reveal{}, err
	}
	if g.Status != StatusFinished {
		return Reveal{}, ErrGameNotFinished
	}
	return Reveal{
		GameID:     g.ID,
		Seed:       g.Commitment.Seed,
		Commitment: g.Commitment.Commitment,
		Scheme:     g.Commitment.Scheme,
		Hands:      g.dealtHands(),
	}, nil
}

// Verify runs the full verification of a finished game against its own
// revealed seed.
func (m *GameManager) Verify(gameID string) (fairness.GameResult, error) {
	r, err := m.Reveal(gameID)
	if err != nil {
		return fairness.GameResult{}, err
	}
	return r.Scheme.VerifyGame(r.Commitment, r.Seed, r.Hands)
}

func (m *GameManager) game(id string) (*Game, error) {
	g, ok := m.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}
