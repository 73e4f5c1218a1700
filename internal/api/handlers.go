package api

import (
	"net/http"

	"FairPoker/internal/fairness"
	"FairPoker/internal/game/engine"
	"FairPoker/internal/game/table"

	"github.com/gin-gonic/gin"
)

type createGameRequest struct {
	Players []string `json:"players" binding:"required,min=2"`
	Pool    string   `json:"pool"`
	// Deal starts hand 1 right away.
	Deal bool `json:"deal"`
}

// actionRequest 玩家动作；amount 仅 raise 需要，表示本轮下注总额
type actionRequest struct {
	PlayerID string            `json:"playerId" binding:"required"`
	Kind     engine.ActionKind `json:"kind" binding:"required"`
	Amount   int64             `json:"amount"`
}

type verifyCommitmentRequest struct {
	Commitment string `json:"commitment" binding:"required"`
	Seed       string `json:"seed" binding:"required"`
	Scheme     string `json:"scheme"`
}

// verifyHandRequest uses card notation, e.g. "10d".
type verifyHandRequest struct {
	Seed       string         `json:"seed" binding:"required"`
	HandNumber int            `json:"handNumber" binding:"required"`
	Hole       [][]table.Card `json:"hole" binding:"required"`
	Community  []table.Card   `json:"community"`
}

type verifyGameRequest struct {
	Commitment string               `json:"commitment" binding:"required"`
	Seed       string               `json:"seed" binding:"required"`
	Scheme     string               `json:"scheme"`
	Hands      []fairness.DealtHand `json:"hands"`
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// GET /games
func (s *Server) listGames(c *gin.Context) {
	c.JSON(http.StatusOK, s.games.List())
}

// POST /games body: {players, pool, deal}
func (s *Server) createGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := s.games.CreateGame("", req.Pool, req.Players)
	if err != nil {
		s.fail(c, err)
		return
	}
	if req.Deal {
		if v, err = s.games.StartNextHand(v.ID); err != nil {
			s.fail(c, err)
			return
		}
	}
	c.JSON(http.StatusCreated, v)
}

// GET /games/:id
func (s *Server) getGame(c *gin.Context) {
	v, err := s.games.Get(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// POST /games/:id/hands
func (s *Server) startHand(c *gin.Context) {
	v, err := s.games.StartNextHand(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GET /games/:id/hole?player=
func (s *Server) holeCards(c *gin.Context) {
	player := c.Query("player")
	if player == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player is required"})
		return
	}
	cards, err := s.games.HoleCards(c.Param("id"), player)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playerId": player, "hole": cards})
}

// POST /games/:id/actions body: {playerId, kind, amount}
func (s *Server) act(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	v, err := s.games.Act(c.Param("id"), req.PlayerID, engine.Action{Kind: req.Kind, Amount: req.Amount})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GET /games/:id/reveal
func (s *Server) reveal(c *gin.Context) {
	r, err := s.games.Reveal(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// GET /games/:id/verify
func (s *Server) verifyGame(c *gin.Context) {
	res, err := s.games.Verify(c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /verify/commitment 校验失败也返回 200，valid=false 并带原因
func (s *Server) verifyCommitment(c *gin.Context) {
	var req verifyCommitmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	scheme, err := fairness.ParseScheme(req.Scheme)
	if err != nil {
		s.fail(c, err)
		return
	}
	res, err := scheme.Verify(req.Commitment, req.Seed)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /verify/hand
func (s *Server) verifyHand(c *gin.Context) {
	var req verifyHandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := fairness.VerifyHandCards(req.Seed, req.HandNumber, req.Hole, req.Community)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /verify/game checks a revealed game from its published record alone.
func (s *Server) verifyRevealed(c *gin.Context) {
	var req verifyGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	scheme, err := fairness.ParseScheme(req.Scheme)
	if err != nil {
		s.fail(c, err)
		return
	}
	res, err := scheme.VerifyGame(req.Commitment, req.Seed, req.Hands)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
