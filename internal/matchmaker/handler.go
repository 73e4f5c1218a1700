package matchmaker

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the match routes on g.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.POST("/join", h.Join)
	g.POST("/cancel", h.Cancel)
	g.GET("/status", h.Status)
}

// POST /match/join  body: {playerId, pool, tableSize}
func (h *Handler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, queued, err := h.svc.Join(c.Request.Context(), req)
	switch {
	case errors.Is(err, ErrInvalidTableSize):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrAlreadySeated):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if queued {
		c.JSON(http.StatusOK, JoinResponse{
			Queued: true, Pool: req.Pool, TableSize: req.TableSize,
		})
		return
	}
	c.JSON(http.StatusOK, JoinResponse{
		Queued: false, Pool: room.Pool, TableSize: room.TableSize, GameID: room.ID, Players: room.Players,
	})
}

// POST /match/cancel body: {playerId}
func (h *Handler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.Cancel(c.Request.Context(), req.PlayerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /match/status?player=
func (h *Handler) Status(c *gin.Context) {
	player := c.Query("player")
	if player == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player is required"})
		return
	}
	gameID, err := h.svc.Status(c.Request.Context(), player)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"playerId": player, "gameId": gameID, "seated": gameID != ""})
}
