package api

import (
	"errors"
	"net/http"
	"time"

	"FairPoker/internal/fairness"
	"FairPoker/internal/game/engine"
	"FairPoker/internal/game/manager"
	"FairPoker/internal/game/table"
	"FairPoker/internal/matchmaker"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	games *manager.GameManager
	log   *log.Logger
}

// NewRouter wires every HTTP route. match may be nil when matchmaking is
// disabled.
func NewRouter(games *manager.GameManager, match *matchmaker.Service, logger *log.Logger) *gin.Engine {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{games: games, log: logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if match != nil {
		matchmaker.NewHandler(match).Register(r.Group("/match"))
	}

	g := r.Group("/games")
	{
		g.GET("", s.listGames)
		g.POST("", s.createGame)
		g.GET("/:id", s.getGame)
		g.POST("/:id/hands", s.startHand)
		g.GET("/:id/hole", s.holeCards)
		g.POST("/:id/actions", s.act)
		g.GET("/:id/reveal", s.reveal)
		g.GET("/:id/verify", s.verifyGame)
	}

	v := r.Group("/verify")
	{
		v.POST("/commitment", s.verifyCommitment)
		v.POST("/hand", s.verifyHand)
		v.POST("/game", s.verifyRevealed)
	}
	return r
}

func requestLogger(l *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Debug("http", "method", c.Request.Method, "path", c.FullPath(), "status", c.Writer.Status(), "took", time.Since(start))
	}
}

// statusOf maps domain errors to HTTP codes.
func statusOf(err error) int {
	var fe *fairness.FormatError
	var ne *table.NotationError
	switch {
	case errors.Is(err, manager.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, manager.ErrNotSeated):
		return http.StatusForbidden
	case errors.As(err, &fe), errors.As(err, &ne), errors.Is(err, engine.ErrInvalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrIllegalAction),
		errors.Is(err, engine.ErrHandComplete),
		errors.Is(err, manager.ErrNotYourTurn),
		errors.Is(err, manager.ErrNoActiveHand),
		errors.Is(err, manager.ErrHandInProgress),
		errors.Is(err, manager.ErrGameFinished),
		errors.Is(err, manager.ErrGameNotFinished),
		errors.Is(err, manager.ErrPlayerBusy):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		s.log.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
