package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FairPoker/config"
	"FairPoker/internal/api"
	"FairPoker/internal/game/manager"
	"FairPoker/internal/matchmaker"
	"FairPoker/internal/storage"
	"FairPoker/internal/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	cfgPath := flag.String("config", "config/config.yaml", "path to config file, empty for defaults")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		utils.Log.Fatal("config", "err", err)
	}
	logger := utils.Init(cfg.Log.Level)
	scheme, _ := cfg.Game.Scheme() // validated by Load

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//-------------------------------------------------------
	// 1. 匹配队列：配置了 Redis 就用 Redis，否则内存
	//-------------------------------------------------------
	repo := matchmaker.NewMemoryRepo()
	if cfg.Redis.Addr != "" {
		rdb, err := storage.InitRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("redis init failed", "err", err)
		}
		defer rdb.Close()
		repo = matchmaker.NewRedisRepo(rdb)
		logger.Info("matchmaking on redis", "addr", cfg.Redis.Addr)
	}

	//-------------------------------------------------------
	// 2. GameManager：承诺、发牌、结算、公开种子
	//-------------------------------------------------------
	games := manager.NewGameManager(manager.Options{
		Engine:        cfg.Game.Engine(),
		StartingStack: cfg.Game.StartingStack,
		MaxHands:      cfg.Game.MaxHands,
		Scheme:        scheme,
	}, utils.Named("manager"))

	//-------------------------------------------------------
	// 3. Matchmaker：成桌即开局，对局结束后释放玩家
	//-------------------------------------------------------
	svc := matchmaker.NewService(repo, cfg.Match.PlayerTTL, utils.Named("match"))
	svc.OnRoomReady = games.StartRoom
	svc.Busy = func(id string) bool {
		_, ok := games.PlayerGame(id)
		return ok
	}
	games.OnFinish = func(v manager.View) {
		if err := svc.Release(context.Background(), v.Players...); err != nil {
			logger.Error("release players", "game", v.ID, "err", err)
		}
	}

	//-------------------------------------------------------
	// 4. HTTP
	//-------------------------------------------------------
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           api.NewRouter(games, svc, utils.Named("http")),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("server running", "addr", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "err", err)
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("bye")
}
