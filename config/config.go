package config

import (
	"fmt"
	"strings"

	"FairPoker/internal/fairness"
	"FairPoker/internal/game/engine"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Redis struct {
		// Addr 为空时匹配队列使用内存实现
		Addr     string
		Password string
		DB       int
	}
	Game  Game
	Match struct {
		PlayerTTL int // seconds
	}
	Log struct {
		Level string
	}
}

// Game 牌桌规则
type Game struct {
	SmallBlind    int64
	BigBlind      int64
	MinRaise      int64
	StartingStack int64
	MaxHands      int
	CommitScheme  string
}

func (g Game) Engine() engine.Config {
	return engine.Config{SmallBlind: g.SmallBlind, BigBlind: g.BigBlind, MinRaise: g.MinRaise}
}

func (g Game) Scheme() (fairness.Scheme, error) {
	return fairness.ParseScheme(g.CommitScheme)
}

var C Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("game.smallBlind", 10)
	v.SetDefault("game.bigBlind", 20)
	v.SetDefault("game.minRaise", 0)
	v.SetDefault("game.startingStack", 1000)
	v.SetDefault("game.maxHands", 0)
	v.SetDefault("game.commitScheme", string(fairness.SHA256))
	v.SetDefault("match.playerTTL", 300)
	v.SetDefault("log.level", "info")
}

// Load reads path (optional; "" uses defaults only) and lets FAIRPOKER_*
// environment variables override it, e.g. FAIRPOKER_GAME_BIGBLIND=50.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("FAIRPOKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Game.Engine().Validate(); err != nil {
		return Config{}, err
	}
	if c.Game.StartingStack <= 0 {
		return Config{}, fmt.Errorf("game.startingStack must be positive, got %d", c.Game.StartingStack)
	}
	if _, err := c.Game.Scheme(); err != nil {
		return Config{}, err
	}
	C = c
	return c, nil
}
