package matchmaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

var (
	ErrInvalidTableSize = errors.New("invalid tableSize")
	ErrAlreadySeated    = errors.New("player already in a room")
)

type Service struct {
	repo      Repo
	playerTTL int // seconds, 用于防止遗留队列
	log       *log.Logger
	// OnRoomReady 成桌时同步调用；返回错误时房间作废、玩家解除占用，
	// 其他人重新排队
	OnRoomReady func(*Room) error
	// Busy reports players already seated outside matchmaking. Optional.
	Busy func(playerID string) bool
}

func NewService(repo Repo, playerTTL int, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{repo: repo, playerTTL: playerTTL, log: logger}
}

// Join 入队并尝试立即成桌（随机）。若可成桌，返回房间；否则返回排队中。
func (s *Service) Join(ctx context.Context, req JoinRequest) (*Room, bool, error) {
	if req.TableSize < 2 || req.TableSize > MaxTableSize {
		return nil, false, fmt.Errorf("%w: %d (want 2..%d)", ErrInvalidTableSize, req.TableSize, MaxTableSize)
	}

	// 防止重复匹配：玩家已经在房间中
	roomID, err := s.repo.PlayerRoom(ctx, req.PlayerID)
	if err != nil {
		return nil, false, err
	}
	if roomID != "" {
		return nil, false, fmt.Errorf("%w: %s is in %s", ErrAlreadySeated, req.PlayerID, roomID)
	}
	if s.busy(req.PlayerID) {
		return nil, false, fmt.Errorf("%w: %s is playing", ErrAlreadySeated, req.PlayerID)
	}

	// 统一以 pool+tableSize 作为匹配池
	if err := s.repo.Enqueue(ctx, req.Pool, req.TableSize, req.PlayerID, s.playerTTL); err != nil {
		return nil, false, err
	}
	cnt, err := s.repo.Count(ctx, req.Pool, req.TableSize)
	if err != nil {
		return nil, false, err
	}
	if int(cnt) < req.TableSize {
		s.log.Debug("queued", "player", req.PlayerID, "pool", req.Pool, "size", req.TableSize, "waiting", cnt)
		return nil, true, nil
	}
	ids, err := s.repo.PopNRandom(ctx, req.Pool, req.TableSize, req.TableSize)
	if err != nil {
		return nil, false, err
	}
	if len(ids) < req.TableSize {
		// 并发竞争导致人数不足：放回并回退为排队状态
		for _, id := range ids {
			if err := s.repo.Enqueue(ctx, req.Pool, req.TableSize, id, s.playerTTL); err != nil {
				return nil, false, err
			}
		}
		return nil, true, nil
	}

	room := &Room{
		ID:        uuid.NewString(),
		Pool:      req.Pool,
		TableSize: req.TableSize,
		Players:   ids,
		CreatedAt: time.Now(),
	}
	if err := s.repo.SaveRoom(ctx, room); err != nil {
		return nil, false, err
	}
	s.log.Info("room ready", "room", room.ID, "pool", room.Pool, "players", room.Players)

	if s.OnRoomReady != nil {
		if err := s.OnRoomReady(room); err != nil {
			s.log.Warn("room failed", "room", room.ID, "err", err)
			if rerr := s.requeue(ctx, room, req.PlayerID); rerr != nil {
				s.log.Error("requeue", "room", room.ID, "err", rerr)
			}
			return nil, false, fmt.Errorf("start room %s: %w", room.ID, err)
		}
	}
	return room, false, nil
}

func (s *Service) busy(playerID string) bool {
	return s.Busy != nil && s.Busy(playerID)
}

// requeue 作废房间：解除全部占用，除发起者和已在对局中的玩家外放回原池
func (s *Service) requeue(ctx context.Context, room *Room, joiner string) error {
	if err := s.repo.Release(ctx, room.Players...); err != nil {
		return err
	}
	for _, id := range room.Players {
		if id == joiner || s.busy(id) {
			continue
		}
		if err := s.repo.Enqueue(ctx, room.Pool, room.TableSize, id, s.playerTTL); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Cancel(ctx context.Context, playerID string) error {
	return s.repo.Remove(ctx, playerID)
}

// Status 返回玩家当前房间（即对局）ID，不在房间时为空
func (s *Service) Status(ctx context.Context, playerID string) (string, error) {
	return s.repo.PlayerRoom(ctx, playerID)
}

// Release lets a finished table's players queue again.
func (s *Service) Release(ctx context.Context, playerIDs ...string) error {
	return s.repo.Release(ctx, playerIDs...)
}
