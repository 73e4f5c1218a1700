package matchmaker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	rdb *redis.Client
}

func NewRedisRepo(rdb *redis.Client) Repo {
	return &redisRepo{rdb: rdb}
}

// key 约定：
//
//	set: mm:pool:{pool}:{tableSize}   -> Set(playerID,...)
//	kv : mm:player:{playerID}         -> "pool:tableSize"，取消时定位池，带 TTL 避免遗留
//	kv : mm:room:{roomID}             -> Room JSON，无 TTL
//	kv : mm:playerRoom:{playerID}     -> roomID，无 TTL，对局结束时 Release
func poolKey(pool string, tableSize int) string {
	return fmt.Sprintf("mm:pool:%s:%d", pool, tableSize)
}
func playerKey(id string) string {
	return fmt.Sprintf("mm:player:%s", id)
}
func roomKey(id string) string {
	return fmt.Sprintf("mm:room:%s", id)
}
func playerRoomKey(id string) string {
	return fmt.Sprintf("mm:playerRoom:%s", id)
}

// KEYS[1] = playerKey, KEYS[2] = poolKey, ARGV[1] = playerID
var removeScript = redis.NewScript(`
redis.call("DEL", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[1])
if redis.call("SCARD", KEYS[2]) == 0 then
    redis.call("DEL", KEYS[2])
end
return 1
`)

func (r *redisRepo) Enqueue(ctx context.Context, pool string, tableSize int, playerID string, ttlSeconds int) error {
	// 换池时先离开旧池
	if err := r.Remove(ctx, playerID); err != nil {
		return err
	}
	p := r.rdb.Pipeline()
	p.SAdd(ctx, poolKey(pool, tableSize), playerID)
	p.Set(ctx, playerKey(playerID), fmt.Sprintf("%s:%d", pool, tableSize), time.Duration(ttlSeconds)*time.Second)
	_, err := p.Exec(ctx)
	return err
}

func (r *redisRepo) PopNRandom(ctx context.Context, pool string, tableSize int, n int) ([]string, error) {
	// SPOP COUNT 一次随机弹出 n 个元素并从集合删除（原子）
	res, err := r.rdb.SPopN(ctx, poolKey(pool, tableSize), int64(n)).Result()
	if err != nil {
		return nil, err
	}
	if len(res) > 0 {
		p := r.rdb.Pipeline()
		for _, id := range res {
			p.Del(ctx, playerKey(id))
		}
		if _, err := p.Exec(ctx); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (r *redisRepo) Remove(ctx context.Context, playerID string) error {
	kv, err := r.rdb.Get(ctx, playerKey(playerID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	// "pool:tableSize"，pool 本身可能含冒号，从右边拆
	i := strings.LastIndex(kv, ":")
	size, convErr := strconv.Atoi(kv[i+1:])
	if i < 0 || convErr != nil {
		return r.rdb.Del(ctx, playerKey(playerID)).Err()
	}
	keys := []string{playerKey(playerID), poolKey(kv[:i], size)}
	return removeScript.Run(ctx, r.rdb, keys, playerID).Err()
}

func (r *redisRepo) Count(ctx context.Context, pool string, tableSize int) (int64, error) {
	return r.rdb.SCard(ctx, poolKey(pool, tableSize)).Result()
}

// SaveRoom 不设 TTL，只由 Release 清除
func (r *redisRepo) SaveRoom(ctx context.Context, room *Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	p := r.rdb.Pipeline()
	p.Set(ctx, roomKey(room.ID), data, 0)
	for _, id := range room.Players {
		p.Set(ctx, playerRoomKey(id), room.ID, 0)
	}
	_, err = p.Exec(ctx)
	return err
}

func (r *redisRepo) PlayerRoom(ctx context.Context, playerID string) (string, error) {
	val, err := r.rdb.Get(ctx, playerRoomKey(playerID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (r *redisRepo) Release(ctx context.Context, playerIDs ...string) error {
	if len(playerIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, 2*len(playerIDs))
	for _, id := range playerIDs {
		keys = append(keys, playerRoomKey(id))
		roomID, err := r.PlayerRoom(ctx, id)
		if err != nil {
			return err
		}
		if roomID != "" {
			keys = append(keys, roomKey(roomID))
		}
	}
	return r.rdb.Del(ctx, keys...).Err()
}

// Room 读取已保存的房间，测试与排查用
func (r *redisRepo) Room(ctx context.Context, roomID string) (*Room, error) {
	data, err := r.rdb.Get(ctx, roomKey(roomID)).Bytes()
	if err != nil {
		return nil, err
	}
	var room Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}
