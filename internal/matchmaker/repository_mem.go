package matchmaker

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
)

type memRepo struct {
	mu      sync.Mutex
	pools   map[string]map[string]struct{} // key -> set(playerID)
	players map[string]string              // playerID -> key
	rooms   map[string]string              // playerID -> roomID
}

// NewMemoryRepo 单进程部署与测试用；忽略 TTL
func NewMemoryRepo() Repo {
	return &memRepo{
		pools:   make(map[string]map[string]struct{}),
		players: make(map[string]string),
		rooms:   make(map[string]string),
	}
}

func memKey(pool string, tableSize int) string {
	return fmt.Sprintf("mm:pool:%s:%d", pool, tableSize)
}

func (m *memRepo) Enqueue(ctx context.Context, pool string, tableSize int, playerID string, ttlSeconds int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := memKey(pool, tableSize)
	if old, ok := m.players[playerID]; ok && old != key {
		delete(m.pools[old], playerID)
	}
	if _, ok := m.pools[key]; !ok {
		m.pools[key] = make(map[string]struct{})
	}
	m.pools[key][playerID] = struct{}{}
	m.players[playerID] = key
	return nil
}

func (m *memRepo) PopNRandom(ctx context.Context, pool string, tableSize int, n int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := memKey(pool, tableSize)
	s, ok := m.pools[key]
	if !ok || len(s) < n {
		return []string{}, nil
	}

	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	chosen := ids[:n]
	for _, id := range chosen {
		delete(s, id)
		delete(m.players, id)
	}
	if len(s) == 0 {
		delete(m.pools, key)
	}
	return chosen, nil
}

func (m *memRepo) Remove(ctx context.Context, playerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key, ok := m.players[playerID]
	if !ok {
		return nil
	}
	if s, ok := m.pools[key]; ok {
		delete(s, playerID)
		if len(s) == 0 {
			delete(m.pools, key)
		}
	}
	delete(m.players, playerID)
	return nil
}

func (m *memRepo) Count(ctx context.Context, pool string, tableSize int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.pools[memKey(pool, tableSize)])), nil
}

func (m *memRepo) SaveRoom(ctx context.Context, room *Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range room.Players {
		m.rooms[id] = room.ID
	}
	return nil
}

func (m *memRepo) PlayerRoom(ctx context.Context, playerID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms[playerID], nil
}

func (m *memRepo) Release(ctx context.Context, playerIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range playerIDs {
		delete(m.rooms, id)
	}
	return nil
}
