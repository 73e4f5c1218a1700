package matchmaker

import "context"

// Repo 定义对匹配池的抽象操作
type Repo interface {
	// Enqueue 将玩家加入指定池（pool+tableSize）
	Enqueue(ctx context.Context, pool string, tableSize int, playerID string, ttlSeconds int) error
	// PopNRandom 当池内达到 N 人时，随机弹出 N 人（原子）
	PopNRandom(ctx context.Context, pool string, tableSize int, n int) ([]string, error)
	// Remove 将玩家从当前池移除（用于取消）
	Remove(ctx context.Context, playerID string) error
	// Count 返回池内人数
	Count(ctx context.Context, pool string, tableSize int) (int64, error)
	// SaveRoom 记录房间以及玩家 → 房间映射；不过期，只能由 Release 清除
	SaveRoom(ctx context.Context, room *Room) error
	// PlayerRoom 返回玩家所在房间，没有则为空
	PlayerRoom(ctx context.Context, playerID string) (string, error)
	// Release 对局结束后解除玩家 → 房间映射并删除房间，允许重新匹配
	Release(ctx context.Context, playerIDs ...string) error
}
