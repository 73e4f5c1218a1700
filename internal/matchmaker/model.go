package matchmaker

import "time"

// JoinRequest 前端提交的匹配请求
type JoinRequest struct {
	PlayerID  string `json:"playerId" binding:"required"`
	Pool      string `json:"pool" binding:"required"`      // 例如 "cash-10-20"
	TableSize int    `json:"tableSize" binding:"required"` // 2..9
}

// JoinResponse 返回是否已成桌；若已成桌则给出房间信息。房间 ID 即对局 ID
type JoinResponse struct {
	Queued    bool     `json:"queued"`
	GameID    string   `json:"gameId,omitempty"`
	Players   []string `json:"players,omitempty"`
	Pool      string   `json:"pool"`
	TableSize int      `json:"tableSize"`
}

// CancelRequest 取消匹配
type CancelRequest struct {
	PlayerID string `json:"playerId" binding:"required"`
}

// Room 组桌结果
type Room struct {
	ID        string    `json:"id"`
	Pool      string    `json:"pool"`
	TableSize int       `json:"tableSize"`
	Players   []string  `json:"players"`
	CreatedAt time.Time `json:"createdAt"`
}

// MaxTableSize is the most players one deck can serve.
const MaxTableSize = 9
