package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// SessionRefPayload 只携带会话 ID 的请求（ready/leaveSession/startDraft）
type SessionRefPayload struct {
	SessionID string `json:"session_id"`
}

// JoinSessionPayload 加入会话请求
type JoinSessionPayload struct {
	SessionID  string `json:"session_id"`
	PlayerName string `json:"player_name"`
}

// KickPlayerPayload 踢人请求
type KickPlayerPayload struct {
	SessionID  string `json:"session_id"`
	PlayerName string `json:"player_name"`
}

// ReorderPlayerPayload 调整座位请求
type ReorderPlayerPayload struct {
	SessionID  string `json:"session_id"`
	PlayerName string `json:"player_name"`
	Direction  string `json:"direction"` // up/down
}

// PickCardPayload 选牌请求
type PickCardPayload struct {
	SessionID string `json:"session_id"`
	CardID    int    `json:"card_id"` // 牌在当前牌包中的位置
}

// AuthenticatePayload 令牌认证请求
type AuthenticatePayload struct {
	Token string `json:"token"`
}

// --- 服务端响应 Payloads ---

// ConnectedPayload 连接成功响应
type ConnectedPayload struct {
	ConnectionID string `json:"connection_id"`
}

// AuthenticatedPayload 身份令牌
type AuthenticatedPayload struct {
	Token      string `json:"token"`
	SessionID  string `json:"session_id"`
	PlayerName string `json:"player_name"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// PlayerInfo 大厅中的座位信息
type PlayerInfo struct {
	Name         string `json:"name"`
	Ready        bool   `json:"ready"`
	Connected    bool   `json:"connected"`
	IsOwner      bool   `json:"isOwner"`
	Bot          bool   `json:"bot"`
	Disconnected *int   `json:"disconnected"` // 断线宽限剩余秒数，未断线为 null
}

// SessionStatePayload 大厅状态
type SessionStatePayload struct {
	SessionID string       `json:"session_id"`
	Owner     *string      `json:"owner"`
	Players   []PlayerInfo `json:"players"`
	CanStart  bool         `json:"canStart"`
	Started   bool         `json:"started"`
}

// CardInfo 牌包中的一张牌
type CardInfo struct {
	ID   int    `json:"id"` // 牌包内位置
	Name string `json:"name"`
}

// PickInfo 已选的一张牌
type PickInfo struct {
	ID         int    `json:"id"` // 在来源牌包中的位置
	Name       string `json:"name"`
	PackNumber int    `json:"packNumber"`
	PickNumber int    `json:"pickNumber"`
}

// DraftStatePayload 选牌状态（每个座位单独推送）
type DraftStatePayload struct {
	CurrentRound     int        `json:"currentRound"`
	CurrentPick      int        `json:"currentPick"`
	TotalRounds      int        `json:"totalRounds"`
	PackSize         int        `json:"packSize"`
	DraftFinished    bool       `json:"draftFinished"`
	Pack             []CardInfo `json:"pack"`
	Picks            []PickInfo `json:"picks"`
	WaitingForOthers bool       `json:"waitingForOthers"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// --- HTTP ---

// CreateSessionResponse POST /sessions 响应
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// SessionSummary GET /sessions 列表项
type SessionSummary struct {
	SessionID  string `json:"session_id"`
	State      string `json:"state"`
	Humans     int    `json:"humans"`
	Connected  int    `json:"connected"`
	MaxPlayers int    `json:"max_players"`
	CreatedAt  int64  `json:"created_at"`
}

// CatalogResponse GET /catalog 响应
type CatalogResponse struct {
	Count int      `json:"count"`
	Cards []string `json:"cards"`
}
