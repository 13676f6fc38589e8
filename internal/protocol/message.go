package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 连接操作
	MsgPing         MessageType = "ping"         // 心跳 ping
	MsgAuthenticate MessageType = "authenticate" // 令牌认证（重新绑定座位）

	// 大厅操作
	MsgJoinSession   MessageType = "joinSession"   // 加入会话
	MsgReady         MessageType = "ready"         // 切换准备状态
	MsgLeaveSession  MessageType = "leaveSession"  // 离开会话
	MsgKickPlayer    MessageType = "kickPlayer"    // 踢出玩家（房主）
	MsgReorderPlayer MessageType = "reorderPlayer" // 调整座位（房主）
	MsgStartDraft    MessageType = "startDraft"    // 开始选牌（房主）

	// 选牌操作
	MsgPickCard MessageType = "pickCard" // 选一张牌
)

// 服务端 → 客户端 消息类型
const (
	// 连接相关
	MsgConnected     MessageType = "connected"     // 连接成功
	MsgAuthenticated MessageType = "authenticated" // 身份令牌下发
	MsgPong          MessageType = "pong"          // 心跳 pong

	// 状态推送
	MsgSessionState MessageType = "sessionState" // 大厅状态（广播）
	MsgDraftState   MessageType = "draftState"   // 选牌状态（单播）

	// 错误
	MsgSessionError MessageType = "sessionError" // 大厅错误
	MsgDraftError   MessageType = "draftError"   // 选牌错误
)

// 座位移动方向
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)
