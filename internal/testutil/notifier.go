//go:build !production

package testutil

import (
	"encoding/json"
	"sync"

	"github.com/palemoky/booster-draft/internal/protocol"
)

// RecordingNotifier 按连接记录推送的消息
type RecordingNotifier struct {
	mu       sync.Mutex
	messages map[string][]*protocol.Message
	kicked   []string
}

// NewRecordingNotifier 创建 RecordingNotifier
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{messages: make(map[string][]*protocol.Message)}
}

func (n *RecordingNotifier) Send(connID string, msg *protocol.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages[connID] = append(n.messages[connID], msg)
}

func (n *RecordingNotifier) Kick(connID string, msg *protocol.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages[connID] = append(n.messages[connID], msg)
	n.kicked = append(n.kicked, connID)
}

// Messages 某个连接收到的消息
func (n *RecordingNotifier) Messages(connID string) []*protocol.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*protocol.Message, len(n.messages[connID]))
	copy(out, n.messages[connID])
	return out
}

// Kicked 被断开的连接
func (n *RecordingNotifier) Kicked() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.kicked))
	copy(out, n.kicked)
	return out
}

// Last 某个连接最后一条指定类型的消息
func (n *RecordingNotifier) Last(connID string, msgType protocol.MessageType) *protocol.Message {
	return lastOf(n.Messages(connID), msgType)
}

// LastSessionState 某个连接最后收到的大厅状态
func (n *RecordingNotifier) LastSessionState(connID string) *protocol.SessionStatePayload {
	return decodeLast[protocol.SessionStatePayload](n.Last(connID, protocol.MsgSessionState))
}

// LastDraftState 某个连接最后收到的选牌状态
func (n *RecordingNotifier) LastDraftState(connID string) *protocol.DraftStatePayload {
	return decodeLast[protocol.DraftStatePayload](n.Last(connID, protocol.MsgDraftState))
}

func decodeLast[T any](msg *protocol.Message) *T {
	if msg == nil {
		return nil
	}
	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil
	}
	return &payload
}
