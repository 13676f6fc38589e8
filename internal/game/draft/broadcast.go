package draft

import (
	"github.com/palemoky/booster-draft/internal/protocol"
	"github.com/palemoky/booster-draft/internal/protocol/codec"
)

// Notifier 把消息投递到连接，实现方不得阻塞
type Notifier interface {
	Send(connID string, msg *protocol.Message)
	// Kick 发送最后一条消息后断开连接
	Kick(connID string, msg *protocol.Message)
}

type nopNotifier struct{}

func (nopNotifier) Send(string, *protocol.Message) {}
func (nopNotifier) Kick(string, *protocol.Message) {}

// broadcast 向所有在线真人推送大厅状态，选牌开始后再单独推送各自的选牌状态
func (s *Session) broadcast() {
	if s.closed {
		return
	}

	state := codec.MustNewMessage(protocol.MsgSessionState, s.sessionState())
	for _, seat := range s.seats {
		if h, ok := seat.Human(); ok && h.ConnID != "" {
			s.notifier.Send(h.ConnID, state)
		}
	}

	if s.state == StateLobby {
		return
	}
	for _, seat := range s.seats {
		if h, ok := seat.Human(); ok && h.ConnID != "" {
			s.notifier.Send(h.ConnID, codec.MustNewMessage(protocol.MsgDraftState, s.draftState(seat)))
		}
	}
}

// commit 广播并保存快照，每个成功的修改操作以此结束
func (s *Session) commit() {
	s.broadcast()
	s.persist(s)
}
