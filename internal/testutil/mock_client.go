//go:build !production

package testutil

import (
	"sync"

	"github.com/palemoky/booster-draft/internal/protocol"
)

// SimpleClient 记录收到的消息，可在计时器回调等并发场景使用
type SimpleClient struct {
	ID string

	mu       sync.Mutex
	messages []*protocol.Message
	closed   bool
}

// NewSimpleClient 创建 SimpleClient
func NewSimpleClient(id string) *SimpleClient {
	return &SimpleClient{ID: id}
}

func (c *SimpleClient) GetID() string { return c.ID }

func (c *SimpleClient) SendMessage(msg *protocol.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

func (c *SimpleClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Closed 是否已被关闭
func (c *SimpleClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// SentMessages 返回消息副本
func (c *SimpleClient) SentMessages() []*protocol.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*protocol.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last 返回最后一条指定类型的消息
func (c *SimpleClient) Last(msgType protocol.MessageType) *protocol.Message {
	return lastOf(c.SentMessages(), msgType)
}

func lastOf(msgs []*protocol.Message, msgType protocol.MessageType) *protocol.Message {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == msgType {
			return msgs[i]
		}
	}
	return nil
}
