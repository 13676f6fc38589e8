package codec

import (
	"encoding/json"

	"github.com/palemoky/booster-draft/internal/protocol"
)

// NewMessage 创建一个新消息
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	var data json.RawMessage
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return &protocol.Message{
		Type:    msgType,
		Payload: data,
	}, nil
}

// MustNewMessage 创建消息，失败时 panic
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Encode 将消息编码为 JSON 字节
func Encode(msg *protocol.Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := json.NewEncoder(buf).Encode(msg); err != nil {
		return nil, err
	}
	// Encoder 会追加换行
	data := buf.Bytes()
	out := make([]byte, len(data)-1)
	copy(out, data[:len(data)-1])
	return out, nil
}

// Decode 从 JSON 字节解码消息
func Decode(data []byte) (*protocol.Message, error) {
	var msg protocol.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// DecodeInto 解码到调用方提供的消息（配合消息池使用）
func DecodeInto(data []byte, msg *protocol.Message) error {
	return json.Unmarshal(data, msg)
}

// ParsePayload 解析消息的 Payload 到指定类型
func ParsePayload[T any](msg *protocol.Message) (*T, error) {
	var payload T
	if len(msg.Payload) == 0 {
		return &payload, nil
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// NewErrorMessage 创建错误消息，类型由错误码决定
func NewErrorMessage(code int) *protocol.Message {
	return NewErrorMessageWithText(code, protocol.ErrorMessages[code])
}

// NewErrorMessageWithText 创建带自定义文本的错误消息
func NewErrorMessageWithText(code int, text string) *protocol.Message {
	msgType := protocol.MsgSessionError
	if protocol.IsDraftError(code) {
		msgType = protocol.MsgDraftError
	}
	return newErrorMessage(msgType, code, text)
}

// NewDraftErrorMessage 选牌请求的错误，不论错误码都以 draftError 回复
func NewDraftErrorMessage(code int) *protocol.Message {
	return newErrorMessage(protocol.MsgDraftError, code, protocol.ErrorMessages[code])
}

func newErrorMessage(msgType protocol.MessageType, code int, text string) *protocol.Message {
	msg, _ := NewMessage(msgType, protocol.ErrorPayload{
		Code:    code,
		Message: text,
	})
	return msg
}
