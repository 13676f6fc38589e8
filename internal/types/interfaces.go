package types

import (
	"github.com/palemoky/booster-draft/internal/protocol"
)

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	IsMaintenanceMode() bool
}

// ClientInterface 定义客户端接口
type ClientInterface interface {
	GetID() string
	SendMessage(msg *protocol.Message)
	Close()
}
