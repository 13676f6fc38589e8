package apperrors

import (
	"github.com/palemoky/booster-draft/internal/protocol"
)

// GameError 会话与选牌共享的业务错误
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrUnauthenticated = newError(protocol.ErrCodeUnauthenticated)

	// 大厅
	ErrSessionInvalid     = newError(protocol.ErrCodeSessionInvalid)
	ErrSessionFull        = newError(protocol.ErrCodeSessionFull)
	ErrCannotStart        = newError(protocol.ErrCodeCannotStart)
	ErrInsufficientCards  = newError(protocol.ErrCodeInsufficientCards)
	ErrCatalogUnavailable = newError(protocol.ErrCodeCatalogUnavailable)

	// 选牌
	ErrDraftNotStarted  = newError(protocol.ErrCodeDraftNotStarted)
	ErrDraftFinished    = newError(protocol.ErrCodeDraftFinished)
	ErrPlayerNotFound   = newError(protocol.ErrCodePlayerNotFound)
	ErrAlreadyPicked    = newError(protocol.ErrCodeAlreadyPicked)
	ErrNoPackAssigned   = newError(protocol.ErrCodeNoPackAssigned)
	ErrCardNotAvailable = newError(protocol.ErrCodeCardNotAvailable)
)

func newError(code int) *GameError {
	return &GameError{Code: code, Message: protocol.ErrorMessages[code]}
}
