package protocol

// 错误码
const (
	ErrCodeUnknown         = 1000
	ErrCodeInvalidMsg      = 1001
	ErrCodeRateLimit       = 1002 // 速率限制
	ErrCodeUnauthenticated = 1003 // 令牌无效
	ErrCodeMaintenance     = 1004 // 维护模式

	ErrCodeSessionInvalid     = 2001
	ErrCodeSessionFull        = 2002
	ErrCodeCannotStart        = 2003
	ErrCodeInsufficientCards  = 2004
	ErrCodeCatalogUnavailable = 2005
	ErrCodeKicked             = 2006

	ErrCodeDraftNotStarted  = 3001
	ErrCodeDraftFinished    = 3002
	ErrCodePlayerNotFound   = 3003
	ErrCodeAlreadyPicked    = 3004
	ErrCodeNoPackAssigned   = 3005
	ErrCodeCardNotAvailable = 3006
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:            "Unknown error",
	ErrCodeInvalidMsg:         "Invalid message",
	ErrCodeRateLimit:          "Too many requests",
	ErrCodeUnauthenticated:    "Invalid or expired token",
	ErrCodeMaintenance:        "Server is under maintenance",
	ErrCodeSessionInvalid:     "Invalid session",
	ErrCodeSessionFull:        "Session is full",
	ErrCodeCannotStart:        "Not every player is ready",
	ErrCodeInsufficientCards:  "Not enough cards in the catalog",
	ErrCodeCatalogUnavailable: "Card catalog unavailable",
	ErrCodeKicked:             "You were kicked",
	ErrCodeDraftNotStarted:    "Draft has not started",
	ErrCodeDraftFinished:      "Draft is finished",
	ErrCodePlayerNotFound:     "Player not found",
	ErrCodeAlreadyPicked:      "You already picked this round",
	ErrCodeNoPackAssigned:     "No pack assigned",
	ErrCodeCardNotAvailable:   "Card not available",
}

// IsDraftError 判断错误码是否属于选牌阶段
func IsDraftError(code int) bool {
	return code >= ErrCodeDraftNotStarted && code < 4000
}
