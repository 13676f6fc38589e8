// Package auth 签发和校验重连令牌
package auth

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/palemoky/booster-draft/internal/apperrors"
)

const (
	issuer       = "booster-draft"
	secretLength = 32
)

// Claims 令牌声明，绑定会话和玩家名
type Claims struct {
	SessionID  string `json:"session_id"`
	PlayerName string `json:"player_name"`
	jwt.RegisteredClaims
}

// Issuer 使用 HS256 签发和校验令牌
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer 创建 Issuer；secret 为空时生成随机密钥，重启后旧令牌失效
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, secretLength)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate token secret: %w", err)
		}
	}
	return &Issuer{secret: key, ttl: ttl, now: time.Now}, nil
}

// Issue 为玩家签发令牌
func (i *Issuer) Issue(sessionID, playerName string) (string, error) {
	now := i.now()
	claims := Claims{
		SessionID:  sessionID,
		PlayerName: playerName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   playerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// Verify 校验令牌，失败统一返回 ErrUnauthenticated
func (i *Issuer) Verify(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUnauthenticated, err)
	}
	if claims.SessionID == "" || claims.PlayerName == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	return &claims, nil
}
