package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/booster-draft/internal/apperrors"
)

func TestIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer("secret", time.Hour)
	require.NoError(t, err)

	token, err := issuer.Issue("k3x9a1", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "k3x9a1", claims.SessionID)
	assert.Equal(t, "alice", claims.PlayerName)
	assert.Equal(t, "alice", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	again, err := issuer.Issue("k3x9a1", "alice")
	require.NoError(t, err)
	assert.NotEqual(t, token, again)
}

func TestIssuer_RandomSecret(t *testing.T) {
	t.Parallel()

	a, err := NewIssuer("", time.Hour)
	require.NoError(t, err)
	b, err := NewIssuer("", time.Hour)
	require.NoError(t, err)

	token, err := a.Issue("k3x9a1", "alice")
	require.NoError(t, err)

	_, err = a.Verify(token)
	require.NoError(t, err)
	_, err = b.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestIssuer_Rejects(t *testing.T) {
	t.Parallel()

	issuer, err := NewIssuer("secret", time.Hour)
	require.NoError(t, err)
	valid, err := issuer.Issue("k3x9a1", "alice")
	require.NoError(t, err)

	other, err := NewIssuer("other", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue("k3x9a1", "alice")
	require.NoError(t, err)

	expiredIssuer, err := NewIssuer("secret", time.Minute)
	require.NoError(t, err)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := expiredIssuer.Issue("k3x9a1", "alice")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		SessionID:  "k3x9a1",
		PlayerName: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "booster-draft",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSession, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		PlayerName: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "booster-draft",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"tampered", valid + "x"},
		{"wrong secret", forged},
		{"expired", expired},
		{"alg none", none},
		{"missing session", noSession},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := issuer.Verify(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
		})
	}
}
