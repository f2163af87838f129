package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbelyaev/askpdf/internal/common"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestDecodeIdentity_FullClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signToken(t, jwt.MapClaims{
		"sub":      "user-17",
		"username": "alice",
		"email":    "alice@example.com",
		"exp":      exp.Unix(),
	})

	identity, expiry, err := DecodeIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, "user-17", identity.ID)
	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.True(t, expiry.Equal(exp))
}

func TestDecodeIdentity_UsernameFallsBackToSubject(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub": "user-17",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	identity, _, err := DecodeIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, "user-17", identity.Username)
}

func TestDecodeIdentity_Failures(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
		{
			name: "missing subject",
			token: signToken(t, jwt.MapClaims{
				"exp": time.Now().Add(time.Hour).Unix(),
			}),
		},
		{
			name:  "missing expiry",
			token: signToken(t, jwt.MapClaims{"sub": "user-17"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeIdentity(tt.token)
			require.ErrorIs(t, err, common.ErrClaimDecode)
		})
	}
}

func TestDecodeIdentity_ExpiredTokenStillDecodes(t *testing.T) {
	// Expiry evaluation is the caller's business; decoding is pure.
	token := signToken(t, jwt.MapClaims{
		"sub": "user-17",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	identity, expiry, err := DecodeIdentity(token)
	require.NoError(t, err)
	assert.Equal(t, "user-17", identity.ID)
	assert.True(t, expiry.Before(time.Now()))
}
