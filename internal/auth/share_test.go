package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("share-secret")

func TestShareToken_RoundTrip(t *testing.T) {
	sid, stok := uuid.New(), uuid.New()
	signed, exp, err := GenerateShareToken(testSecret, sid, stok, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	share, err := ParseShareToken(testSecret, signed)
	require.NoError(t, err)
	assert.Equal(t, sid, share.SessionID)
	assert.Equal(t, stok, share.SessionToken)
	assert.True(t, share.ExpiresAt.Equal(exp))
}

func TestShareToken_Rejects(t *testing.T) {
	sid, stok := uuid.New(), uuid.New()
	signed, _, err := GenerateShareToken(testSecret, sid, stok, time.Hour)
	require.NoError(t, err)

	expired, _, err := GenerateShareToken(testSecret, sid, stok, -time.Hour)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id":    sid.String(),
		"session_token": stok.String(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	badClaim, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"session_id": "not-a-uuid",
		"exp":        time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret []byte
		token  string
	}{
		{"wrong secret", []byte("other"), signed},
		{"expired", testSecret, expired},
		{"no expiry", testSecret, noExp},
		{"bad claim", testSecret, badClaim},
		{"garbage", testSecret, "abc.def.ghi"},
		{"no secret", nil, signed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseShareToken(tt.secret, tt.token)
			assert.True(t, errors.Is(err, ErrInvalidShareToken), "got %v", err)
		})
	}
}

func TestGenerateShareToken_RequiresSecret(t *testing.T) {
	_, _, err := GenerateShareToken(nil, uuid.New(), uuid.New(), time.Hour)
	assert.Error(t, err)
}
