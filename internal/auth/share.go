package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidShareToken = errors.New("invalid share token")

// Share identifies the session a read-only link grants access to. SessionToken
// pins the link to the session's current contents; clearing the session rotates
// the token and invalidates older links.
type Share struct {
	SessionID    uuid.UUID
	SessionToken uuid.UUID
	ExpiresAt    time.Time
}

func GenerateShareToken(secret []byte, sessionID, sessionToken uuid.UUID, ttl time.Duration) (string, time.Time, error) {
	if len(secret) == 0 {
		return "", time.Time{}, errors.New("share secret is not configured")
	}
	now := time.Now()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"session_id":    sessionID.String(),
		"session_token": sessionToken.String(),
		"exp":           exp.Unix(),
		"iat":           now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign share token: %w", err)
	}
	return signed, time.Unix(exp.Unix(), 0), nil
}

func ParseShareToken(secret []byte, tokenString string) (*Share, error) {
	if len(secret) == 0 {
		return nil, ErrInvalidShareToken
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShareToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidShareToken
	}
	sid, err := uuidClaim(claims, "session_id")
	if err != nil {
		return nil, err
	}
	stok, err := uuidClaim(claims, "session_token")
	if err != nil {
		return nil, err
	}

	share := &Share{SessionID: sid, SessionToken: stok}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		share.ExpiresAt = exp.Time
	}
	return share, nil
}

func uuidClaim(claims jwt.MapClaims, key string) (uuid.UUID, error) {
	raw, ok := claims[key].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: missing %s", ErrInvalidShareToken, key)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad %s", ErrInvalidShareToken, key)
	}
	return id, nil
}
