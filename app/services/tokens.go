package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every session-token failure. Malformed, expired and
// badly signed tokens are deliberately indistinguishable to callers.
var ErrInvalidToken = errors.New("token is not valid")

const (
	sessionTokenTTL = time.Hour
	resetTokenTTL   = 5 * time.Minute
)

// SessionClaims carries only the owner's primary key.
type SessionClaims struct {
	OwnerID string `json:"owner_id"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens and mints password-reset
// tokens. The signing key is process-wide configuration; there is no
// rotation.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

func (s *TokenService) IssueSessionToken(ownerID string) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		OwnerID: ownerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *TokenService) VerifySessionToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || claims.OwnerID == "" {
		return "", ErrInvalidToken
	}
	return claims.OwnerID, nil
}

// IssueResetToken returns an opaque single-use token and its expiry. The
// caller persists both next to the owner record; consuming the token must
// clear them atomically with the password update.
func (s *TokenService) IssueResetToken() (string, time.Time, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, err
	}
	return hex.EncodeToString(b), time.Now().Add(resetTokenTTL), nil
}
