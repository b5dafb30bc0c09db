package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims represents the session token claims. CredentialVersion is the
// account's credential generation at issuance time; tokens minted before a
// password change carry a stale version and are rejected on authenticated
// paths.
type Claims struct {
	AccountID         uuid.UUID `json:"accountId"`
	Email             string    `json:"email"`
	CredentialVersion int       `json:"credentialVersion"`
	jwt.RegisteredClaims
}

// SessionService issues and validates signed session tokens
type SessionService struct {
	secret []byte
	expiry time.Duration
}

var signSessionToken = func(token *jwt.Token, secret []byte) (string, error) {
	return token.SignedString(secret)
}

// NewSessionService creates a new session token service
func NewSessionService(secret string, expiry time.Duration) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Issue generates a signed session token binding the account identity
func (s *SessionService) Issue(accountID uuid.UUID, email string, credentialVersion int) (string, error) {
	now := time.Now()
	claims := &Claims{
		AccountID:         accountID,
		Email:             email,
		CredentialVersion: credentialVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return signSessionToken(token, s.secret)
}

// Validate validates a session token and returns the claims.
// An expired token is reported distinctly from a malformed or badly
// signed one so callers can tell "session expired" from "not logged in".
func (s *SessionService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
