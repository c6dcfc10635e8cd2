package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "affirmations"

// TokenService signs and verifies the session cookie value.
//
// The token is an HS256 JWT whose "jti" is the server-side session id and
// whose "sub" is the user id. A valid signature only proves the cookie was
// issued by this server; whether the session is still alive is decided by
// the session store (see SessionManager.Resolve).
type TokenService struct {
	secret []byte
}

// NewTokenService returns a TokenService keyed with secret.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Claims is what a verified token says about its session.
type Claims struct {
	SessionID string
	UserID    string
	ExpiresAt time.Time
}

// Sign issues a token for the given session.
func (s *TokenService) Sign(sessionID, userID string, issuedAt, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   userID,
		Issuer:    tokenIssuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, algorithm, issuer and expiry of tokenStr.
// Passing jwt.WithValidMethods rules out "alg: none" and RS/HS confusion.
func (s *TokenService) Parse(tokenStr string) (Claims, error) {
	var rc jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		tokenStr,
		&rc,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, errors.New("auth: token expired")
		}
		return Claims{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	if rc.ID == "" || rc.Subject == "" {
		return Claims{}, errors.New("auth: token is missing session or subject")
	}

	return Claims{
		SessionID: rc.ID,
		UserID:    rc.Subject,
		ExpiresAt: rc.ExpiresAt.Time,
	}, nil
}
