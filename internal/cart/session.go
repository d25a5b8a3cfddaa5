package cart

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ricemandi/cart-service/pkg/config"
)

var sessionSigningMethod = jwt.SigningMethodHS256

// SessionTokens issues and verifies the signed tokens that identify a cart
// session. The token subject is the session id used as the persistence key.
type SessionTokens struct {
	cfg config.SessionConfig
}

func NewSessionTokens(cfg config.SessionConfig) (*SessionTokens, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("session secret required")
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, fmt.Errorf("session issuer required")
	}
	return &SessionTokens{cfg: cfg}, nil
}

// Issue mints a token for a brand-new cart session.
func (s *SessionTokens) Issue() (token, sessionID string, err error) {
	sessionID = uuid.NewString()
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
	}
	signed, err := jwt.NewWithClaims(sessionSigningMethod, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", "", fmt.Errorf("signing session token: %w", err)
	}
	return signed, sessionID, nil
}

// Validate checks signature, expiry and issuer, returning the session id.
func (s *SessionTokens) Validate(token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("empty session token")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != sessionSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(s.cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{sessionSigningMethod.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
	)
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("session token missing subject")
	}
	return claims.Subject, nil
}
