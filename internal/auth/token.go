package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what an API bearer token carries. The token is a
// convenience wrapper for non-browser clients; authorization still
// resolves through the referenced session row, so revoking the session
// revokes the token.
type TokenClaims struct {
	UserID    string
	SessionID string
}

// SignToken issues an HS256 token bound to a session. exp matches the
// session expiry at issue time.
func SignToken(secret, userID, sessionID string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"sid": sessionID,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken validates a bearer token and extracts its claims.
func VerifyToken(secret, tokenStr string) (TokenClaims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !tok.Valid {
		return TokenClaims{}, errors.New("invalid token")
	}
	mapc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, errors.New("invalid claims")
	}
	sub, _ := mapc["sub"].(string)
	sid, _ := mapc["sid"].(string)
	if sub == "" || sid == "" {
		return TokenClaims{}, errors.New("invalid claims")
	}
	return TokenClaims{UserID: sub, SessionID: sid}, nil
}
