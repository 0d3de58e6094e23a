package session

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const tokenIssuer = "olif"

// IssueToken signs a token carrying the session id. The token identifies a
// session; it grants nothing beyond access to that session and stops
// resolving once the session is evicted.
func (m *Manager) IssueToken(sessionID string) (string, error) {
	// jwt-go checks iat against the wall clock, not m.now
	claims := jwt.StandardClaims{
		Id:       sessionID,
		Issuer:   tokenIssuer,
		IssuedAt: time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a token and returns the session id it carries
func (m *Manager) ParseToken(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid || claims.Id == "" {
		return "", fmt.Errorf("invalid session token")
	}
	if claims.Issuer != tokenIssuer {
		return "", fmt.Errorf("invalid session token issuer: %s", claims.Issuer)
	}
	return claims.Id, nil
}
