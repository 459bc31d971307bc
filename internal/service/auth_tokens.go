package service

import (
	"fmt"
	"time"

	"github.com/boddenberg/urbanhand-directory-go/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "urbanhand-directory"

// SessionClaims represents the custom claims in session tokens.
type SessionClaims struct {
	Role       domain.Role `json:"role"`
	ProviderID int64       `json:"provider_id,omitempty"`
	jwt.RegisteredClaims
}

// ============================================================
// ValidateSession: used by middleware
// ============================================================

// ValidateSession parses token and checks it was issued for role.
func (s *AuthService) ValidateSession(token string, role domain.Role) (*domain.Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(sessionIssuer))
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid or expired session"}
	}

	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, &domain.ErrUnauthorized{Message: "invalid session"}
	}
	if claims.Role != role {
		return nil, &domain.ErrUnauthorized{Message: "session not valid for this area"}
	}

	return &domain.Session{
		Role:       claims.Role,
		Subject:    claims.Subject,
		ProviderID: claims.ProviderID,
	}, nil
}

// ============================================================
// Internal JWT helpers
// ============================================================

func (s *AuthService) signSession(sess domain.Session) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Role:       sess.Role,
		ProviderID: sess.ProviderID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
			Issuer:    sessionIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
