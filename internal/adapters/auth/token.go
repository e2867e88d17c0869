package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"semecity/internal/domain"
)

// jwtClaims carries the full session identity so request handling never
// needs a user lookup: id (subject), role, and service affiliation.
type jwtClaims struct {
	jwt.RegisteredClaims
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	ServiceID   string `json:"service_id,omitempty"`
	ServiceName string `json:"service_name,omitempty"`
}

type jwtSessions struct {
	secret []byte
}

// NewJWTSessions returns a TokenIssuer/TokenVerifier pair that signs
// session tokens with HS256 using the given secret.
func NewJWTSessions(secret string) *jwtSessions {
	return &jwtSessions{secret: []byte(secret)}
}

var _ domain.TokenIssuer = (*jwtSessions)(nil)
var _ domain.TokenVerifier = (*jwtSessions)(nil)

func (s *jwtSessions) Issue(v domain.Viewer, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   v.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		Name:        v.Name,
		Email:       v.Email,
		Role:        string(v.Role),
		ServiceID:   v.ServiceID,
		ServiceName: v.ServiceName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (s *jwtSessions) Verify(tokenString string) (domain.Viewer, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return domain.Viewer{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return domain.Viewer{}, fmt.Errorf("invalid token")
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Viewer{}, fmt.Errorf("invalid role claim %q", claims.Role)
	}
	return domain.Viewer{
		ID:          claims.Subject,
		Name:        claims.Name,
		Email:       claims.Email,
		Role:        role,
		ServiceID:   claims.ServiceID,
		ServiceName: claims.ServiceName,
	}, nil
}
