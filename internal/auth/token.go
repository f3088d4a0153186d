package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gtix/helpdesk/internal/domain"
)

// TokenManager issues and validates session credentials. The credential is a
// signed HS256 JWT that is then symmetrically encrypted before it reaches the
// cookie; parsing decrypts first, then verifies the signature and expiry.
type TokenManager struct {
	jwtSecret []byte
	cryptoKey []byte
	ttl       time.Duration
}

// NewTokenManager builds a manager from the configured secrets.
func NewTokenManager(jwtSecret string, cryptoKey []byte, ttlHours int) *TokenManager {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &TokenManager{
		jwtSecret: []byte(jwtSecret),
		cryptoKey: cryptoKey,
		ttl:       time.Duration(ttlHours) * time.Hour,
	}
}

// Claims describes the JWT payload. Permissions are intentionally absent:
// they are re-fetched from the store on every request so role changes take
// effect on the next request, not the next login of a stale snapshot.
type Claims struct {
	UserID     int64           `json:"uid"`
	Email      string          `json:"email"`
	Role       domain.RoleName `json:"role"`
	AssigneeID *int64          `json:"assignee_id,omitempty"`
	jwt.RegisteredClaims
}

// TTL returns the session lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue signs and seals a session credential for the user.
func (tm *TokenManager) Issue(user *domain.User, role domain.RoleName, assigneeID *int64) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	claims := &Claims{
		UserID:     user.ID,
		Email:      user.Email,
		Role:       role,
		AssigneeID: assigneeID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	sealed, err := Encrypt(tm.cryptoKey, signed)
	if err != nil {
		return "", time.Time{}, err
	}
	return sealed, expiresAt, nil
}

// Parse unseals and validates a session credential.
func (tm *TokenManager) Parse(sealed string) (*Claims, error) {
	signed, err := Decrypt(tm.cryptoKey, sealed)
	if err != nil {
		return nil, err
	}
	parsed, err := jwt.ParseWithClaims(signed, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
