package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the signed payload of a session token.
type Claims struct {
	AdminID string `json:"id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens. Tokens are never
// stored: validity is signature plus expiry.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for identity that expires after the configured TTL.
func (m *TokenManager) Issue(identity Identity) (string, error) {
	now := m.now()
	claims := Claims{
		AdminID: identity.AdminID.String(),
		Email:   identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.AdminID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify checks signature and expiry and returns the identity in the token.
func (m *TokenManager) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}

	// jwt/v4 treats a missing exp as valid; sessions must always expire.
	if claims.ExpiresAt == nil {
		return Identity{}, fmt.Errorf("%w: missing expiry", ErrInvalidToken)
	}

	adminID, err := uuid.Parse(claims.AdminID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: parse admin id: %w", ErrInvalidToken, err)
	}

	return Identity{
		AdminID: adminID,
		Email:   claims.Email,
	}, nil
}
