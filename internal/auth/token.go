package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/vesting-service/internal/domain"
)

// TokenIssuer names this service in the iss claim.
const TokenIssuer = "vesting-service"

// TokenManager issues and validates signer session tokens. Tokens are bound to
// one program id through the audience claim, so a session for one deployment is
// useless against another.
type TokenManager struct {
	secret   []byte
	ttl      time.Duration
	audience string
	now      func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int, programID string) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{
		secret:   []byte(secret),
		ttl:      time.Duration(ttlMinutes) * time.Minute,
		audience: programID,
		now:      time.Now,
	}
}

// Claims describes JWT payload. The subject is the signer's base58 address.
type Claims struct {
	jwt.RegisteredClaims
}

// Signer decodes the subject into an address.
func (c *Claims) Signer() (domain.Address, error) {
	return domain.ParseAddress(c.Subject)
}

// GenerateToken builds and signs a JWT for the signer address.
func (tm *TokenManager) GenerateToken(signer domain.Address) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    TokenIssuer,
			Subject:   signer.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	if tm.audience != "" {
		claims.Audience = jwt.ClaimStrings{tm.audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken validates signature, issuer, audience and expiry, and returns the claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	}
	if tm.audience != "" {
		opts = append(opts, jwt.WithAudience(tm.audience))
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, opts...); err != nil {
		return nil, err
	}
	return claims, nil
}
