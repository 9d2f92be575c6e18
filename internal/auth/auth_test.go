package auth

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/vesting-service/internal/domain"
	apperrors "github.com/spec-kit/vesting-service/pkg/util/errorutil"
)

func newKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return key
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 10, "program")
	signer := AddressOf(newKey(t))

	token, exp, err := tm.GenerateToken(signer)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	got, err := claims.Signer()
	require.NoError(t, err)
	assert.Equal(t, signer, got)

	_, err = NewTokenManager("other", 10, "program").ParseToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	tm := NewTokenManager("secret", 1, "program")
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := tm.GenerateToken(AddressOf(newKey(t)))
	require.NoError(t, err)
	tm.now = time.Now
	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenIsBoundToProgram(t *testing.T) {
	token, _, err := NewTokenManager("secret", 10, "program-a").GenerateToken(AddressOf(newKey(t)))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", 10, "program-b").ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
}

func TestVerifySignature(t *testing.T) {
	key := newKey(t)
	addr := AddressOf(key)
	msg := domain.Challenge{Nonce: "abc"}.LoginMessage()

	assert.NoError(t, VerifySignature(addr, msg, Sign(key, msg)))
	assert.ErrorIs(t, VerifySignature(addr, []byte("vesting-login:other"), Sign(key, msg)), domain.ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature(AddressOf(newKey(t)), msg, Sign(key, msg)), domain.ErrInvalidSignature)
	assert.ErrorIs(t, VerifySignature(addr, msg, "not-base58-0OIl"), domain.ErrInvalidSignature)
}

func TestChallengeStoreConsumesOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	store := NewChallengeStore(client, time.Minute)
	addr := AddressOf(newKey(t))

	first, err := store.Issue(ctx, addr)
	require.NoError(t, err)
	second, err := store.Issue(ctx, addr)
	require.NoError(t, err)
	assert.NotEqual(t, first.Nonce, second.Nonce)

	_, err = store.Consume(ctx, addr, first.Nonce)
	assert.ErrorIs(t, err, domain.ErrChallengeNotFound)

	second, err = store.Issue(ctx, addr)
	require.NoError(t, err)
	got, err := store.Consume(ctx, addr, second.Nonce)
	require.NoError(t, err)
	assert.Equal(t, second.Nonce, got.Nonce)

	_, err = store.Consume(ctx, addr, second.Nonce)
	assert.ErrorIs(t, err, domain.ErrChallengeNotFound)
}

func TestMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 10, "program")
	signer := AddressOf(newKey(t))
	token, _, err := tm.GenerateToken(signer)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/whoami", NewAuthMiddleware(tm).Handle, func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(principal.Address.String())
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
