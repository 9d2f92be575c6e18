package service

import (
	"context"
	"time"

	"github.com/spec-kit/vesting-service/internal/auth"
	"github.com/spec-kit/vesting-service/internal/config"
	"github.com/spec-kit/vesting-service/internal/domain"
)

// AuthService runs the challenge/response login of wallet signers.
type AuthService struct {
	challenges *auth.ChallengeStore
	tokenMgr   *auth.TokenManager
}

// AuthDependencies encapsulates requirements for auth service.
type AuthDependencies struct {
	Challenges *auth.ChallengeStore
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		challenges: deps.Challenges,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes, cfg.Vesting.ProgramID),
	}
}

// Challenge issues a nonce the wallet at addr must sign.
func (s *AuthService) Challenge(ctx context.Context, addr domain.Address) (*domain.Challenge, error) {
	return s.challenges.Issue(ctx, addr)
}

// Verify consumes the nonce and, if the signature over its login message is
// valid for addr, returns an access token naming addr as signer.
func (s *AuthService) Verify(ctx context.Context, addr domain.Address, nonce, signature string) (string, time.Time, error) {
	challenge, err := s.challenges.Consume(ctx, addr, nonce)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := auth.VerifySignature(addr, challenge.LoginMessage(), signature); err != nil {
		return "", time.Time{}, err
	}
	return s.tokenMgr.GenerateToken(addr)
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
