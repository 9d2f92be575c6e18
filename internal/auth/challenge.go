package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/vesting-service/internal/domain"
)

const challengeKeyPrefix = "vesting:challenge:"

// ChallengeStore keeps outstanding login nonces in Redis until they are consumed or expire.
type ChallengeStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewChallengeStore builds a store.
func NewChallengeStore(client *redis.Client, ttl time.Duration) *ChallengeStore {
	return &ChallengeStore{client: client, ttl: ttl, now: time.Now}
}

// Issue creates a fresh nonce for addr, replacing any outstanding one.
func (s *ChallengeStore) Issue(ctx context.Context, addr domain.Address) (*domain.Challenge, error) {
	challenge := &domain.Challenge{
		Address:   addr,
		Nonce:     uuid.NewString(),
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.client.Set(ctx, challengeKey(addr), challenge.Nonce, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store challenge: %w", err)
	}
	return challenge, nil
}

// Consume atomically removes the nonce for addr. A nonce can be consumed once.
func (s *ChallengeStore) Consume(ctx context.Context, addr domain.Address, nonce string) (*domain.Challenge, error) {
	stored, err := s.client.GetDel(ctx, challengeKey(addr)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrChallengeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load challenge: %w", err)
	}
	if stored != nonce {
		return nil, domain.ErrChallengeNotFound
	}
	return &domain.Challenge{Address: addr, Nonce: nonce}, nil
}

func challengeKey(addr domain.Address) string {
	return challengeKeyPrefix + addr.String()
}
