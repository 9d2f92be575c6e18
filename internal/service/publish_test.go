package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/vesting-service/internal/events"
	"github.com/spec-kit/vesting-service/internal/repository"
)

func TestFailedPublishIsLoggedAndClaimStands(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := newVestingFixtureOn(t, repository.NewMemoryStore(), nil, zap.New(core))
	pool := f.createPool(t, "companyName")
	f.fundTreasury(t, pool, 100)
	employee := newWalletAddress(t)
	f.enroll(t, "companyName", employee, 0, 0, 10, 100)
	require.NoError(t, f.clock.Set(10))

	f.dispatcher.err = errors.New("stream unavailable")
	result, err := f.vesting.Claim(f.ctx, employee, ClaimInput{CompanyName: "companyName"})
	require.NoError(t, err)
	assert.Equal(t, uint64(100), result.Amount)
	assert.Equal(t, uint64(100), f.walletBalance(t, employee))

	entries := logs.FilterMessage("publish event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, string(events.EventTokensClaimed), fields["event_type"])
	assert.NotEmpty(t, fields["event_id"])
	assert.Equal(t, "stream unavailable", fields["error"])
}
