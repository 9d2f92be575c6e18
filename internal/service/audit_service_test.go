package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/vesting-service/internal/events"
)

func TestAuditServiceAppendsToStream(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	dispatcher := events.NewInMemoryDispatcher(nil)
	audit := NewAuditService(dispatcher, events.NewStreamPublisher(client, "vesting:events", 100), zap.NewNop())
	audit.RegisterHandlers()

	ctx := context.Background()
	employee := newWalletAddress(t)
	publishEvent(ctx, dispatcher, zap.NewNop(), events.Event{
		Type:    events.EventTokensClaimed,
		Subject: employee,
		Actor:   employee,
		Payload: events.TokensClaimedPayload{Beneficiary: employee, Amount: 100},
	})
	publishEvent(ctx, dispatcher, zap.NewNop(), events.Event{
		Type:      events.EventPoolCreated,
		Timestamp: time.Unix(1, 0),
		Payload:   events.PoolCreatedPayload{CompanyName: "companyName"},
	})

	entries, err := client.XRange(ctx, "vesting:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, string(events.EventTokensClaimed), entries[0].Values["type"])
	assert.Equal(t, string(events.EventPoolCreated), entries[1].Values["type"])
	assert.NotEmpty(t, entries[0].Values["id"])
}
