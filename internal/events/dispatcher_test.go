package events

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	var failures []error
	d := NewInMemoryDispatcher(func(_ Event, err error) { failures = append(failures, err) })

	var got []EventType
	d.Subscribe(EventPoolCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return errors.New("handler down")
	})
	d.Subscribe(EventPoolCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventTokensClaimed, func(context.Context, Event) error {
		t.Fatal("unrelated handler invoked")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventPoolCreated}))
	assert.Equal(t, []EventType{EventPoolCreated, EventPoolCreated}, got)
	assert.Len(t, failures, 1)
}

func TestDispatcherCatchAllAndPanics(t *testing.T) {
	var failures []error
	d := NewInMemoryDispatcher(func(_ Event, err error) { failures = append(failures, err) })

	var order []string
	d.SubscribeAll(func(_ context.Context, e Event) error {
		order = append(order, "all:"+string(e.Type))
		return nil
	})
	d.Subscribe(EventEmployeeEnrolled, func(context.Context, Event) error {
		order = append(order, "typed")
		panic("boom")
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventEmployeeEnrolled}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventMintCreated}))

	assert.Equal(t, []string{"typed", "all:" + string(EventEmployeeEnrolled), "all:" + string(EventMintCreated)}, order)
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Error(), "boom")
}

func TestStreamPublisherTrimsStream(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	p := NewStreamPublisher(client, "vesting:events", 3)
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Append(ctx, Event{ID: "e", Type: EventTokensClaimed}))
	}

	n, err := client.XLen(ctx, "vesting:events").Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, n, int64(5))
	assert.GreaterOrEqual(t, n, int64(3))

	assert.NoError(t, NewStreamPublisher(nil, "x", 0).Append(ctx, Event{}))
}
