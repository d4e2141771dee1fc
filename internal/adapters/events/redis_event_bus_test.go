package events_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramveeRana/brainstroke3/internal/adapters/events"
	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
	"github.com/paramveeRana/brainstroke3/internal/domain/providers"
	redisclient "github.com/paramveeRana/brainstroke3/internal/infrastructure/clients/redis"
)

func newTestBus(t *testing.T) providers.EventBus {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bus := events.NewRedisEventBus(redisclient.NewClientFromRedis(rdb))
	t.Cleanup(func() {
		_ = bus.Close()
		_ = rdb.Close()
	})
	return bus
}

func receive(t *testing.T, ch <-chan *entities.AssessmentEvent) *entities.AssessmentEvent {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed")
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestRedisEventBus_PublishSubscribe(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	first, err := bus.Subscribe(ctx, providers.EventChannelAssessmentsCompleted)
	require.NoError(t, err)
	second, err := bus.Subscribe(ctx, providers.EventChannelAssessmentsCompleted)
	require.NoError(t, err)

	event := &entities.AssessmentEvent{
		ID:           "evt-1",
		Type:         entities.AssessmentEventCompleted,
		AssessmentID: "asm-1",
		UserID:       "user-1",
		RiskLevel:    entities.RiskLevelHigh,
		RiskScore:    58,
		Timestamp:    time.Now().UTC(),
	}
	require.NoError(t, bus.Publish(ctx, providers.EventChannelAssessmentsCompleted, event))

	for _, ch := range []<-chan *entities.AssessmentEvent{first, second} {
		got := receive(t, ch)
		assert.Equal(t, "asm-1", got.AssessmentID)
		assert.Equal(t, entities.RiskLevelHigh, got.RiskLevel)
		assert.Equal(t, 58, got.RiskScore)
	}
}

func TestRedisEventBus_ContextCancelClosesChannel(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := bus.Subscribe(ctx, providers.GetUserChannel("user-1"))
	require.NoError(t, err)
	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRedisEventBus_Unsubscribe(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()

	ch, err := bus.Subscribe(ctx, providers.EventChannelAssessmentsCompleted)
	require.NoError(t, err)
	require.NoError(t, bus.Unsubscribe(ctx, providers.EventChannelAssessmentsCompleted))

	_, ok := <-ch
	assert.False(t, ok)
}

func TestRedisEventBus_SubscribeAfterClose(t *testing.T) {
	bus := newTestBus(t)
	require.NoError(t, bus.Close())

	_, err := bus.Subscribe(context.Background(), providers.EventChannelAssessmentsCompleted)
	assert.Error(t, err)
}

func TestRedisEventBus_PublishNil(t *testing.T) {
	bus := newTestBus(t)
	assert.Error(t, bus.Publish(context.Background(), providers.EventChannelAssessmentsCompleted, nil))
}

func TestRedisEventBus_ConcurrentSubscribeSameChannel(t *testing.T) {
	bus := newTestBus(t)
	ctx := context.Background()
	channel := providers.GetUserChannel("user-1")

	const subscribers = 8
	chans := make([]<-chan *entities.AssessmentEvent, subscribers)
	var wg sync.WaitGroup
	for i := range chans {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ch, err := bus.Subscribe(ctx, channel)
			assert.NoError(t, err)
			chans[i] = ch
		}(i)
	}
	wg.Wait()

	require.NoError(t, bus.Publish(ctx, channel, &entities.AssessmentEvent{ID: "evt-1", AssessmentID: "asm-1"}))

	for _, ch := range chans {
		require.NotNil(t, ch)
		assert.Equal(t, "asm-1", receive(t, ch).AssessmentID)
		select {
		case extra := <-ch:
			t.Fatalf("duplicate delivery: %+v", extra)
		case <-time.After(50 * time.Millisecond):
		}
	}
}
