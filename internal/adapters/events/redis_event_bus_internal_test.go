package events

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramveeRana/brainstroke3/internal/domain/entities"
	redisclient "github.com/paramveeRana/brainstroke3/internal/infrastructure/clients/redis"
)

// silentRedis accepts connections and never replies
func silentRedis(t *testing.T) (string, <-chan struct{}) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	accepted := make(chan struct{}, 1)
	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
			select {
			case accepted <- struct{}{}:
			default:
			}
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, conn := range conns {
			_ = conn.Close()
		}
	})
	return ln.Addr().String(), accepted
}

func TestRedisEventBus_PendingSubscribeDoesNotBlockDelivery(t *testing.T) {
	addr, accepted := silentRedis(t)
	rdb := redis.NewClient(&redis.Options{Addr: addr, ReadTimeout: 2 * time.Second, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	bus := NewRedisEventBus(redisclient.NewClientFromRedis(rdb)).(*RedisEventBus)
	t.Cleanup(func() { bus.cancel() })

	local := make(chan *entities.AssessmentEvent, 1)
	bus.subscribers["assessments:user:user-1"] = subscriberSet{local: {}}

	subscribeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	subscribeDone := make(chan error, 1)
	go func() {
		_, err := bus.Subscribe(subscribeCtx, "assessments:user:user-2")
		subscribeDone <- err
	}()

	select {
	case <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("subscribe never reached redis")
	}

	delivered := make(chan struct{})
	go func() {
		bus.broadcast("assessments:user:user-1", &entities.AssessmentEvent{ID: "evt-1"})
		bus.removeSubscriber("assessments:user:user-1", local)
		close(delivered)
	}()

	select {
	case <-delivered:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("broadcast blocked behind a pending subscribe")
	}

	event, ok := <-local
	require.True(t, ok)
	assert.Equal(t, "evt-1", event.ID)
	_, ok = <-local
	assert.False(t, ok)

	cancel()
	assert.Error(t, <-subscribeDone)
}
