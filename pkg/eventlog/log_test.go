package eventlog

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartNewLog(t *testing.T) {
	t.Run("rejects unknown bucket size", func(t *testing.T) {
		_, err := StartNewLog(nil, "orders", "fortnight")
		assert.ErrorIs(t, err, ErrUnknownBucketSize)
	})

	t.Run("publishes Started on the given bus", func(t *testing.T) {
		bus := NewBus()
		var got []DomainEvent
		bus.Subscribe(func(e DomainEvent) { got = append(got, e) })

		log, err := StartNewLog(bus, "orders", "hourly")
		require.NoError(t, err)
		assert.Equal(t, BucketHour, log.BucketSize())
		require.Len(t, got, 1)
		started, ok := got[0].(Started)
		require.True(t, ok)
		assert.Equal(t, "orders", started.Name)
		assert.Equal(t, BucketHour, started.BucketSize)
	})

	t.Run("nil bus is fine", func(t *testing.T) {
		log, err := StartNewLog(nil, "orders", "day")
		require.NoError(t, err)
		_, err = log.AppendMessage("hello", "INFO")
		assert.NoError(t, err)
	})
}

func TestLogAppendMessage(t *testing.T) {
	bus := NewBus()
	log, err := StartNewLog(bus, "orders", "second")
	require.NoError(t, err)

	var messages []MessageLogged
	bus.Subscribe(func(e DomainEvent) {
		if ml, ok := e.(MessageLogged); ok {
			messages = append(messages, ml)
		}
	})

	evt, err := log.AppendMessage("order placed", "INFO")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, evt.EventID, messages[0].EventID)
	assert.Equal(t, "order placed", evt.Message)
	assert.Contains(t, evt.EntityID, "orders_")
}

type fakeStore struct {
	mu   sync.Mutex
	seen []MessageLogged
}

func (s *fakeStore) Append(_ context.Context, event MessageLogged) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, event)
	return nil
}

func TestSubscribeStoresOnlyMessageLogged(t *testing.T) {
	bus := NewBus()
	store := &fakeStore{}
	Subscribe(bus, store, nil)

	log, err := StartNewLog(bus, "orders", "second")
	require.NoError(t, err)
	_, err = log.AppendMessage("first", "INFO")
	require.NoError(t, err)

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.seen, 1)
	assert.Equal(t, "first", store.seen[0].Message)
}

func TestLoggerSeverityMethodsAllRecordInfo(t *testing.T) {
	bus := NewBus()
	log, err := StartNewLog(bus, "app", "minute")
	require.NoError(t, err)
	logger := NewLogger(log)

	var levels []string
	bus.Subscribe(func(e DomainEvent) {
		if ml, ok := e.(MessageLogged); ok {
			levels = append(levels, ml.Level)
		}
	})

	_, err = logger.Debug("d")
	require.NoError(t, err)
	_, err = logger.Warning("w")
	require.NoError(t, err)
	_, err = logger.Error("e")
	require.NoError(t, err)
	_, err = logger.Critical("c")
	require.NoError(t, err)
	_, err = logger.Info("i")
	require.NoError(t, err)

	require.Len(t, levels, 5)
	for _, lvl := range levels {
		assert.Equal(t, "INFO", lvl)
	}
}
