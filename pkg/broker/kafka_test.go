package broker

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// silentBroker accepts connections and never answers them.
func silentBroker(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var mu sync.Mutex
	var conns []net.Conn
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, c)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			c.Close()
		}
	})
	return ln.Addr().String()
}

func TestPublish_BoundedWhenBrokerHangs(t *testing.T) {
	p := NewProducer(&Config{
		Brokers:        []string{silentBroker(t)},
		Topic:          "sales.events",
		PublishTimeout: 100 * time.Millisecond,
	}, logger.NewNop())

	start := time.Now()
	err := p.Publish(context.Background(), "u-1", []byte(`{}`))
	elapsed := time.Since(start)

	assert.Error(t, err)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestNewProducer_Defaults(t *testing.T) {
	p := NewProducer(&Config{Brokers: []string{"k1:9092"}, Topic: "sales.events"}, logger.NewNop())

	assert.Equal(t, defaultPublishTimeout, p.timeout)
	assert.True(t, p.writer.Async)
	assert.NotNil(t, p.writer.Completion)
}

func TestComplete_LogsFailedDeliveries(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	p := NewProducer(&Config{Brokers: []string{"k1:9092"}, Topic: "sales.events"}, logger.FromZap(zap.New(core)))

	p.complete([]kafka.Message{{Key: []byte("u-1")}}, nil)
	assert.Zero(t, logs.Len())

	p.complete([]kafka.Message{{Key: []byte("u-1")}, {Key: []byte("u-2")}}, errors.New("leader not available"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "sales.events", entries[0].ContextMap()["topic"])
	assert.Equal(t, "u-2", entries[1].ContextMap()["key"])
}
