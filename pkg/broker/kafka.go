package broker

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-dashboard/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const defaultPublishTimeout = 2 * time.Second

type Config struct {
	Brokers []string
	Topic   string
	// PublishTimeout bounds the partition lookup done before a message is
	// queued. Zero means two seconds.
	PublishTimeout time.Duration
}

// KafkaProducer queues messages and delivers them in the background.
// Delivery failures are logged, never returned to the publisher.
type KafkaProducer struct {
	writer  *kafka.Writer
	timeout time.Duration
	logger  logger.ZapLogger
}

func NewProducer(cfg *Config, log logger.ZapLogger) *KafkaProducer {
	p := &KafkaProducer{
		timeout: cfg.PublishTimeout,
		logger:  log,
	}
	if p.timeout <= 0 {
		p.timeout = defaultPublishTimeout
	}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		MaxAttempts:  3,
		WriteTimeout: 5 * time.Second,
		Async:        true,
		Completion:   p.complete,
	}
	return p
}

// Publish queues one message; messages with the same key keep their order.
func (p *KafkaProducer) Publish(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *KafkaProducer) complete(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, m := range messages {
		p.logger.Error("failed to deliver kafka message",
			zap.String("topic", p.writer.Topic),
			zap.ByteString("key", m.Key),
			zap.Error(err),
		)
	}
}

// Close flushes queued messages.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
