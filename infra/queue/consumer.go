package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"time"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/interfaces"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
)

type KafkaConsumer struct {
	Reader      *kafka.Reader
	Handler     interfaces.ConsumerHandler
	ServiceName string
}

func NewKafkaConsumer(broker, topic, groupID, username, password string, handler interfaces.ConsumerHandler) *KafkaConsumer {
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
	if username != "" {
		dialer.TLS = &tls.Config{}
		dialer.SASLMechanism = plain.Mechanism{
			Username: username,
			Password: password,
		}
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})

	return &KafkaConsumer{
		Reader:      reader,
		Handler:     handler,
		ServiceName: "settlement",
	}
}

// Listen reads until ctx is cancelled. Offsets are committed once the
// handler returns, error or not; the handler owns its retry policy. A message
// interrupted by shutdown is left uncommitted and redelivered on restart.
func (kc *KafkaConsumer) Listen(ctx context.Context) {
	log := slog.With("consumer", kc.ServiceName)
	for {
		msg, err := kc.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message", "err", err)
			time.Sleep(time.Second)
			continue
		}

		log.Debug("received message", "key", string(msg.Key), "offset", msg.Offset)

		if err := kc.Handler.HandleMessage(ctx, msg.Value); err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped mid message", "offset", msg.Offset)
				return
			}
			log.Error("handle message", "key", string(msg.Key), "err", err)
		}
		if err := kc.Reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", "offset", msg.Offset, "err", err)
		}
	}
}

func (kc *KafkaConsumer) Close() error {
	return kc.Reader.Close()
}
