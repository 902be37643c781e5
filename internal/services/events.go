package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/TajwarSaiyeed/laptop-zone-server/internal/interfaces"
)

// publisher emits domain events best effort. A broker failure is logged and
// never fails the state change that produced the event.
type publisher struct {
	producer interfaces.ProducerHandler
	log      *slog.Logger
}

func (p publisher) publish(ctx context.Context, key string, event any) {
	if p.producer == nil {
		return
	}
	body, err := json.Marshal(event)
	if err != nil {
		p.log.Error("encode event", "key", key, "err", err)
		return
	}
	if err := p.producer.PublishMessage(ctx, []byte(key), body); err != nil {
		p.log.Warn("publish event", "key", key, "err", err)
	}
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
