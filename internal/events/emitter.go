package events

import (
	"context"
	"time"

	"github.com/angelmondragon/shopper-backend/pkg/logger"
)

// Emitter wraps a Publisher so callers can fire events after a committed write
// without failing the write when delivery does not succeed.
type Emitter struct {
	publisher Publisher
	logg      *logger.Logger
	now       func() time.Time
}

func NewEmitter(publisher Publisher, logg *logger.Logger) *Emitter {
	if publisher == nil {
		publisher = Noop{}
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Emitter{publisher: publisher, logg: logg, now: time.Now}
}

// Emit builds and publishes the event, logging any failure.
func (e *Emitter) Emit(ctx context.Context, eventType Type, data any) {
	if e == nil {
		return
	}
	env, err := NewEnvelope(eventType, e.now(), data)
	if err != nil {
		e.logg.Error(e.logg.WithField(ctx, "event_type", string(eventType)), "build event envelope", err)
		return
	}
	if err := e.publisher.Publish(ctx, env); err != nil {
		ctx = e.logg.WithFields(ctx, map[string]any{
			"event_type": string(eventType),
			"event_id":   env.EventID.String(),
		})
		e.logg.Warn(ctx, "event publish failed: "+err.Error())
	}
}
