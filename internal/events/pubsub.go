package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
)

const defaultPublishTimeout = 10 * time.Second

type publisher interface {
	Publish(context.Context, *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(context.Context) (string, error)
}

// PubSubPublisher sends envelopes to a Pub/Sub topic and waits for the server
// acknowledgement.
type PubSubPublisher struct {
	pub     publisher
	timeout time.Duration
}

func NewPubSubPublisher(p *gcppubsub.Publisher) *PubSubPublisher {
	return &PubSubPublisher{pub: &gcpPublisher{Publisher: p}, timeout: defaultPublishTimeout}
}

func (p *PubSubPublisher) Publish(ctx context.Context, env Envelope) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	msg := &gcppubsub.Message{
		Data: body,
		Attributes: map[string]string{
			"event_id":   env.EventID.String(),
			"event_type": string(env.Type),
		},
	}
	if _, err := p.pub.Publish(ctx, msg).Get(ctx); err != nil {
		return fmt.Errorf("publish %s: %w", env.Type, err)
	}
	return nil
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return p.Publisher.Publish(ctx, msg)
}
