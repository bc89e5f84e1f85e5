package events

import (
	"context"

	"go.uber.org/multierr"
)

// Fanout delivers each envelope to every publisher and reports all failures.
// A failing sink does not stop the others.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, env Envelope) error {
	var err error
	for _, p := range f {
		if p == nil {
			continue
		}
		err = multierr.Append(err, p.Publish(ctx, env))
	}
	return err
}
