package events

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
)

type rowInserter interface {
	InsertRows(ctx context.Context, table string, rows []any) error
}

// EventRow is one domain event as stored in the analytics table.
type EventRow struct {
	EventID    string
	EventType  string
	OccurredAt time.Time
	Payload    string
}

// Save implements bigquery.ValueSaver. The event id doubles as the insert id
// so retried inserts are deduplicated.
func (r EventRow) Save() (map[string]bigquery.Value, string, error) {
	return map[string]bigquery.Value{
		"event_id":    r.EventID,
		"event_type":  r.EventType,
		"occurred_at": r.OccurredAt,
		"payload":     r.Payload,
	}, r.EventID, nil
}

func newEventRow(env Envelope) EventRow {
	return EventRow{
		EventID:    env.EventID.String(),
		EventType:  string(env.Type),
		OccurredAt: env.OccurredAt,
		Payload:    string(env.Data),
	}
}

// BigQueryPublisher streams envelopes into an analytics table.
type BigQueryPublisher struct {
	inserter rowInserter
	table    string
}

func NewBigQueryPublisher(inserter rowInserter, table string) *BigQueryPublisher {
	return &BigQueryPublisher{inserter: inserter, table: table}
}

func (p *BigQueryPublisher) Publish(ctx context.Context, env Envelope) error {
	if err := p.inserter.InsertRows(ctx, p.table, []any{newEventRow(env)}); err != nil {
		return fmt.Errorf("insert %s into %s: %w", env.Type, p.table, err)
	}
	return nil
}
