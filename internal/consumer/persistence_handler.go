package consumer

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the subset of *pgxpool.Pool the handler needs.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PersistenceHandler writes consumed plan events into Postgres for auditing.
type PersistenceHandler struct {
	db Execer
}

// NewPersistenceHandler constructs a handler backed by the provided pool.
func NewPersistenceHandler(db Execer) *PersistenceHandler {
	return &PersistenceHandler{db: db}
}

// Handle stores the event in plan_event_log. Redelivered records are ignored.
func (h *PersistenceHandler) Handle(ctx context.Context, msg Message) error {
	receivedAt := msg.Timestamp
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	_, err := h.db.Exec(ctx,
		`INSERT INTO plan_event_log (event_type, user_id, schema_id, schema_subject, topic, partition, record_offset, payload, received_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
         ON CONFLICT (topic, partition, record_offset) DO NOTHING`,
		msg.EventType,
		msg.UserID,
		msg.SchemaID,
		msg.SchemaSubject,
		msg.Topic,
		msg.Partition,
		msg.Offset,
		[]byte(msg.Payload),
		receivedAt,
	)
	return err
}
