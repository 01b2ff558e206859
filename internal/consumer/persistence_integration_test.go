//go:build integration

package consumer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/wellplan/internal/testsupport"
)

func TestPersistenceHandlerStoresEventOnce(t *testing.T) {
	ctx := context.Background()
	pool, cleanup := testsupport.StartPostgres(ctx, t)
	defer cleanup()

	handler := NewPersistenceHandler(pool)

	payload := json.RawMessage(`{"plan_id":"p-1","user_id":"user-1","kind":"diet"}`)
	msg := Message{
		EventType:     "plan.generated",
		UserID:        "user-1",
		SchemaID:      42,
		SchemaSubject: "plan_events-value",
		Topic:         "plan_events",
		Partition:     0,
		Offset:        5,
		Payload:       payload,
		Timestamp:     time.Now().UTC(),
	}

	require.NoError(t, handler.Handle(ctx, msg))
	require.NoError(t, handler.Handle(ctx, msg))

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM plan_event_log`).Scan(&count))
	require.Equal(t, 1, count)

	var (
		storedPayload []byte
		userID        string
	)
	require.NoError(t, pool.QueryRow(ctx, `SELECT payload, user_id FROM plan_event_log LIMIT 1`).Scan(&storedPayload, &userID))
	require.JSONEq(t, string(payload), string(storedPayload))
	require.Equal(t, "user-1", userID)
}
