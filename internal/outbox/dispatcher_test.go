package outbox

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"example.com/wellplan/internal/events"
)

type stubProducer struct {
	mu     sync.Mutex
	err    error
	writes []writtenBatch
}

type writtenBatch struct {
	topic    string
	messages []kafka.Message
}

func (s *stubProducer) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	copied := make([]kafka.Message, len(msgs))
	copy(copied, msgs)
	s.writes = append(s.writes, writtenBatch{topic: topic, messages: copied})
	return nil
}

type stubRegistry struct {
	mu    sync.Mutex
	id    int
	err   error
	calls []schemaCall
}

type schemaCall struct {
	subject string
	schema  string
}

func (s *stubRegistry) EnsureSchema(ctx context.Context, subject string, schema string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, schemaCall{subject: subject, schema: schema})
	if s.err != nil {
		return 0, s.err
	}
	if s.id == 0 {
		s.id = 1
	}
	return s.id, nil
}

func newTestDispatcher(producer messageWriter, registry schemaRegistrar) *Dispatcher {
	return NewDispatcher(nil, producer, registry, time.Second, 10, WithLogger(log.New(io.Discard, "", 0)))
}

func testMessage(t *testing.T, id int64, eventType, userID string) Message {
	t.Helper()

	meta, ok := events.Catalog[eventType]
	if !ok {
		meta = events.Metadata{Topic: "plan_events", SchemaSubject: "plan_events-unknown-value"}
	}
	payload, err := json.Marshal(map[string]any{"plan_id": "p-1", "user_id": userID})
	require.NoError(t, err)

	return Message{
		EventID:       id,
		AggregateType: "plan",
		AggregateID:   "p-1",
		EventType:     eventType,
		Topic:         meta.Topic,
		SchemaSubject: meta.SchemaSubject,
		PartitionKey:  userID,
		Payload:       payload,
	}
}

func TestEncodeWireFormat(t *testing.T) {
	frame := encodeWireFormat(258, []byte(`{"a":1}`))

	require.Equal(t, byte(0), frame[0])
	require.Equal(t, uint32(258), binary.BigEndian.Uint32(frame[1:5]))
	require.Equal(t, `{"a":1}`, string(frame[5:]))
}

func TestDeliverGroupsByTopicAndSetsHeaders(t *testing.T) {
	producer := &stubProducer{}
	registry := &stubRegistry{id: 42}
	d := newTestDispatcher(producer, registry)

	msgs := []Message{
		testMessage(t, 1, events.PlanGeneratedType, "user-1"),
		testMessage(t, 2, events.FeedbackSubmittedType, "user-1"),
		testMessage(t, 3, events.PlanDeactivatedType, "user-2"),
	}
	require.NoError(t, d.deliver(context.Background(), msgs))

	require.Len(t, producer.writes, 2)
	require.Equal(t, "plan_events", producer.writes[0].topic)
	require.Len(t, producer.writes[0].messages, 2)
	require.Equal(t, "plan_feedback", producer.writes[1].topic)

	first := producer.writes[0].messages[0]
	require.Equal(t, "user-1", string(first.Key))
	headers := map[string]string{}
	for _, h := range first.Headers {
		headers[h.Key] = string(h.Value)
	}
	require.Equal(t, events.PlanGeneratedType, headers["event_type"])
	require.Equal(t, "plan_events-generated-value", headers["schema_subject"])
	require.Equal(t, "user-1", headers["user_id"])
	require.Equal(t, uint32(42), binary.BigEndian.Uint32(first.Value[1:5]))
}

func TestDeliverCachesSchemaIDs(t *testing.T) {
	producer := &stubProducer{}
	registry := &stubRegistry{id: 21}
	d := newTestDispatcher(producer, registry)

	msgs := []Message{
		testMessage(t, 1, events.PlanGeneratedType, "user-1"),
		testMessage(t, 2, events.PlanGeneratedType, "user-2"),
	}
	require.NoError(t, d.deliver(context.Background(), msgs))
	require.NoError(t, d.deliver(context.Background(), msgs[:1]))

	require.Len(t, registry.calls, 1, "schema registry should be invoked once due to cache")
}

func TestDeliverRejectsUnknownEventType(t *testing.T) {
	producer := &stubProducer{}
	registry := &stubRegistry{}
	d := newTestDispatcher(producer, registry)

	err := d.deliver(context.Background(), []Message{testMessage(t, 1, "plan.unknown", "user-1")})
	require.ErrorContains(t, err, "no schema metadata for event_type=plan.unknown")
	require.Empty(t, producer.writes)
	require.Empty(t, registry.calls)
}

func TestDeliverPropagatesWriteErrors(t *testing.T) {
	producer := &stubProducer{err: errors.New("kafka write failed")}
	d := newTestDispatcher(producer, &stubRegistry{})

	err := d.deliver(context.Background(), []Message{testMessage(t, 1, events.PlanGeneratedType, "user-1")})
	require.ErrorContains(t, err, "kafka write failed")
}

func TestBackoffDelayCapsAtOneHour(t *testing.T) {
	m := NewDLQManager(nil, 3, time.Minute, log.New(io.Discard, "", 0))

	require.Equal(t, time.Minute, m.backoffDelay(1))
	require.Equal(t, 4*time.Minute, m.backoffDelay(3))
	require.Equal(t, time.Hour, m.backoffDelay(8))
	require.Equal(t, time.Hour, m.backoffDelay(64))
}

func TestSchemaRegistryRegistersMissingSubject(t *testing.T) {
	var registered string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error_code":40401}`))
		case http.MethodPost:
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			registered = body["schemaType"]
			_, _ = w.Write([]byte(`{"id":7}`))
		}
	}))
	defer srv.Close()

	client := NewSchemaRegistryClient(srv.URL + "/")
	id, err := client.EnsureSchema(context.Background(), "plan_events-generated-value", planGeneratedSchema)
	require.NoError(t, err)
	require.Equal(t, 7, id)
	require.Equal(t, "JSON", registered)
}

func TestSchemaRegistryReturnsExistingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/subjects/plan_feedback-value/versions/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":3,"version":1}`))
	}))
	defer srv.Close()

	id, err := NewSchemaRegistryClient(srv.URL).EnsureSchema(context.Background(), "plan_feedback-value", feedbackSubmittedSchema)
	require.NoError(t, err)
	require.Equal(t, 3, id)
}

func TestSchemaCatalogCoversEveryEvent(t *testing.T) {
	for eventType := range events.Catalog {
		schema, ok := schemaCatalog[eventType]
		require.Truef(t, ok, "missing schema for %s", eventType)
		require.True(t, json.Valid([]byte(schema)))
	}
}
