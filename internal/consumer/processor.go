// Package consumer reads plan lifecycle events published by the outbox dispatcher.
package consumer

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/wellplan/internal/events"
	"example.com/wellplan/internal/observability"
)

// Reader is the part of *kafka.Reader the processor uses.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler receives validated plan lifecycle events.
type Handler interface {
	Handle(context.Context, Message) error
}

// Message is a plan lifecycle event consumed from Kafka, validated against the
// event catalog.
type Message struct {
	Topic         string
	Partition     int
	Offset        int64
	Timestamp     time.Time
	EventType     string
	UserID        string
	SchemaSubject string
	SchemaID      int
	Payload       json.RawMessage
	// Event is Payload decoded into its catalog type.
	Event events.Event
}

// Option configures optional behaviour for the Processor.
type Option func(*Processor)

// WithLogger overrides the logger used to report errors.
func WithLogger(logger *log.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// Processor consumes plan lifecycle events and hands them to a Handler.
type Processor struct {
	reader  Reader
	handler Handler
	logger  *log.Logger
}

// NewProcessor constructs a Processor with the provided reader and handler.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{
		reader:  reader,
		handler: handler,
		logger:  log.New(log.Writer(), "[consumer] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches, validates and handles records until ctx is cancelled. Records
// that fail validation are committed and skipped so they cannot block the
// partition; handler failures are left uncommitted for redelivery.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		record, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			p.logger.Printf("fetch error: %v", err)
			continue
		}

		msg, err := decodeMessage(record)
		if err != nil {
			p.logger.Printf("skip record (topic=%s, partition=%d, offset=%d): %v", record.Topic, record.Partition, record.Offset, err)
			observability.RecordConsumedEvent(eventLabel(msg.EventType), rejection(err), time.Time{})
			if commitErr := p.reader.CommitMessages(ctx, record); commitErr != nil {
				p.logger.Printf("commit error after rejected record: %v", commitErr)
			}
			continue
		}

		if err := p.handler.Handle(ctx, msg); err != nil {
			p.logger.Printf("handler error (event_type=%s, user=%s): %v", msg.EventType, msg.UserID, err)
			observability.RecordConsumedEvent(msg.EventType, observability.ConsumedHandlerError, time.Time{})
			continue
		}

		if err := p.reader.CommitMessages(ctx, record); err != nil {
			p.logger.Printf("commit error (event_type=%s, offset=%d): %v", msg.EventType, record.Offset, err)
			continue
		}
		observability.RecordConsumedEvent(msg.EventType, observability.ConsumedProcessed, msg.Timestamp)
	}
}

var (
	errMalformed = errors.New("malformed record")
	errMisrouted = errors.New("event on unexpected topic")
)

func rejection(err error) string {
	switch {
	case errors.Is(err, events.ErrUnknownEventType):
		return observability.ConsumedUnknownType
	case errors.Is(err, errMisrouted):
		return observability.ConsumedMisrouted
	default:
		return observability.ConsumedMalformed
	}
}

// eventLabel keeps metric labels within the catalog.
func eventLabel(eventType string) string {
	if _, ok := events.Catalog[eventType]; ok {
		return eventType
	}
	return "unknown"
}

// decodeMessage unframes record and checks it against the event catalog. The
// returned Message carries the event type whenever the header was readable.
func decodeMessage(record kafka.Message) (Message, error) {
	eventType, ok := headerValue(record, "event_type")
	if !ok {
		return Message{}, fmt.Errorf("%w: missing event_type header", errMalformed)
	}
	msg := Message{
		Topic:     record.Topic,
		Partition: record.Partition,
		Offset:    record.Offset,
		Timestamp: record.Time,
		EventType: string(eventType),
	}

	meta, ok := events.Catalog[msg.EventType]
	if !ok {
		return msg, fmt.Errorf("%w: %q", events.ErrUnknownEventType, msg.EventType)
	}
	if record.Topic != meta.Topic {
		return msg, fmt.Errorf("%w: %s belongs on %s, got %s", errMisrouted, msg.EventType, meta.Topic, record.Topic)
	}

	if len(record.Value) < 5 || record.Value[0] != 0 {
		return msg, fmt.Errorf("%w: value is not schema-registry framed", errMalformed)
	}
	msg.SchemaID = int(binary.BigEndian.Uint32(record.Value[1:5]))
	msg.Payload = json.RawMessage(append([]byte(nil), record.Value[5:]...))

	event, err := events.Decode(msg.EventType, msg.Payload)
	if err != nil {
		return msg, fmt.Errorf("%w: %v", errMalformed, err)
	}
	msg.Event = event

	msg.SchemaSubject = meta.SchemaSubject
	if subject, ok := headerValue(record, "schema_subject"); ok && len(subject) > 0 {
		msg.SchemaSubject = string(subject)
	}

	owner := event.Owner()
	header, _ := headerValue(record, "user_id")
	switch {
	case len(header) > 0 && owner != "" && string(header) != owner:
		return msg, fmt.Errorf("%w: user_id header %q does not match payload owner %q", errMalformed, header, owner)
	case len(header) > 0:
		msg.UserID = string(header)
	case owner != "":
		msg.UserID = owner
	default:
		return msg, fmt.Errorf("%w: missing user_id", errMalformed)
	}
	return msg, nil
}

func headerValue(record kafka.Message, key string) ([]byte, bool) {
	for _, header := range record.Headers {
		if header.Key == key {
			return header.Value, true
		}
	}
	return nil, false
}
