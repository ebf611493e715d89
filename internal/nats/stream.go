package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/cofounderbay/networking-core/internal/model"
)

const (
	// StreamName is the name of the event stream.
	StreamName = "COFOUNDERBAY"

	// SubjectPrefix is the prefix for all event subjects.
	SubjectPrefix = "cfb"

	// DefaultConsumer is the durable consumer name of the inbound subscriber.
	DefaultConsumer = "cfb-bridge"

	outbound = "out"
	inbound  = "in"
)

// StreamManager handles JetStream stream operations.
type StreamManager struct {
	client *Client
}

// NewStreamManager creates a new stream manager.
func NewStreamManager(client *Client) *StreamManager {
	return &StreamManager{client: client}
}

// EnsureStream ensures the event stream exists with proper configuration.
func (m *StreamManager) EnsureStream(ctx context.Context) error {
	js := m.client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		MaxBytes:    10 * 1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Duplicates:  2 * time.Minute,
		Description: "Applied mutations and inbound counterpart events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// subjectToken encodes an actor id as a single subject token. The subject
// separators, the wildcards, '%' and every byte outside printable ASCII are
// written as %XX, so distinct actors never share a token.
func subjectToken(actor model.ActorID) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(actor); i++ {
		c := actor[i]
		if c <= ' ' || c >= 0x7f || c == '.' || c == '*' || c == '>' || c == '%' {
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0x0f])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// actorFromToken reverses subjectToken. Only the canonical encoding is
// accepted, so each actor is reachable through exactly one subject.
func actorFromToken(token string) (model.ActorID, error) {
	raw, err := url.PathUnescape(token)
	if err != nil {
		return "", fmt.Errorf("actor token %q: %w", token, err)
	}
	actor := model.ActorID(raw)
	if actor == "" || subjectToken(actor) != token {
		return "", fmt.Errorf("actor token %q is not canonical", token)
	}
	return actor, nil
}

// OutboundSubject returns the subject of a mutation applied by actor.
func OutboundSubject(actor model.ActorID, eventType model.EventType) string {
	return fmt.Sprintf("%s.%s.%s.%s", SubjectPrefix, subjectToken(actor), outbound, eventType)
}

// InboundSubject returns the subject of an external event for actor.
func InboundSubject(actor model.ActorID, eventType model.EventType) string {
	return fmt.Sprintf("%s.%s.%s.%s", SubjectPrefix, subjectToken(actor), inbound, eventType)
}

// InboundFilter matches inbound events of every actor.
func InboundFilter() string {
	return fmt.Sprintf("%s.*.%s.>", SubjectPrefix, inbound)
}

// ParseInboundSubject splits an inbound subject into the addressed actor and
// the event type.
func ParseInboundSubject(subject string) (model.ActorID, model.EventType, error) {
	parts := strings.Split(subject, ".")
	if len(parts) != 4 || parts[0] != SubjectPrefix || parts[2] != inbound || parts[1] == "" || parts[3] == "" {
		return "", "", fmt.Errorf("not an inbound subject: %q", subject)
	}
	actor, err := actorFromToken(parts[1])
	if err != nil {
		return "", "", fmt.Errorf("inbound subject %q: %w", subject, err)
	}
	return actor, model.EventType(parts[3]), nil
}

// PublishEvent publishes an applied mutation. The event id is the JetStream
// message id, so retried publishes are deduplicated.
func (m *StreamManager) PublishEvent(ctx context.Context, event *model.Event) (uint64, error) {
	subject := OutboundSubject(event.Actor, event.Type)

	data, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := m.client.JetStream().Publish(ctx, subject, data, jetstream.WithMsgID(event.ID))
	if err != nil {
		return 0, fmt.Errorf("failed to publish event: %w", err)
	}

	return ack.Sequence, nil
}

// EventHandler applies one inbound event.
type EventHandler func(ctx context.Context, event *model.Event) error

// Subscribe consumes inbound events with a durable consumer and hands them
// to handle one at a time. Events that cannot be decoded or are rejected by
// the handler are terminated, since redelivery would fail the same way.
func (m *StreamManager) Subscribe(ctx context.Context, durable string, handle EventHandler) (jetstream.ConsumeContext, error) {
	consumer, err := m.client.JetStream().CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durable,
		FilterSubject: InboundFilter(),
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverNewPolicy,
		MaxAckPending: 1,
		MaxDeliver:    5,
		AckWait:       30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	log := m.client.logger
	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		event, err := DecodeInbound(msg.Subject(), msg.Data())
		if err != nil {
			log.Warn("dropping malformed event", zap.String("subject", msg.Subject()), zap.Error(err))
			_ = msg.Term()
			return
		}
		if meta, err := msg.Metadata(); err == nil {
			event.Sequence = meta.Sequence.Stream
		}

		if err := handle(ctx, event); err != nil {
			_ = msg.Term()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to consume: %w", err)
	}
	return cc, nil
}

// DecodeInbound decodes an inbound event. The actor is always the one the
// subject addresses and a payload naming another actor is rejected. The type
// defaults to the subject's.
func DecodeInbound(subject string, data []byte) (*model.Event, error) {
	actor, eventType, err := ParseInboundSubject(subject)
	if err != nil {
		return nil, err
	}

	var event model.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Actor != "" && event.Actor != actor {
		return nil, fmt.Errorf("event actor %q does not match subject %q", event.Actor, subject)
	}
	event.Actor = actor
	if event.Type == "" {
		event.Type = eventType
	}
	if event.Type != eventType {
		return nil, fmt.Errorf("event type %q does not match subject %q", event.Type, subject)
	}
	return &event, nil
}
