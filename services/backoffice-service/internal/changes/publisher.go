// Package changes announces successful saves and deletes on Kafka.
package changes

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/backoffice/libs/kafkax"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/editor"
	"github.com/segmentio/kafka-go"
)

const DefaultTopic = "backoffice.record_changed"

// Event is the JSON value of a change message.
type Event struct {
	EventID    string    `json:"event_id"`
	Kind       string    `json:"kind"`
	Action     string    `json:"action"`
	RecordID   string    `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e Event) Type() string {
	return "backoffice." + e.Kind + "." + e.Action
}

type Publisher interface {
	Publish(ctx context.Context, c editor.Change) error
	Close() error
}

// Nop drops every change. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, editor.Change) error { return nil }
func (Nop) Close() error                                 { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
	topic  string
	newID  func() string
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, topic: topic, newID: uuid.NewString}
}

func (p *KafkaPublisher) Publish(ctx context.Context, c editor.Change) error {
	ev := Event{
		EventID:    p.newID(),
		Kind:       c.Kind,
		Action:     string(c.Action),
		RecordID:   c.RecordID,
		OccurredAt: c.OccurredAt,
	}
	value, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Key:     []byte(c.Kind + ":" + c.RecordID),
		Value:   value,
		Headers: kafkax.EventMeta{EventID: ev.EventID, EventType: ev.Type()}.Headers(),
	}
	msg.Headers = kafkax.InjectTraceHeaders(ctx, msg.Headers)
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Hook adapts a publisher to editor.Options.OnChange. Failures are logged
// and never reach the operator.
func Hook(p Publisher, logger *slog.Logger, timeout time.Duration) func(context.Context, editor.Change) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return func(ctx context.Context, c editor.Change) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		if err := p.Publish(ctx, c); err != nil {
			logger.Warn("change event publish failed", "kind", c.Kind, "action", c.Action, "record_id", c.RecordID, "err", err)
		}
	}
}
