package changes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/md-rashed-zaman/backoffice/libs/kafkax"
	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/editor"
	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error { return nil }

func TestKafkaPublisherMessage(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, topic: DefaultTopic, newID: func() string { return "ev-1" }}
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	err := p.Publish(context.Background(), editor.Change{Kind: "customer", Action: editor.ActionSaved, RecordID: "7", OccurredAt: at})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "customer:7" {
		t.Fatalf("unexpected key %q", msg.Key)
	}
	if kafkax.HeaderValue(msg.Headers, "event_id") != "ev-1" || kafkax.HeaderValue(msg.Headers, "event_type") != "backoffice.customer.saved" {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}

	var ev Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		t.Fatalf("decode value: %v", err)
	}
	if ev.Action != "saved" || ev.RecordID != "7" || !ev.OccurredAt.Equal(at) {
		t.Fatalf("unexpected event %+v", ev)
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, editor.Change) error { return errors.New("broker down") }
func (failingPublisher) Close() error                                 { return nil }

func TestHookLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	Hook(failingPublisher{}, logger, time.Second)(context.Background(), editor.Change{Kind: "service", Action: editor.ActionDeleted, RecordID: "5"})
	if !strings.Contains(buf.String(), "broker down") || !strings.Contains(buf.String(), `"record_id":"5"`) {
		t.Fatalf("expected failure logged, got %s", buf.String())
	}
}

func TestNopPublisher(t *testing.T) {
	if err := (Nop{}).Publish(context.Background(), editor.Change{}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
