package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/teamshift/internal/logging"
)

const publishTimeout = 5 * time.Second

const (
	TypeUserRegistered      = "user.registered"
	TypeLogin               = "auth.login"
	TypeLogout              = "auth.logout"
	TypeRefreshReuse        = "auth.refresh_reuse_detected"
	TypeRefreshInvalid      = "auth.refresh_invalid"
	TypeCompanyCreated      = "company.created"
	TypeCompanyDeleted      = "company.deleted"
	TypeJoinRequestCreated  = "join_request.created"
	TypeJoinRequestApproved = "join_request.approved"
	TypeJoinRequestRejected = "join_request.rejected"
)

type Event struct {
	Type      string         `json:"type"`
	At        time.Time      `json:"at"`
	UserID    string         `json:"user_id,omitempty"`
	CompanyID string         `json:"company_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Key keeps every event of one user on the same partition.
func (e Event) Key() string {
	if e.UserID != "" {
		return e.UserID
	}
	return e.CompanyID
}

type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type Producer struct {
	writer Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	return NewProducerWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	})
}

func NewProducerWithWriter(w Writer) *Producer {
	return &Producer{writer: w}
}

func (p *Producer) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(e.Key()), Value: data}); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Emit publishes best-effort: a broker failure is logged and never fails the caller.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", e.Type, "error", err)
	}
}
