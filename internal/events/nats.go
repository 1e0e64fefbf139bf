// Package events publishes domain events to NATS JetStream for downstream
// consumers (dashboards, audit). Publishing is best-effort; the orchestration
// flow never blocks on it.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/frontdesk-ai/receptionist-platform/internal/model"
	"github.com/frontdesk-ai/receptionist-platform/pkg/logger"
)

const (
	// StreamName is the name of the receptionist event stream.
	StreamName = "RECEPTIONIST"

	// SubjectPrefix is the prefix for all event subjects.
	SubjectPrefix = "receptionist"
)

// Publisher publishes domain events to JetStream. It satisfies the
// orchestrator's EventSink.
type Publisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	logger *logger.Logger
}

// Connect establishes a NATS connection and ensures the event stream exists.
func Connect(ctx context.Context, url string, log *logger.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	p := &Publisher{conn: nc, js: js, logger: log}
	if err := p.ensureStream(ctx); err != nil {
		nc.Close()
		return nil, err
	}
	return p, nil
}

// Close closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

// IsConnected reports whether the NATS connection is up.
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

func (p *Publisher) ensureStream(ctx context.Context) error {
	if _, err := p.js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := p.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Receptionist domain events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// MessageAppended publishes a message-appended event.
func (p *Publisher) MessageAppended(conversationID string, msg model.Message) {
	p.publish(fmt.Sprintf("%s.conversation.%s.message", SubjectPrefix, conversationID), map[string]any{
		"conversation_id": conversationID,
		"message":         msg,
	})
}

// AppointmentChanged publishes an appointment-changed event.
func (p *Publisher) AppointmentChanged(appt model.Appointment) {
	p.publish(fmt.Sprintf("%s.appointment.%s", SubjectPrefix, appt.ID), appt)
}

// DepositSettled publishes a deposit-settled event.
func (p *Publisher) DepositSettled(conversationID, customerName string) {
	p.publish(fmt.Sprintf("%s.conversation.%s.settled", SubjectPrefix, conversationID), map[string]any{
		"conversation_id": conversationID,
		"customer_name":   customerName,
		"settled_at":      time.Now().UTC(),
	})
}

func (p *Publisher) publish(subject string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn("event marshal failed", zap.String("subject", subject), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		p.logger.Warn("event publish failed", zap.String("subject", subject), zap.Error(err))
	}
}
