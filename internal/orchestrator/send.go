package orchestrator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontdesk-ai/receptionist-platform/internal/model"
	"github.com/frontdesk-ai/receptionist-platform/pkg/metrics"
)

// DefaultServiceName is recorded when the booking classifier confirms an
// appointment without naming a service.
const DefaultServiceName = "Service Call"

const classifyTimeout = 30 * time.Second

// SendMessage appends an outbound message to the conversation and returns as
// soon as the append succeeds. Booking reconciliation runs as an independent
// follow-up task whose failure is caught and discarded at its own boundary;
// sending a message never blocks on or fails because of extraction errors.
//
// Human-operator messages are wrapped as sender=bot; the store does not
// distinguish override authorship from AI authorship.
func (o *Orchestrator) SendMessage(ctx context.Context, conversationID, text string) (*model.Message, error) {
	conv, err := o.conversations.Get(conversationID)
	if err != nil {
		return nil, err
	}

	msg, err := o.append(conversationID, model.SenderBot, text)
	if err != nil {
		return nil, err
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.reconcileBooking(conv.CustomerName, text)
	}()

	return msg, nil
}

// append writes a message to the store and notifies the event sink. It is the
// single append path; LastMessage mirroring is handled inside the store.
func (o *Orchestrator) append(conversationID string, sender model.Sender, text string) (*model.Message, error) {
	msg := model.Message{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Sender:    sender,
		Text:      text,
		Timestamp: time.Now(),
	}
	if err := o.conversations.AppendMessage(conversationID, msg); err != nil {
		return nil, err
	}
	if o.events != nil {
		o.events.MessageAppended(conversationID, msg)
	}
	return &msg, nil
}

// reconcileBooking classifies an outbound message and, when it confirms an
// appointment with a parseable date, reconciles the appointment store.
// All failures are logged and swallowed.
func (o *Orchestrator) reconcileBooking(customerName, text string) {
	if o.provider == nil {
		return
	}

	ctx, cancel := context.WithTimeout(o.ctx, classifyTimeout)
	defer cancel()

	start := time.Now()
	details, err := o.provider.ClassifyBooking(ctx, text, time.Now())
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordAIRequest(o.provider.Name(), "classify_booking", status, time.Since(start).Seconds())
	if err != nil {
		metrics.BookingsDetectedTotal.WithLabelValues("error").Inc()
		o.logger.Warn("booking classification failed", zap.Error(err))
		return
	}
	if details == nil || !details.IsBooking {
		metrics.BookingsDetectedTotal.WithLabelValues("not_booking").Inc()
		return
	}

	date, err := parseBookingDate(details.Date)
	if err != nil {
		metrics.BookingsDetectedTotal.WithLabelValues("bad_date").Inc()
		o.logger.Warn("booking date unparseable",
			zap.String("date", details.Date),
			zap.Error(err),
		)
		return
	}

	apptStatus := model.AppointmentConfirmed
	if existing, ok := o.appointments.FindPendingByCustomer(customerName); ok {
		update := model.AppointmentUpdate{
			Status: &apptStatus,
			Date:   &date,
		}
		if details.Service != "" {
			update.Service = &details.Service
		}
		if err := o.appointments.Update(existing.ID, update); err != nil {
			o.logger.Warn("appointment update failed", zap.Error(err))
			return
		}
		metrics.BookingsDetectedTotal.WithLabelValues("confirmed_pending").Inc()
		o.notifyAppointment(existing.ID)
		return
	}

	service := details.Service
	if service == "" {
		service = DefaultServiceName
	}
	appt := &model.Appointment{
		ID:           uuid.Must(uuid.NewV7()).String(),
		CustomerName: customerName,
		Service:      service,
		Date:         date,
		Status:       apptStatus,
		DepositPaid:  false,
	}
	if err := o.appointments.Create(appt); err != nil {
		o.logger.Warn("appointment create failed", zap.Error(err))
		return
	}
	metrics.BookingsDetectedTotal.WithLabelValues("created").Inc()
	if o.events != nil {
		o.events.AppointmentChanged(*appt)
	}
}

func (o *Orchestrator) notifyAppointment(id string) {
	if o.events == nil {
		return
	}
	if appt, err := o.appointments.Get(id); err == nil {
		o.events.AppointmentChanged(*appt)
	}
}

// parseBookingDate accepts the RFC 3339 timestamps the classifier is prompted
// for, plus the bare-date form some models return anyway.
func parseBookingDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", raw)
}

// CreateMissedCallConversation simulates a missed call: it creates a new
// conversation seeded with a voicemail transcription message.
func (o *Orchestrator) CreateMissedCallConversation(ctx context.Context) (*model.Conversation, error) {
	transcript := "Hi, this is a simulated voicemail. I have a plumbing issue and would like a call back as soon as possible. Thanks."
	if o.provider != nil {
		if generated, err := o.provider.VoicemailTranscript(ctx); err == nil && generated != "" {
			transcript = generated
		} else if err != nil {
			o.logger.Warn("voicemail transcript generation failed", zap.Error(err))
		}
	}

	num := 1000 + rand.Intn(9000)
	conv := &model.Conversation{
		ID:            uuid.Must(uuid.NewV7()).String(),
		CustomerName:  fmt.Sprintf("Missed Call %d", num),
		CustomerPhone: fmt.Sprintf("(555) 555-%d", num),
		LastMessage:   "Voicemail Received",
		Unread:        true,
		Status:        model.ConversationActive,
		AIStatus:      model.AIActive,
		Messages: []model.Message{{
			ID:     uuid.Must(uuid.NewV7()).String(),
			Sender: model.SenderBot,
			Text: fmt.Sprintf("📞 Missed Call from (555) 555-%d\n\nVoicemail Transcription:\n%q",
				num, transcript),
			Timestamp: time.Now(),
		}},
	}
	if err := o.conversations.Create(conv); err != nil {
		return nil, err
	}
	return conv, nil
}
