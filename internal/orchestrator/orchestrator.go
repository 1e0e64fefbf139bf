// Package orchestrator mediates between the conversation store, appointment
// store, AI provider, and payment link generator. It owns AI/human handoff
// state, the deposit-request workflow, and the rule translating an outbound
// message into an appointment mutation.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/frontdesk-ai/receptionist-platform/internal/ai"
	"github.com/frontdesk-ai/receptionist-platform/internal/model"
	"github.com/frontdesk-ai/receptionist-platform/internal/store"
	"github.com/frontdesk-ai/receptionist-platform/pkg/logger"
	"github.com/frontdesk-ai/receptionist-platform/pkg/metrics"
)

// DefaultSettlementDelay is how long a simulated payment takes to settle
// after the deposit link is sent.
const DefaultSettlementDelay = 5 * time.Second

// Provider is the subset of the AI client the orchestrator consumes.
type Provider interface {
	QuickReplies(ctx context.Context, lastMessage string) ([]string, error)
	ClassifyBooking(ctx context.Context, messageText string, referenceTime time.Time) (*ai.BookingDetails, error)
	VoicemailTranscript(ctx context.Context) (string, error)
	Name() string
}

// EventSink receives domain event notifications. It may be nil.
type EventSink interface {
	MessageAppended(conversationID string, msg model.Message)
	AppointmentChanged(appt model.Appointment)
	DepositSettled(conversationID, customerName string)
}

// Orchestrator coordinates conversation state transitions. It holds no
// durable state of its own; everything it tracks per conversation
// (suggestions, deposit workflow, settlement timers) is transient and rebuilt
// from the stores.
type Orchestrator struct {
	conversations *store.ConversationStore
	appointments  *store.AppointmentStore
	profiles      *store.ProfileStore
	provider      Provider
	events        EventSink
	logger        *logger.Logger

	settleDelay time.Duration

	mu           sync.Mutex
	suggestions  map[string]*suggestionState
	deposits     map[string]*depositRequest
	settleTimers map[string]*time.Timer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithSettlementDelay overrides the simulated payment settlement delay.
func WithSettlementDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.settleDelay = d
		}
	}
}

// WithEventSink attaches a domain event sink.
func WithEventSink(sink EventSink) Option {
	return func(o *Orchestrator) {
		o.events = sink
	}
}

// New creates an orchestrator. The provider may be nil, in which case
// suggestion and classification features degrade to no-ops.
func New(
	conversations *store.ConversationStore,
	appointments *store.AppointmentStore,
	profiles *store.ProfileStore,
	provider Provider,
	log *logger.Logger,
	opts ...Option,
) *Orchestrator {
	if log == nil {
		log = logger.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		conversations: conversations,
		appointments:  appointments,
		profiles:      profiles,
		provider:      provider,
		logger:        log,
		settleDelay:   DefaultSettlementDelay,
		suggestions:   make(map[string]*suggestionState),
		deposits:      make(map[string]*depositRequest),
		settleTimers:  make(map[string]*time.Timer),
		ctx:           ctx,
		cancel:        cancel,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Close cancels pending settlement timers and waits for detached tasks.
// In-flight AI results arriving after Close are discarded.
func (o *Orchestrator) Close() {
	o.cancel()

	o.mu.Lock()
	for id, timer := range o.settleTimers {
		timer.Stop()
		delete(o.settleTimers, id)
	}
	o.mu.Unlock()

	o.wg.Wait()
}

// SetAIStatus sets the handoff state of a conversation to an explicit target
// and persists it. Setting the current state again is a no-op transition.
func (o *Orchestrator) SetAIStatus(conversationID string, target model.AIStatus) error {
	if err := o.conversations.SetAIStatus(conversationID, target); err != nil {
		return err
	}
	metrics.HandoffTogglesTotal.WithLabelValues(string(target)).Inc()
	o.logger.Info("handoff state set",
		zap.String("conversation_id", conversationID),
		zap.String("ai_status", string(target)),
	)
	return nil
}

// ToggleAIStatus flips whichever handoff state is current. There are no guard
// conditions and no timeout-based auto-resume.
func (o *Orchestrator) ToggleAIStatus(conversationID string) (model.AIStatus, error) {
	conv, err := o.conversations.Get(conversationID)
	if err != nil {
		return "", err
	}

	target := model.AIPaused
	if conv.AIStatus == model.AIPaused {
		target = model.AIActive
	}
	if err := o.SetAIStatus(conversationID, target); err != nil {
		return "", err
	}
	return target, nil
}

// ConversationRemoved drops all transient state for a conversation, including
// any pending settlement timer, so a scheduled settlement cannot act on a
// conversation that no longer exists.
func (o *Orchestrator) ConversationRemoved(conversationID string) {
	o.mu.Lock()
	if timer, ok := o.settleTimers[conversationID]; ok {
		timer.Stop()
		delete(o.settleTimers, conversationID)
	}
	delete(o.suggestions, conversationID)
	delete(o.deposits, conversationID)
	o.mu.Unlock()
}
