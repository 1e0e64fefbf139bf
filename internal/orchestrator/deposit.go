package orchestrator

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/frontdesk-ai/receptionist-platform/internal/model"
	"github.com/frontdesk-ai/receptionist-platform/internal/payments"
	"github.com/frontdesk-ai/receptionist-platform/pkg/metrics"
)

// ErrNoDepositPending indicates there is no held deposit request to confirm
// or cancel.
var ErrNoDepositPending = errors.New("orchestrator: no deposit request pending")

type depositPhase string

const (
	depositIdle       depositPhase = "idle"
	depositSuggested  depositPhase = "suggested"
	depositConfirming depositPhase = "confirming"
	depositSent       depositPhase = "sent"
)

type depositRequest struct {
	state    depositPhase
	message  string // held text while confirming
	provider model.PaymentProvider
	amount   int
	currency string
}

// DepositView is the operator-facing snapshot of the deposit workflow.
type DepositView struct {
	State    string                `json:"state"`
	Message  string                `json:"message,omitempty"`
	Provider model.PaymentProvider `json:"provider,omitempty"`
	Amount   int                   `json:"amount,omitempty"`
}

// depositLocked returns the workflow entry for a conversation, creating an
// idle one if absent. Caller must hold o.mu.
func (o *Orchestrator) depositLocked(conversationID string) *depositRequest {
	dep, ok := o.deposits[conversationID]
	if !ok {
		dep = &depositRequest{state: depositIdle}
		o.deposits[conversationID] = dep
	}
	return dep
}

// Deposit returns the current deposit workflow state for a conversation.
func (o *Orchestrator) Deposit(conversationID string) DepositView {
	o.mu.Lock()
	defer o.mu.Unlock()

	dep, ok := o.deposits[conversationID]
	if !ok {
		return DepositView{State: string(depositIdle)}
	}
	return DepositView{
		State:    string(dep.state),
		Message:  dep.message,
		Provider: dep.provider,
		Amount:   dep.amount,
	}
}

// RequestDeposit enters the confirming state: a payment link is generated
// from the configured provider and amount, and the message text is held for
// operator confirmation. It is never sent automatically. A new request while
// one is pending replaces the held message and cancels any scheduled
// settlement for the conversation.
func (o *Orchestrator) RequestDeposit(conversationID string) (DepositView, error) {
	if _, err := o.conversations.Get(conversationID); err != nil {
		return DepositView{}, err
	}

	profile := o.profiles.Profile()
	amount := profile.DepositAmount
	if amount <= 0 {
		amount = 50
	}
	message := payments.RequestMessage(profile)

	o.mu.Lock()
	if timer, ok := o.settleTimers[conversationID]; ok {
		timer.Stop()
		delete(o.settleTimers, conversationID)
	}
	dep := o.depositLocked(conversationID)
	dep.state = depositConfirming
	dep.message = message
	dep.provider = profile.Payment.Provider
	dep.amount = amount
	dep.currency = profile.Payment.Currency
	view := DepositView{
		State:    string(dep.state),
		Message:  dep.message,
		Provider: dep.provider,
		Amount:   dep.amount,
	}
	o.mu.Unlock()

	return view, nil
}

// CancelDeposit discards a held request before send. Nothing is persisted;
// the workflow returns to idle.
func (o *Orchestrator) CancelDeposit(conversationID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	dep, ok := o.deposits[conversationID]
	if !ok || dep.state != depositConfirming {
		return ErrNoDepositPending
	}
	dep.state = depositIdle
	dep.message = ""
	return nil
}

// ConfirmDeposit sends the held message and schedules the simulated
// settlement. The message goes through the normal append path but skips
// booking extraction, since a deposit request does not represent a booking.
func (o *Orchestrator) ConfirmDeposit(conversationID string) (*model.Message, error) {
	conv, err := o.conversations.Get(conversationID)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	dep, ok := o.deposits[conversationID]
	if !ok || dep.state != depositConfirming {
		o.mu.Unlock()
		return nil, ErrNoDepositPending
	}
	message := dep.message
	provider := dep.provider
	dep.state = depositSent
	dep.message = ""
	o.mu.Unlock()

	msg, err := o.append(conversationID, model.SenderBot, message)
	if err != nil {
		return nil, err
	}

	metrics.DepositRequestsTotal.WithLabelValues(string(provider)).Inc()
	o.logger.Info("deposit link sent",
		zap.String("conversation_id", conversationID),
		zap.String("provider", string(provider)),
	)

	o.scheduleSettlement(conversationID, conv.CustomerName)
	return msg, nil
}

// scheduleSettlement arms the cancel-on-teardown settlement timer for a
// conversation, replacing any timer already pending for it.
func (o *Orchestrator) scheduleSettlement(conversationID, customerName string) {
	profile := o.profiles.Profile()

	o.mu.Lock()
	if timer, ok := o.settleTimers[conversationID]; ok {
		timer.Stop()
	}
	o.settleTimers[conversationID] = time.AfterFunc(o.settleDelay, func() {
		o.mu.Lock()
		delete(o.settleTimers, conversationID)
		o.mu.Unlock()

		select {
		case <-o.ctx.Done():
			return
		default:
		}
		o.settle(conversationID, customerName, profile)
	})
	o.mu.Unlock()
}

// settle fires the two simulated-settlement effects: a system message
// announcing payment receipt, and the customer's first appointment marked
// completed with the deposit paid. If the conversation or appointment no
// longer exists the effect is silently dropped.
func (o *Orchestrator) settle(conversationID, customerName string, profile model.BusinessProfile) {
	providerName := payments.ProviderDisplayName(profile.Payment.Provider)

	if _, err := o.append(conversationID, model.SenderSystem, payments.SettlementMessage(profile)); err != nil {
		metrics.SettlementsTotal.WithLabelValues(providerName, "dropped").Inc()
		o.logger.Debug("settlement dropped, conversation gone",
			zap.String("conversation_id", conversationID),
		)
		return
	}

	appt, ok := o.appointments.FindFirstByCustomer(customerName)
	if !ok {
		metrics.SettlementsTotal.WithLabelValues(providerName, "no_appointment").Inc()
		return
	}

	completed := model.AppointmentCompleted
	paid := true
	if err := o.appointments.Update(appt.ID, model.AppointmentUpdate{
		Status:      &completed,
		DepositPaid: &paid,
	}); err != nil {
		metrics.SettlementsTotal.WithLabelValues(providerName, "no_appointment").Inc()
		return
	}

	metrics.SettlementsTotal.WithLabelValues(providerName, "ok").Inc()
	o.logger.Info("deposit settled",
		zap.String("conversation_id", conversationID),
		zap.String("customer", customerName),
	)
	o.notifyAppointment(appt.ID)
	if o.events != nil {
		o.events.DepositSettled(conversationID, customerName)
	}
}
