package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdesk-ai/receptionist-platform/internal/ai"
	"github.com/frontdesk-ai/receptionist-platform/internal/model"
	"github.com/frontdesk-ai/receptionist-platform/internal/store"
	"github.com/frontdesk-ai/receptionist-platform/pkg/logger"
)

type fakeProvider struct {
	mu         sync.Mutex
	replies    []string
	repliesErr error
	booking    *ai.BookingDetails
	bookingErr error
	transcript string

	quickReplyCalls int
	classifyCalls   int
}

func (f *fakeProvider) QuickReplies(_ context.Context, _ string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quickReplyCalls++
	return f.replies, f.repliesErr
}

func (f *fakeProvider) ClassifyBooking(_ context.Context, _ string, _ time.Time) (*ai.BookingDetails, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.classifyCalls++
	return f.booking, f.bookingErr
}

func (f *fakeProvider) VoicemailTranscript(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transcript, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) classified() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.classifyCalls
}

type fixture struct {
	conversations *store.ConversationStore
	appointments  *store.AppointmentStore
	profiles      *store.ProfileStore
	provider      *fakeProvider
	orch          *Orchestrator
}

func newFixture(t *testing.T, provider *fakeProvider, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		conversations: store.NewConversationStore(),
		appointments:  store.NewAppointmentStore(),
		profiles:      store.NewProfileStore(model.DefaultProfile(), model.DefaultServices()),
		provider:      provider,
	}

	var p Provider
	if provider != nil {
		p = provider
	}
	opts = append([]Option{WithSettlementDelay(20 * time.Millisecond)}, opts...)
	f.orch = New(f.conversations, f.appointments, f.profiles, p, logger.NewNop(), opts...)
	t.Cleanup(f.orch.Close)

	return f
}

func (f *fixture) addConversation(t *testing.T, id, customer string, msgs ...model.Message) {
	t.Helper()
	conv := &model.Conversation{
		ID:           id,
		CustomerName: customer,
		Status:       model.ConversationActive,
		Messages:     msgs,
	}
	require.NoError(t, f.conversations.Create(conv))
}

func userMsg(text string) model.Message {
	return model.Message{ID: "u-" + text, Sender: model.SenderUser, Text: text, Timestamp: time.Now()}
}

func botMsg(text string) model.Message {
	return model.Message{ID: "b-" + text, Sender: model.SenderBot, Text: text, Timestamp: time.Now()}
}

func (f *fixture) lastMessage(t *testing.T, conversationID string) model.Message {
	t.Helper()
	conv, err := f.conversations.Get(conversationID)
	require.NoError(t, err)
	require.NotEmpty(t, conv.Messages)
	return conv.Messages[len(conv.Messages)-1]
}

func TestToggleAIStatusRoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	f.addConversation(t, "c1", "Alice Smith")

	status, err := f.orch.ToggleAIStatus("c1")
	require.NoError(t, err)
	assert.Equal(t, model.AIPaused, status)

	status, err = f.orch.ToggleAIStatus("c1")
	require.NoError(t, err)
	assert.Equal(t, model.AIActive, status)

	conv, err := f.conversations.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, model.AIActive, conv.AIStatus)
}

func TestSetAIStatusExplicitTarget(t *testing.T) {
	f := newFixture(t, nil)
	f.addConversation(t, "c1", "Alice Smith")

	require.NoError(t, f.orch.SetAIStatus("c1", model.AIPaused))
	require.NoError(t, f.orch.SetAIStatus("c1", model.AIPaused)) // idempotent

	conv, err := f.conversations.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, model.AIPaused, conv.AIStatus)

	err = f.orch.SetAIStatus("missing", model.AIActive)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSendMessageAppendsWithoutProvider(t *testing.T) {
	f := newFixture(t, nil)
	f.addConversation(t, "c1", "Alice Smith")

	msg, err := f.orch.SendMessage(context.Background(), "c1", "See you Tuesday at 10am")
	require.NoError(t, err)
	assert.Equal(t, model.SenderBot, msg.Sender)

	conv, err := f.conversations.Get("c1")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, "See you Tuesday at 10am", conv.LastMessage)
}

func TestSendMessageUnknownConversation(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.orch.SendMessage(context.Background(), "missing", "hello")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSendMessageNonBookingLeavesAppointmentsAlone(t *testing.T) {
	provider := &fakeProvider{booking: &ai.BookingDetails{IsBooking: false}}
	f := newFixture(t, provider)
	f.addConversation(t, "c1", "Alice Smith")

	_, err := f.orch.SendMessage(context.Background(), "c1", "Thanks for reaching out!")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return provider.classified() == 1 },
		2*time.Second, 10*time.Millisecond)
	assert.Empty(t, f.appointments.List())
}

func TestSendMessageConfirmsPendingAppointment(t *testing.T) {
	provider := &fakeProvider{booking: &ai.BookingDetails{
		IsBooking: true,
		Date:      "2026-09-03T14:00:00Z",
	}}
	f := newFixture(t, provider)
	f.addConversation(t, "c1", "Bob Johnson")
	require.NoError(t, f.appointments.Create(&model.Appointment{
		ID:           "a1",
		CustomerName: "Bob Johnson",
		Service:      "Leak Repair",
		Date:         time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Status:       model.AppointmentPending,
	}))

	_, err := f.orch.SendMessage(context.Background(), "c1", "You're confirmed for Thursday at 2pm")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		appt, err := f.appointments.Get("a1")
		return err == nil && appt.Status == model.AppointmentConfirmed
	}, 2*time.Second, 10*time.Millisecond)

	appt, err := f.appointments.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 3, 14, 0, 0, 0, time.UTC), appt.Date)
	// Classifier named no service, so the existing one is kept.
	assert.Equal(t, "Leak Repair", appt.Service)
	assert.False(t, appt.DepositPaid)
	// The pending appointment is reused, never duplicated.
	assert.Len(t, f.appointments.List(), 1)
}

func TestSendMessageCreatesAppointmentWithDefaultService(t *testing.T) {
	provider := &fakeProvider{booking: &ai.BookingDetails{
		IsBooking: true,
		Date:      "2026-09-05",
	}}
	f := newFixture(t, provider)
	f.addConversation(t, "c1", "Alice Smith")

	_, err := f.orch.SendMessage(context.Background(), "c1", "Booked you in for Saturday")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(f.appointments.List()) == 1 },
		2*time.Second, 10*time.Millisecond)

	appt := f.appointments.List()[0]
	assert.Equal(t, "Alice Smith", appt.CustomerName)
	assert.Equal(t, DefaultServiceName, appt.Service)
	assert.Equal(t, model.AppointmentConfirmed, appt.Status)
	assert.False(t, appt.DepositPaid)
}

func TestSendMessageUnparseableDateDropsBooking(t *testing.T) {
	provider := &fakeProvider{booking: &ai.BookingDetails{
		IsBooking: true,
		Service:   "Leak Repair",
		Date:      "next Tuesday-ish",
	}}
	f := newFixture(t, provider)
	f.addConversation(t, "c1", "Alice Smith")

	_, err := f.orch.SendMessage(context.Background(), "c1", "See you next Tuesday-ish")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return provider.classified() == 1 },
		2*time.Second, 10*time.Millisecond)
	assert.Empty(t, f.appointments.List())
	// The message itself still landed.
	assert.Equal(t, "See you next Tuesday-ish", f.lastMessage(t, "c1").Text)
}

func TestSendMessageClassifierFailureIsSwallowed(t *testing.T) {
	provider := &fakeProvider{bookingErr: errors.New("model unavailable")}
	f := newFixture(t, provider)
	f.addConversation(t, "c1", "Alice Smith")

	_, err := f.orch.SendMessage(context.Background(), "c1", "hello")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return provider.classified() == 1 },
		2*time.Second, 10*time.Millisecond)
	assert.Empty(t, f.appointments.List())
	assert.Equal(t, "hello", f.lastMessage(t, "c1").Text)
}

func TestDepositRequestHoldsMessageForConfirmation(t *testing.T) {
	f := newFixture(t, nil)
	f.addConversation(t, "c1", "Alice Smith")

	view, err := f.orch.RequestDeposit("c1")
	require.NoError(t, err)
	assert.Equal(t, "confirming", view.State)
	assert.Equal(t, "To confirm, please pay the $50 deposit here: pay.link/deposit", view.Message)
	assert.Equal(t, 50, view.Amount)

	// Nothing is sent until the operator confirms.
	conv, err := f.conversations.Get("c1")
	require.NoError(t, err)
	assert.Empty(t, conv.Messages)
}

func TestDepositCancelReturnsToIdle(t *testing.T) {
	f := newFixture(t, nil)
	f.addConversation(t, "c1", "Alice Smith")

	_, err := f.orch.RequestDeposit("c1")
	require.NoError(t, err)
	require.NoError(t, f.orch.CancelDeposit("c1"))

	assert.Equal(t, "idle", f.orch.Deposit("c1").State)
	assert.ErrorIs(t, f.orch.CancelDeposit("c1"), ErrNoDepositPending)
}

func TestDepositConfirmWithoutRequest(t *testing.T) {
	f := newFixture(t, nil)
	f.addConversation(t, "c1", "Alice Smith")

	_, err := f.orch.ConfirmDeposit("c1")
	assert.ErrorIs(t, err, ErrNoDepositPending)
}

func TestDepositConfirmSendsAndSettles(t *testing.T) {
	f := newFixture(t, nil)
	f.addConversation(t, "c1", "Alice Smith")
	require.NoError(t, f.appointments.Create(&model.Appointment{
		ID:           "a1",
		CustomerName: "Alice Smith",
		Service:      "Faucet Install",
		Date:         time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Status:       model.AppointmentConfirmed,
	}))

	_, err := f.orch.RequestDeposit("c1")
	require.NoError(t, err)
	msg, err := f.orch.ConfirmDeposit("c1")
	require.NoError(t, err)
	assert.Equal(t, model.SenderBot, msg.Sender)
	assert.Contains(t, msg.Text, "$50 deposit")
	assert.Equal(t, "sent", f.orch.Deposit("c1").State)

	require.Eventually(t, func() bool {
		appt, err := f.appointments.Get("a1")
		return err == nil && appt.DepositPaid
	}, 2*time.Second, 10*time.Millisecond)

	appt, err := f.appointments.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentCompleted, appt.Status)

	last := f.lastMessage(t, "c1")
	assert.Equal(t, model.SenderSystem, last.Sender)
	assert.Equal(t, "💰 System: Payment of $50.00 received via Webhook.", last.Text)
}

func TestDepositSettlementUsesConfiguredProvider(t *testing.T) {
	f := newFixture(t, nil)
	profile := f.profiles.Profile()
	profile.Payment.Provider = model.PaymentPayPal
	profile.Payment.Currency = "GBP"
	profile.DepositAmount = 80
	f.profiles.UpdateProfile(profile)

	f.addConversation(t, "c1", "Alice Smith")

	view, err := f.orch.RequestDeposit("c1")
	require.NoError(t, err)
	assert.Contains(t, view.Message, "£80 deposit")
	assert.Contains(t, view.Message, "paypal.me/mikesplumbing/80")

	_, err = f.orch.ConfirmDeposit("c1")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return f.lastMessage(t, "c1").Sender == model.SenderSystem
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "💰 System: Payment of £80.00 received via PayPal.", f.lastMessage(t, "c1").Text)
}

func TestDepositSupersedeCancelsScheduledSettlement(t *testing.T) {
	f := newFixture(t, nil, WithSettlementDelay(100*time.Millisecond))
	f.addConversation(t, "c1", "Alice Smith")

	_, err := f.orch.RequestDeposit("c1")
	require.NoError(t, err)
	_, err = f.orch.ConfirmDeposit("c1")
	require.NoError(t, err)

	// New request before the first settlement fires replaces it.
	_, err = f.orch.RequestDeposit("c1")
	require.NoError(t, err)

	time.Sleep(300 * time.Millisecond)

	conv, err := f.conversations.Get("c1")
	require.NoError(t, err)
	for _, m := range conv.Messages {
		assert.NotEqual(t, model.SenderSystem, m.Sender, "superseded settlement must not fire")
	}
	assert.Equal(t, "confirming", f.orch.Deposit("c1").State)
}

func TestConversationRemovedCancelsSettlement(t *testing.T) {
	f := newFixture(t, nil, WithSettlementDelay(100*time.Millisecond))
	f.addConversation(t, "c1", "Alice Smith")
	require.NoError(t, f.appointments.Create(&model.Appointment{
		ID:           "a1",
		CustomerName: "Alice Smith",
		Service:      "Faucet Install",
		Date:         time.Now(),
		Status:       model.AppointmentConfirmed,
	}))

	_, err := f.orch.RequestDeposit("c1")
	require.NoError(t, err)
	_, err = f.orch.ConfirmDeposit("c1")
	require.NoError(t, err)

	require.NoError(t, f.conversations.Delete("c1"))
	f.orch.ConversationRemoved("c1")

	time.Sleep(300 * time.Millisecond)

	appt, err := f.appointments.Get("a1")
	require.NoError(t, err)
	assert.False(t, appt.DepositPaid)
	assert.Equal(t, model.AppointmentConfirmed, appt.Status)
	assert.Equal(t, "idle", f.orch.Deposit("c1").State)
}

func TestRefreshSuggestionsPopulatesQuickReplies(t *testing.T) {
	provider := &fakeProvider{replies: []string{"Yes, that works!", "What time?", "Can you come earlier?"}}
	f := newFixture(t, provider)
	f.addConversation(t, "c1", "Alice Smith", userMsg("Can you come Tuesday?"))

	view, err := f.orch.RefreshSuggestions(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, view.ShowQuickReplies)
	assert.Len(t, view.QuickReplies, 3)
	assert.False(t, view.DepositSuggested)
}

func TestRefreshSuggestionsCachedPerMessageCount(t *testing.T) {
	provider := &fakeProvider{replies: []string{"Sure!"}}
	f := newFixture(t, provider)
	f.addConversation(t, "c1", "Alice Smith", userMsg("hello"))

	_, err := f.orch.RefreshSuggestions(context.Background(), "c1")
	require.NoError(t, err)
	_, err = f.orch.RefreshSuggestions(context.Background(), "c1")
	require.NoError(t, err)

	provider.mu.Lock()
	defer provider.mu.Unlock()
	assert.Equal(t, 1, provider.quickReplyCalls)
}

func TestSuggestionsClearedWhenLatestIsNotCustomer(t *testing.T) {
	provider := &fakeProvider{replies: []string{"Sure!"}}
	f := newFixture(t, provider)
	f.addConversation(t, "c1", "Alice Smith",
		userMsg("hello"), botMsg("Hi, how can we help?"))

	view, err := f.orch.RefreshSuggestions(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, view.ShowQuickReplies)
	assert.Empty(t, view.QuickReplies)
}

func TestSuggestionsHiddenWhileAIPaused(t *testing.T) {
	provider := &fakeProvider{replies: []string{"Sure!"}}
	f := newFixture(t, provider)
	f.addConversation(t, "c1", "Alice Smith", userMsg("hello"))

	_, err := f.orch.RefreshSuggestions(context.Background(), "c1")
	require.NoError(t, err)
	require.NoError(t, f.orch.SetAIStatus("c1", model.AIPaused))

	view := f.orch.Suggestions("c1")
	assert.False(t, view.ShowQuickReplies)
	// The fetched replies are retained, just not surfaced.
	assert.Len(t, view.QuickReplies, 1)

	require.NoError(t, f.orch.SetAIStatus("c1", model.AIActive))
	assert.True(t, f.orch.Suggestions("c1").ShowQuickReplies)
}

func TestDepositIntentSuppressesQuickReplies(t *testing.T) {
	provider := &fakeProvider{replies: []string{"Would you like to pay the DEPOSIT now?"}}
	f := newFixture(t, provider)
	f.addConversation(t, "c1", "Alice Smith", userMsg("how do I pay?"))

	view, err := f.orch.RefreshSuggestions(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, view.DepositSuggested)
	// Deposit suggestion and reply chips are never shown together.
	assert.False(t, view.ShowQuickReplies)
	assert.Equal(t, "suggested", f.orch.Deposit("c1").State)
}

func TestDepositSuggestionWithdrawnOnNextRefresh(t *testing.T) {
	provider := &fakeProvider{replies: []string{"Here is the payment link"}}
	f := newFixture(t, provider)
	f.addConversation(t, "c1", "Alice Smith", userMsg("how do I pay?"))

	view, err := f.orch.RefreshSuggestions(context.Background(), "c1")
	require.NoError(t, err)
	require.True(t, view.DepositSuggested)

	provider.mu.Lock()
	provider.replies = []string{"See you then!"}
	provider.mu.Unlock()
	require.NoError(t, f.conversations.AppendMessage("c1", userMsg("great, thanks")))

	view, err = f.orch.RefreshSuggestions(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, view.DepositSuggested)
	assert.True(t, view.ShowQuickReplies)
}

func TestSuggestionFetchFailureYieldsNoChips(t *testing.T) {
	provider := &fakeProvider{repliesErr: errors.New("quota exceeded")}
	f := newFixture(t, provider)
	f.addConversation(t, "c1", "Alice Smith", userMsg("hello"))

	view, err := f.orch.RefreshSuggestions(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, view.ShowQuickReplies)
	assert.Empty(t, view.QuickReplies)
}

func TestCreateMissedCallConversation(t *testing.T) {
	provider := &fakeProvider{transcript: "Hi, my water heater is leaking, please call me back."}
	f := newFixture(t, provider)

	conv, err := f.orch.CreateMissedCallConversation(context.Background())
	require.NoError(t, err)
	assert.Contains(t, conv.CustomerName, "Missed Call")
	assert.Equal(t, "Voicemail Received", conv.LastMessage)
	require.Len(t, conv.Messages, 1)
	assert.Contains(t, conv.Messages[0].Text, "water heater is leaking")
	assert.True(t, conv.Unread)
}
