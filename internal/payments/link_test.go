package payments

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frontdesk-ai/receptionist-platform/internal/model"
)

func profileWith(provider model.PaymentProvider, currency string, amount int) model.BusinessProfile {
	return model.BusinessProfile{
		Name:          "Mike's Plumbing",
		DepositAmount: amount,
		Payment: model.PaymentConfig{
			Provider: provider,
			Currency: currency,
		},
	}
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "$", CurrencySymbol("USD"))
	assert.Equal(t, "€", CurrencySymbol("EUR"))
	assert.Equal(t, "£", CurrencySymbol("GBP"))
	assert.Equal(t, "$", CurrencySymbol("JPY")) // unknown codes fall back to dollar
}

func TestProviderDisplayName(t *testing.T) {
	assert.Equal(t, "Stripe", ProviderDisplayName(model.PaymentStripe))
	assert.Equal(t, "PayPal", ProviderDisplayName(model.PaymentPayPal))
	assert.Equal(t, "Webhook", ProviderDisplayName(model.PaymentMock))
}

func TestLinkPerProvider(t *testing.T) {
	assert.Equal(t, "pay.link/deposit", Link(model.PaymentMock, "Mike's Plumbing", 50))
	assert.Equal(t, "paypal.me/mikesplumbing/75", Link(model.PaymentPayPal, "Mike's Plumbing", 75))
	assert.Regexp(t, regexp.MustCompile(`^invoice\.stripe\.com/[a-z0-9]{8}$`),
		Link(model.PaymentStripe, "Mike's Plumbing", 50))
}

func TestRequestMessage(t *testing.T) {
	msg := RequestMessage(profileWith(model.PaymentMock, "USD", 50))
	assert.Equal(t, "To confirm, please pay the $50 deposit here: pay.link/deposit", msg)

	msg = RequestMessage(profileWith(model.PaymentPayPal, "EUR", 120))
	assert.Equal(t, "To confirm, please pay the €120 deposit here: paypal.me/mikesplumbing/120", msg)
}

func TestRequestMessageAmountFallback(t *testing.T) {
	msg := RequestMessage(profileWith(model.PaymentMock, "USD", 0))
	assert.Contains(t, msg, "$50 deposit")
}

func TestSettlementMessage(t *testing.T) {
	msg := SettlementMessage(profileWith(model.PaymentPayPal, "GBP", 80))
	assert.Equal(t, "💰 System: Payment of £80.00 received via PayPal.", msg)

	msg = SettlementMessage(profileWith(model.PaymentMock, "USD", 0))
	assert.Equal(t, "💰 System: Payment of $50.00 received via Webhook.", msg)
}

func TestBusinessSlug(t *testing.T) {
	assert.Equal(t, "mikesplumbing", businessSlug("Mike's Plumbing"))
	assert.Equal(t, "acme24", businessSlug("ACME 24!"))
	assert.Equal(t, "business", businessSlug("---"))
}
