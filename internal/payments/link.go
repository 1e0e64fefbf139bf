// Package payments generates deposit payment links and the message text that
// carries them. Everything here is pure and synchronous; no real transfer
// happens and no network failure is modeled.
package payments

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"github.com/frontdesk-ai/receptionist-platform/internal/model"
)

const linkSlugLength = 8

// CurrencySymbol maps an ISO currency code to its display symbol.
func CurrencySymbol(currency string) string {
	switch currency {
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	default:
		return "$"
	}
}

// ProviderDisplayName returns the human-readable provider name used in
// settlement announcements.
func ProviderDisplayName(provider model.PaymentProvider) string {
	switch provider {
	case model.PaymentStripe:
		return "Stripe"
	case model.PaymentPayPal:
		return "PayPal"
	default:
		return "Webhook"
	}
}

// Link produces a payment link for the configured provider and amount.
func Link(provider model.PaymentProvider, businessName string, amount int) string {
	switch provider {
	case model.PaymentStripe:
		return fmt.Sprintf("invoice.stripe.com/%s", randomSlug(linkSlugLength))
	case model.PaymentPayPal:
		return fmt.Sprintf("paypal.me/%s/%d", businessSlug(businessName), amount)
	default:
		return "pay.link/deposit"
	}
}

// RequestMessage builds the deposit-request text sent to the customer.
func RequestMessage(profile model.BusinessProfile) string {
	amount := profile.DepositAmount
	if amount <= 0 {
		amount = 50
	}
	symbol := CurrencySymbol(profile.Payment.Currency)
	link := Link(profile.Payment.Provider, profile.Name, amount)
	return fmt.Sprintf("To confirm, please pay the %s%d deposit here: %s", symbol, amount, link)
}

// SettlementMessage builds the system announcement appended when a simulated
// payment settles.
func SettlementMessage(profile model.BusinessProfile) string {
	amount := profile.DepositAmount
	if amount <= 0 {
		amount = 50
	}
	symbol := CurrencySymbol(profile.Payment.Currency)
	return fmt.Sprintf("💰 System: Payment of %s%d.00 received via %s.",
		symbol, amount, ProviderDisplayName(profile.Payment.Provider))
}

// businessSlug lowercases a business name and strips everything that is not a
// letter or digit, e.g. "Mike's Plumbing" -> "mikesplumbing".
func businessSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "business"
	}
	return b.String()
}

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSlug(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = slugAlphabet[rand.Intn(len(slugAlphabet))]
	}
	return string(b)
}
