package model

// TelephonyProvider identifies the configured telephony backend.
type TelephonyProvider string

const (
	TelephonyTwilio    TelephonyProvider = "twilio"
	TelephonyVapi      TelephonyProvider = "vapi"
	TelephonySimulated TelephonyProvider = "simulated"
)

// TelephonyConfig holds phone-line settings for the business.
type TelephonyConfig struct {
	Provider           TelephonyProvider `json:"provider"`
	PhoneNumber        string            `json:"phone_number"`
	ForwardingNumber   string            `json:"forwarding_number"`
	Voice              string            `json:"voice"`
	IsForwardingActive bool              `json:"is_forwarding_active"`
}

// PaymentProvider identifies the configured payment backend.
type PaymentProvider string

const (
	PaymentStripe PaymentProvider = "stripe"
	PaymentPayPal PaymentProvider = "paypal"
	PaymentMock   PaymentProvider = "mock"
)

// PaymentConfig holds payment-link settings for the business.
type PaymentConfig struct {
	Provider    PaymentProvider `json:"provider"`
	Currency    string          `json:"currency"`
	IsConnected bool            `json:"is_connected"`
}

// Service is an offered trade service with a display price range.
type Service struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceRange string `json:"price_range"`
}

// BusinessProfile is the business configuration consumed by the orchestration
// core. The core reads it but never writes it.
type BusinessProfile struct {
	Name            string          `json:"name"`
	OwnerName       string          `json:"owner_name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	AutoReplyScript string          `json:"auto_reply_script"`
	DepositAmount   int             `json:"deposit_amount"`
	Telephony       TelephonyConfig `json:"telephony"`
	Payment         PaymentConfig   `json:"payment"`
}

// DefaultProfile returns the seed business profile.
func DefaultProfile() BusinessProfile {
	return BusinessProfile{
		Name:            "Mike's Plumbing",
		OwnerName:       "Mike",
		Email:           "mike@mikesplumbing.com",
		Phone:           "(555) 123-4567",
		AutoReplyScript: "Hi! This is Mike's automated assistant. I'm currently on a job. How can I help you today?",
		DepositAmount:   50,
		Telephony: TelephonyConfig{
			Provider:           TelephonySimulated,
			PhoneNumber:        "(555) 012-3456",
			ForwardingNumber:   "(555) 123-4567",
			Voice:              "alloy",
			IsForwardingActive: true,
		},
		Payment: PaymentConfig{
			Provider:    PaymentMock,
			Currency:    "USD",
			IsConnected: true,
		},
	}
}

// DefaultServices returns the seed service catalog.
func DefaultServices() []Service {
	return []Service{
		{ID: "1", Name: "Faucet Install", PriceRange: "$150 - $200"},
		{ID: "2", Name: "Clog Removal", PriceRange: "$120 - $180"},
		{ID: "3", Name: "Leak Repair", PriceRange: "$200+"},
		{ID: "4", Name: "Water Heater Flush", PriceRange: "$150"},
	}
}
