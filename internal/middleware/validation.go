package middleware

import (
	"errors"
	"unicode/utf8"
)

// ValidateMessageText validates outbound message text.
func ValidateMessageText(text string) error {
	if len(text) == 0 {
		return errors.New("text cannot be empty")
	}
	if len(text) > 100000 { // ~100KB limit
		return errors.New("text exceeds maximum length")
	}
	if !utf8.ValidString(text) {
		return errors.New("text must be valid UTF-8")
	}
	return nil
}

// ValidateConversationID validates a conversation ID. IDs are opaque
// strings, not UUIDs, so only length is checked.
func ValidateConversationID(id string) error {
	if len(id) == 0 {
		return errors.New("conversation ID cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("conversation ID exceeds maximum length")
	}
	return nil
}

// ValidateCustomerName validates a customer display name.
func ValidateCustomerName(name string) error {
	if len(name) == 0 {
		return errors.New("customer name cannot be empty")
	}
	if len(name) > 256 {
		return errors.New("customer name exceeds maximum length")
	}
	if !utf8.ValidString(name) {
		return errors.New("customer name must be valid UTF-8")
	}
	return nil
}
