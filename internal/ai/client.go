// Package ai provides generative-AI client interfaces and implementations.
package ai

import (
	"context"
	"errors"
	"time"
)

// ErrTranscriptionUnsupported is returned by providers whose API accepts no
// audio input.
var ErrTranscriptionUnsupported = errors.New("ai: provider does not support audio transcription")

// ChatMessage represents a chat message for the AI provider.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ReplyRequest carries the context needed to draft an automated reply.
type ReplyRequest struct {
	UserMessage   string
	History       []ChatMessage
	BusinessName  string
	OwnerName     string
	DepositAmount int
	Services      []ServicePrice
}

// ServicePrice pairs a service name with its display price range.
type ServicePrice struct {
	Name       string
	PriceRange string
}

// BookingDetails is the structured judgment for an outbound message: whether
// it confirms an appointment, and on what service/date.
type BookingDetails struct {
	IsBooking bool   `json:"isBooking"`
	Service   string `json:"service,omitempty"`
	Date      string `json:"date,omitempty"` // ISO-8601
}

// Client is the interface for generative-AI providers.
type Client interface {
	// QuickReplies suggests up to three short replies for the last inbound
	// message.
	QuickReplies(ctx context.Context, lastMessage string) ([]string, error)

	// ClassifyBooking judges whether an outbound message confirms an
	// appointment, resolving relative dates against referenceTime.
	ClassifyBooking(ctx context.Context, messageText string, referenceTime time.Time) (*BookingDetails, error)

	// GenerateReply drafts an automated receptionist reply.
	GenerateReply(ctx context.Context, req *ReplyRequest) (string, error)

	// VoicemailTranscript generates a simulated voicemail transcript.
	VoicemailTranscript(ctx context.Context) (string, error)

	// TranscribeAudio converts a recorded call to text. Providers without
	// audio input return ErrTranscriptionUnsupported.
	TranscribeAudio(ctx context.Context, mimeType string, data []byte) (string, error)

	// AnalyzeStrategy produces a negotiation analysis of a conversation.
	AnalyzeStrategy(ctx context.Context, history string) (string, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of AI provider.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// NewClient creates a new AI client based on provider.
func NewClient(ctx context.Context, provider Provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey)
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey)
	default:
		return NewGeminiClient(ctx, apiKey)
	}
}
