// Package model defines data structures for the receptionist platform.
package model

import (
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser   Sender = "user"
	SenderBot    Sender = "bot"
	SenderSystem Sender = "system"
)

// AIStatus governs whether the automated assistant is in control of a
// conversation or a human operator has taken over.
type AIStatus string

const (
	AIActive AIStatus = "active"
	AIPaused AIStatus = "paused"
)

// ConversationStatus is a presentation flag; the orchestration core never
// mutates it.
type ConversationStatus string

const (
	ConversationActive   ConversationStatus = "active"
	ConversationArchived ConversationStatus = "archived"
	ConversationSpam     ConversationStatus = "spam"
)

// Message is a single entry in a conversation. Messages are immutable once
// appended; corrections are new messages, never edits.
type Message struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is a customer conversation thread. Messages are append-only
// and LastMessage always mirrors the text of the final element.
type Conversation struct {
	ID            string             `json:"id"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone"`
	LastMessage   string             `json:"last_message"`
	Unread        bool               `json:"unread"`
	Status        ConversationStatus `json:"status"`
	AIStatus      AIStatus           `json:"ai_status"`
	Messages      []Message          `json:"messages"`
}

// Clone returns a deep copy so store snapshots cannot be mutated by callers.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.Messages = make([]Message, len(c.Messages))
	copy(cp.Messages, c.Messages)
	return &cp
}

// SendMessageRequest is the request to send an outbound message.
type SendMessageRequest struct {
	Text string `json:"text"`
}

// CreateConversationRequest is the request to create a new conversation.
type CreateConversationRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	Greeting      string `json:"greeting,omitempty"`
}

// SetAIStatusRequest is the request to set handoff state to an explicit target.
type SetAIStatusRequest struct {
	Status AIStatus `json:"status"`
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
}
