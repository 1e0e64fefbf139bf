// Package store provides in-memory stores with subscriber notification.
//
// Each store guards a single mapping from ID to record behind a mutex and
// notifies an explicit observer list on every mutation. Would be replaced
// with a database in production.
package store

import (
	"errors"
	"sync"

	"github.com/frontdesk-ai/receptionist-platform/internal/model"
	"github.com/frontdesk-ai/receptionist-platform/pkg/metrics"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("store: not found")

// UnsubscribeFunc removes a previously registered observer.
type UnsubscribeFunc func()

// ConversationStore owns conversation and message lifetime.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations map[string]*model.Conversation
	order         []string // newest first
	observers     map[int]func([]model.Conversation)
	nextObserver  int
}

// NewConversationStore creates an empty conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		conversations: make(map[string]*model.Conversation),
		observers:     make(map[int]func([]model.Conversation)),
	}
}

// Subscribe registers an observer. It is invoked immediately with the current
// snapshot and again after every mutation.
func (s *ConversationStore) Subscribe(fn func([]model.Conversation)) UnsubscribeFunc {
	s.mu.Lock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	fn(snapshot)

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// List returns all conversations, newest first.
func (s *ConversationStore) List() []model.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Get retrieves a conversation by ID.
func (s *ConversationStore) Get(id string) (*model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return conv.Clone(), nil
}

// Create adds a new conversation. An absent AI status defaults to active. A
// caller-supplied LastMessage is kept as the preview text (missed calls use
// "Voicemail Received" rather than the transcription body); when empty it is
// derived from the final seeded message.
func (s *ConversationStore) Create(conv *model.Conversation) error {
	if conv.ID == "" {
		return errors.New("store: conversation requires an id")
	}
	if conv.AIStatus == "" {
		conv.AIStatus = model.AIActive
	}
	if conv.LastMessage == "" && len(conv.Messages) > 0 {
		conv.LastMessage = conv.Messages[len(conv.Messages)-1].Text
	}

	s.mu.Lock()
	if _, exists := s.conversations[conv.ID]; exists {
		s.mu.Unlock()
		return errors.New("store: conversation already exists")
	}
	s.conversations[conv.ID] = conv.Clone()
	s.order = append([]string{conv.ID}, s.order...)
	snapshot, observers := s.changedLocked()
	s.mu.Unlock()

	metrics.ConversationsTotal.Inc()
	notify(observers, snapshot)
	return nil
}

// AppendMessage appends a message to a conversation. The message list and
// LastMessage are updated under one lock hold, so the mirror invariant holds
// for every observer snapshot. Appends for a single conversation are
// serialized by the store mutex, preserving call order.
func (s *ConversationStore) AppendMessage(conversationID string, msg model.Message) error {
	s.mu.Lock()
	conv, ok := s.conversations[conversationID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	conv.Messages = append(conv.Messages, msg)
	conv.LastMessage = msg.Text
	snapshot, observers := s.changedLocked()
	s.mu.Unlock()

	metrics.MessagesTotal.WithLabelValues(string(msg.Sender)).Inc()
	notify(observers, snapshot)
	return nil
}

// SetAIStatus persists the handoff state for a conversation.
func (s *ConversationStore) SetAIStatus(conversationID string, status model.AIStatus) error {
	s.mu.Lock()
	conv, ok := s.conversations[conversationID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	conv.AIStatus = status
	snapshot, observers := s.changedLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
	return nil
}

// SetStatus updates the lifecycle status (active, archived, spam).
func (s *ConversationStore) SetStatus(conversationID string, status model.ConversationStatus) error {
	s.mu.Lock()
	conv, ok := s.conversations[conversationID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	conv.Status = status
	snapshot, observers := s.changedLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
	return nil
}

// MarkRead clears the unread flag.
func (s *ConversationStore) MarkRead(conversationID string) error {
	s.mu.Lock()
	conv, ok := s.conversations[conversationID]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	conv.Unread = false
	snapshot, observers := s.changedLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
	return nil
}

// Delete removes a conversation entirely.
func (s *ConversationStore) Delete(conversationID string) error {
	s.mu.Lock()
	if _, ok := s.conversations[conversationID]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.conversations, conversationID)
	for i, id := range s.order {
		if id == conversationID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	snapshot, observers := s.changedLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
	return nil
}

func (s *ConversationStore) snapshotLocked() []model.Conversation {
	out := make([]model.Conversation, 0, len(s.order))
	for _, id := range s.order {
		if conv, ok := s.conversations[id]; ok {
			out = append(out, *conv.Clone())
		}
	}
	return out
}

func (s *ConversationStore) changedLocked() ([]model.Conversation, []func([]model.Conversation)) {
	observers := make([]func([]model.Conversation), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	return s.snapshotLocked(), observers
}

func notify[T any](observers []func(T), snapshot T) {
	for _, fn := range observers {
		fn(snapshot)
	}
}
