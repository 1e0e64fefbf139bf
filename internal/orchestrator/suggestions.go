package orchestrator

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/frontdesk-ai/receptionist-platform/internal/model"
	"github.com/frontdesk-ai/receptionist-platform/pkg/metrics"
)

// depositVocabulary is the heuristic used to detect deposit intent in the
// provider's suggestion text. Substring matching can misfire on unrelated
// text; the heuristic is kept as-is because tightening it would change
// observable behavior.
var depositVocabulary = []string{"deposit", "payment", "link"}

type suggestionState struct {
	replies      []string
	messageCount int // count the replies were fetched for
}

// SuggestionView is the gated suggestion state surfaced to the operator.
type SuggestionView struct {
	QuickReplies     []string `json:"quick_replies"`
	ShowQuickReplies bool     `json:"show_quick_replies"`
	DepositSuggested bool     `json:"deposit_suggested"`
}

// RefreshSuggestions fetches quick replies for a conversation when its latest
// message is customer-authored. Any other latest sender clears suggestions.
// Fetches are keyed on the conversation's message count so unrelated calls do
// not re-hit the provider.
func (o *Orchestrator) RefreshSuggestions(ctx context.Context, conversationID string) (SuggestionView, error) {
	conv, err := o.conversations.Get(conversationID)
	if err != nil {
		return SuggestionView{}, err
	}

	if len(conv.Messages) == 0 || conv.Messages[len(conv.Messages)-1].Sender != model.SenderUser {
		o.clearSuggestions(conversationID)
		return o.Suggestions(conversationID), nil
	}

	count := len(conv.Messages)
	o.mu.Lock()
	if state, ok := o.suggestions[conversationID]; ok && state.messageCount == count {
		o.mu.Unlock()
		return o.Suggestions(conversationID), nil
	}
	o.mu.Unlock()

	lastText := conv.Messages[count-1].Text
	replies := o.fetchQuickReplies(ctx, lastText)

	o.mu.Lock()
	o.suggestions[conversationID] = &suggestionState{replies: replies, messageCount: count}
	if hasDepositIntent(replies) {
		dep := o.depositLocked(conversationID)
		if dep.state == depositIdle || dep.state == depositSent {
			dep.state = depositSuggested
		}
	} else if dep, ok := o.deposits[conversationID]; ok && dep.state == depositSuggested {
		dep.state = depositIdle
	}
	o.mu.Unlock()

	return o.Suggestions(conversationID), nil
}

// Suggestions returns the currently surfaced suggestion state for a
// conversation, applying the gating rules: quick replies are hidden while the
// AI is paused and whenever a deposit suggestion is active, so the operator
// never sees competing calls to action.
func (o *Orchestrator) Suggestions(conversationID string) SuggestionView {
	conv, err := o.conversations.Get(conversationID)
	if err != nil {
		return SuggestionView{}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	view := SuggestionView{}
	if state, ok := o.suggestions[conversationID]; ok {
		view.QuickReplies = state.replies
	}
	if dep, ok := o.deposits[conversationID]; ok {
		view.DepositSuggested = dep.state == depositSuggested
	}
	view.ShowQuickReplies = len(view.QuickReplies) > 0 &&
		conv.AIStatus != model.AIPaused &&
		!view.DepositSuggested
	return view
}

func (o *Orchestrator) clearSuggestions(conversationID string) {
	o.mu.Lock()
	delete(o.suggestions, conversationID)
	if dep, ok := o.deposits[conversationID]; ok && dep.state == depositSuggested {
		dep.state = depositIdle
	}
	o.mu.Unlock()
}

// fetchQuickReplies returns an empty slice on any provider failure.
func (o *Orchestrator) fetchQuickReplies(ctx context.Context, lastMessage string) []string {
	if o.provider == nil {
		return nil
	}
	start := time.Now()
	replies, err := o.provider.QuickReplies(ctx, lastMessage)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.RecordAIRequest(o.provider.Name(), "quick_replies", status, time.Since(start).Seconds())
	if err != nil {
		metrics.SuggestionFetchesTotal.WithLabelValues("error").Inc()
		o.logger.Warn("quick reply fetch failed", zap.Error(err))
		return nil
	}
	metrics.SuggestionFetchesTotal.WithLabelValues("ok").Inc()
	return replies
}

func hasDepositIntent(replies []string) bool {
	for _, reply := range replies {
		lower := strings.ToLower(reply)
		for _, word := range depositVocabulary {
			if strings.Contains(lower, word) {
				return true
			}
		}
	}
	return false
}
