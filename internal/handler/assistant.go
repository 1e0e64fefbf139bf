package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/frontdesk-ai/receptionist-platform/internal/ai"
	"github.com/frontdesk-ai/receptionist-platform/internal/middleware"
	"github.com/frontdesk-ai/receptionist-platform/internal/model"
	"github.com/frontdesk-ai/receptionist-platform/internal/store"
	"github.com/frontdesk-ai/receptionist-platform/pkg/logger"
)

// AssistantHandler exposes draft-reply and strategy analysis endpoints
// backed directly by the AI provider.
type AssistantHandler struct {
	ai            ai.Client
	conversations *store.ConversationStore
	profile       *store.ProfileStore
	logger        *logger.Logger
}

// NewAssistantHandler creates a new assistant handler. The AI client may be
// nil when no provider is configured.
func NewAssistantHandler(client ai.Client, conversations *store.ConversationStore, profile *store.ProfileStore, log *logger.Logger) *AssistantHandler {
	return &AssistantHandler{
		ai:            client,
		conversations: conversations,
		profile:       profile,
		logger:        log,
	}
}

// DraftReply handles POST /api/v1/conversations/{id}/draft-reply
func (h *AssistantHandler) DraftReply(w http.ResponseWriter, r *http.Request) {
	if h.ai == nil {
		writeError(w, http.StatusServiceUnavailable, "no AI provider configured")
		return
	}

	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.conversations.Get(conversationID)
	if err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if len(conv.Messages) == 0 || conv.Messages[len(conv.Messages)-1].Sender != model.SenderUser {
		writeError(w, http.StatusConflict, "latest message is not customer-authored")
		return
	}

	profile := h.profile.Profile()
	req := &ai.ReplyRequest{
		UserMessage:   conv.Messages[len(conv.Messages)-1].Text,
		History:       historyFor(conv),
		BusinessName:  profile.Name,
		OwnerName:     profile.OwnerName,
		DepositAmount: profile.DepositAmount,
	}
	for _, svc := range h.profile.Services() {
		req.Services = append(req.Services, ai.ServicePrice{Name: svc.Name, PriceRange: svc.PriceRange})
	}

	reply, err := h.ai.GenerateReply(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to draft reply", zap.Error(err),
			zap.String("conversation_id", conversationID))
		writeError(w, http.StatusBadGateway, "failed to draft reply")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// Strategy handles GET /api/v1/conversations/{id}/strategy
func (h *AssistantHandler) Strategy(w http.ResponseWriter, r *http.Request) {
	if h.ai == nil {
		writeError(w, http.StatusServiceUnavailable, "no AI provider configured")
		return
	}

	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := h.conversations.Get(conversationID)
	if err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	analysis, err := h.ai.AnalyzeStrategy(r.Context(), transcriptFor(conv))
	if err != nil {
		h.logger.Error("failed to analyze strategy", zap.Error(err),
			zap.String("conversation_id", conversationID))
		writeError(w, http.StatusBadGateway, "failed to analyze conversation")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"analysis": analysis})
}

// maxAudioBytes caps uploaded call recordings at 10 MB.
const maxAudioBytes = 10 << 20

// Transcribe handles POST /api/v1/transcriptions. The request body is the
// raw audio; Content-Type carries its MIME type.
func (h *AssistantHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if h.ai == nil {
		writeError(w, http.StatusServiceUnavailable, "no AI provider configured")
		return
	}

	mimeType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "audio/") {
		writeError(w, http.StatusUnsupportedMediaType, "audio content type required")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxAudioBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read audio")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "audio body is empty")
		return
	}
	if len(data) > maxAudioBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "audio exceeds 10MB limit")
		return
	}

	text, err := h.ai.TranscribeAudio(r.Context(), mimeType, data)
	if err != nil {
		if errors.Is(err, ai.ErrTranscriptionUnsupported) {
			writeError(w, http.StatusNotImplemented, "transcription not supported by configured provider")
			return
		}
		h.logger.Error("failed to transcribe audio", zap.Error(err),
			zap.String("mime_type", mimeType))
		writeError(w, http.StatusBadGateway, "failed to transcribe audio")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

// historyFor maps conversation messages to provider chat roles, dropping the
// final customer message which is passed separately as the prompt.
func historyFor(conv *model.Conversation) []ai.ChatMessage {
	msgs := conv.Messages[:len(conv.Messages)-1]
	out := make([]ai.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		role := "model"
		if m.Sender == model.SenderUser {
			role = "user"
		}
		out = append(out, ai.ChatMessage{Role: role, Content: m.Text})
	}
	return out
}

func transcriptFor(conv *model.Conversation) string {
	var b strings.Builder
	for _, m := range conv.Messages {
		fmt.Fprintf(&b, "%s: %s\n", m.Sender, m.Text)
	}
	return b.String()
}
