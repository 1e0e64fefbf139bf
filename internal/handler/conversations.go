// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/frontdesk-ai/receptionist-platform/internal/middleware"
	"github.com/frontdesk-ai/receptionist-platform/internal/model"
	"github.com/frontdesk-ai/receptionist-platform/internal/orchestrator"
	"github.com/frontdesk-ai/receptionist-platform/internal/store"
	"github.com/frontdesk-ai/receptionist-platform/pkg/logger"
)

// ConversationHandler handles conversation endpoints.
type ConversationHandler struct {
	conversations *store.ConversationStore
	orchestrator  *orchestrator.Orchestrator
	logger        *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(conversations *store.ConversationStore, orch *orchestrator.Orchestrator, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		orchestrator:  orch,
		logger:        log,
	}
}

// List handles GET /api/v1/conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	convs := h.conversations.List()
	writeJSON(w, http.StatusOK, model.ListConversationsResponse{
		Conversations: convs,
		Total:         len(convs),
	})
}

// Get handles GET /api/v1/conversations/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	writeJSON(w, http.StatusOK, conv)
}

// Create handles POST /api/v1/conversations
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateCustomerName(req.CustomerName); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv := &model.Conversation{
		ID:            uuid.Must(uuid.NewV7()).String(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Status:        model.ConversationActive,
		AIStatus:      model.AIActive,
	}
	if req.Greeting != "" {
		conv.Messages = []model.Message{{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Sender:    model.SenderUser,
			Text:      req.Greeting,
			Timestamp: time.Now().UTC(),
		}}
		conv.Unread = true
	}

	if err := h.conversations.Create(conv); err != nil {
		h.logger.Error("failed to create conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create conversation")
		return
	}

	writeJSON(w, http.StatusCreated, conv)
}

// Delete handles DELETE /api/v1/conversations/{id}
func (h *ConversationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.conversations.Delete(conversationID); err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	h.orchestrator.ConversationRemoved(conversationID)

	w.WriteHeader(http.StatusNoContent)
}

// MarkRead handles POST /api/v1/conversations/{id}/read
func (h *ConversationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.conversations.MarkRead(conversationID); err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type setStatusRequest struct {
	Status model.ConversationStatus `json:"status"`
}

// SetStatus handles PUT /api/v1/conversations/{id}/status
func (h *ConversationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Status {
	case model.ConversationActive, model.ConversationArchived, model.ConversationSpam:
	default:
		writeError(w, http.StatusBadRequest, "invalid conversation status")
		return
	}

	if err := h.conversations.SetStatus(conversationID, req.Status); err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetAIStatus handles PUT /api/v1/conversations/{id}/ai-status
func (h *ConversationHandler) SetAIStatus(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.SetAIStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != model.AIActive && req.Status != model.AIPaused {
		writeError(w, http.StatusBadRequest, "invalid ai status")
		return
	}

	if err := h.orchestrator.SetAIStatus(conversationID, req.Status); err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]model.AIStatus{"ai_status": req.Status})
}

// ToggleAIStatus handles POST /api/v1/conversations/{id}/ai-status/toggle
func (h *ConversationHandler) ToggleAIStatus(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.orchestrator.ToggleAIStatus(conversationID)
	if err != nil {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]model.AIStatus{"ai_status": status})
}

// SimulateMissedCall handles POST /api/v1/conversations/missed-call
func (h *ConversationHandler) SimulateMissedCall(w http.ResponseWriter, r *http.Request) {
	conv, err := h.orchestrator.CreateMissedCallConversation(r.Context())
	if err != nil {
		h.logger.Error("failed to create missed call conversation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create missed call conversation")
		return
	}

	writeJSON(w, http.StatusCreated, conv)
}
