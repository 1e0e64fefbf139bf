package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/frontdesk-ai/receptionist-platform/internal/middleware"
	"github.com/frontdesk-ai/receptionist-platform/internal/orchestrator"
	"github.com/frontdesk-ai/receptionist-platform/internal/store"
	"github.com/frontdesk-ai/receptionist-platform/pkg/logger"
)

// SuggestionHandler handles quick reply suggestion endpoints.
type SuggestionHandler struct {
	orchestrator *orchestrator.Orchestrator
	logger       *logger.Logger
}

// NewSuggestionHandler creates a new suggestion handler.
func NewSuggestionHandler(orch *orchestrator.Orchestrator, log *logger.Logger) *SuggestionHandler {
	return &SuggestionHandler{
		orchestrator: orch,
		logger:       log,
	}
}

// Get handles GET /api/v1/conversations/{id}/suggestions
func (h *SuggestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.orchestrator.Suggestions(conversationID))
}

// Refresh handles POST /api/v1/conversations/{id}/suggestions/refresh
func (h *SuggestionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.orchestrator.RefreshSuggestions(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to refresh suggestions")
		return
	}

	writeJSON(w, http.StatusOK, view)
}
