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

// DepositHandler handles deposit request workflow endpoints.
type DepositHandler struct {
	orchestrator *orchestrator.Orchestrator
	logger       *logger.Logger
}

// NewDepositHandler creates a new deposit handler.
func NewDepositHandler(orch *orchestrator.Orchestrator, log *logger.Logger) *DepositHandler {
	return &DepositHandler{
		orchestrator: orch,
		logger:       log,
	}
}

// Get handles GET /api/v1/conversations/{id}/deposit
func (h *DepositHandler) Get(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.orchestrator.Deposit(conversationID))
}

// Request handles POST /api/v1/conversations/{id}/deposit/request
func (h *DepositHandler) Request(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	view, err := h.orchestrator.RequestDeposit(conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to prepare deposit request")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Confirm handles POST /api/v1/conversations/{id}/deposit/confirm
func (h *DepositHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.orchestrator.ConfirmDeposit(conversationID)
	if err != nil {
		if errors.Is(err, orchestrator.ErrNoDepositPending) {
			writeError(w, http.StatusConflict, "no deposit request awaiting confirmation")
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to confirm deposit request")
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}

// Cancel handles POST /api/v1/conversations/{id}/deposit/cancel
func (h *DepositHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.orchestrator.CancelDeposit(conversationID); err != nil {
		writeError(w, http.StatusConflict, "no deposit request awaiting confirmation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
