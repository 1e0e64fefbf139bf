package handler

import (
	"encoding/json"
	"net/http"

	"github.com/frontdesk-ai/receptionist-platform/internal/model"
	"github.com/frontdesk-ai/receptionist-platform/internal/store"
	"github.com/frontdesk-ai/receptionist-platform/pkg/logger"
)

// ProfileHandler handles business profile endpoints.
type ProfileHandler struct {
	profile *store.ProfileStore
	logger  *logger.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profile *store.ProfileStore, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profile: profile,
		logger:  log,
	}
}

// Get handles GET /api/v1/profile
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.profile.Profile())
}

// Update handles PUT /api/v1/profile
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var profile model.BusinessProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if profile.Name == "" {
		writeError(w, http.StatusBadRequest, "business name cannot be empty")
		return
	}
	if profile.DepositAmount < 0 {
		writeError(w, http.StatusBadRequest, "deposit amount cannot be negative")
		return
	}

	h.profile.UpdateProfile(profile)
	writeJSON(w, http.StatusOK, h.profile.Profile())
}

// ListServices handles GET /api/v1/profile/services
func (h *ProfileHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.profile.Services())
}

// UpdateServices handles PUT /api/v1/profile/services
func (h *ProfileHandler) UpdateServices(w http.ResponseWriter, r *http.Request) {
	var services []model.Service
	if err := json.NewDecoder(r.Body).Decode(&services); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.profile.UpdateServices(services)
	writeJSON(w, http.StatusOK, h.profile.Services())
}
