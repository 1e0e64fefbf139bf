package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/frontdesk-ai/receptionist-platform/internal/model"
	"github.com/frontdesk-ai/receptionist-platform/internal/store"
	"github.com/frontdesk-ai/receptionist-platform/pkg/logger"
)

// AppointmentHandler handles appointment endpoints.
type AppointmentHandler struct {
	appointments *store.AppointmentStore
	logger       *logger.Logger
}

// NewAppointmentHandler creates a new appointment handler.
func NewAppointmentHandler(appointments *store.AppointmentStore, log *logger.Logger) *AppointmentHandler {
	return &AppointmentHandler{
		appointments: appointments,
		logger:       log,
	}
}

// List handles GET /api/v1/appointments
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	appts := h.appointments.List()

	if status := r.URL.Query().Get("status"); status != "" {
		filtered := appts[:0]
		for _, a := range appts {
			if a.Status == model.AppointmentStatus(status) {
				filtered = append(filtered, a)
			}
		}
		appts = filtered
	}

	writeJSON(w, http.StatusOK, model.ListAppointmentsResponse{
		Appointments: appts,
		Total:        len(appts),
	})
}

// Get handles GET /api/v1/appointments/{id}
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	appt, err := h.appointments.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "appointment not found")
		return
	}

	writeJSON(w, http.StatusOK, appt)
}
