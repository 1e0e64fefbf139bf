package model

import (
	"time"
)

// AppointmentStatus is the lifecycle state of an appointment.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
)

// Appointment is a scheduled job for a customer. Appointments transition
// pending -> confirmed -> completed; no transition removes one.
type Appointment struct {
	ID           string            `json:"id"`
	CustomerName string            `json:"customer_name"`
	Service      string            `json:"service"`
	Date         time.Time         `json:"date"`
	Status       AppointmentStatus `json:"status"`
	DepositPaid  bool              `json:"deposit_paid"`
}

// AppointmentUpdate carries partial fields for an appointment mutation.
// Nil fields are left untouched.
type AppointmentUpdate struct {
	Service     *string            `json:"service,omitempty"`
	Date        *time.Time         `json:"date,omitempty"`
	Status      *AppointmentStatus `json:"status,omitempty"`
	DepositPaid *bool              `json:"deposit_paid,omitempty"`
}

// ListAppointmentsResponse is the response for listing appointments.
type ListAppointmentsResponse struct {
	Appointments []Appointment `json:"appointments"`
	Total        int           `json:"total"`
}
