package store

import (
	"errors"
	"sync"

	"github.com/frontdesk-ai/receptionist-platform/internal/model"
)

// AppointmentStore owns appointment lifetime.
type AppointmentStore struct {
	mu           sync.RWMutex
	appointments map[string]*model.Appointment
	order        []string // insertion order
	observers    map[int]func([]model.Appointment)
	nextObserver int
}

// NewAppointmentStore creates an empty appointment store.
func NewAppointmentStore() *AppointmentStore {
	return &AppointmentStore{
		appointments: make(map[string]*model.Appointment),
		observers:    make(map[int]func([]model.Appointment)),
	}
}

// Subscribe registers an observer. It is invoked immediately with the current
// snapshot and again after every mutation.
func (s *AppointmentStore) Subscribe(fn func([]model.Appointment)) UnsubscribeFunc {
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

// List returns all appointments in insertion order.
func (s *AppointmentStore) List() []model.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Get retrieves an appointment by ID.
func (s *AppointmentStore) Get(id string) (*model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.appointments[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *appt
	return &cp, nil
}

// Create adds a new appointment.
func (s *AppointmentStore) Create(appt *model.Appointment) error {
	if appt.ID == "" {
		return errors.New("store: appointment requires an id")
	}

	s.mu.Lock()
	if _, exists := s.appointments[appt.ID]; exists {
		s.mu.Unlock()
		return errors.New("store: appointment already exists")
	}
	cp := *appt
	s.appointments[appt.ID] = &cp
	s.order = append(s.order, appt.ID)
	snapshot, observers := s.changedLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
	return nil
}

// Update applies partial fields to an appointment.
func (s *AppointmentStore) Update(id string, update model.AppointmentUpdate) error {
	s.mu.Lock()
	appt, ok := s.appointments[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if update.Service != nil {
		appt.Service = *update.Service
	}
	if update.Date != nil {
		appt.Date = *update.Date
	}
	if update.Status != nil {
		appt.Status = *update.Status
	}
	if update.DepositPaid != nil {
		appt.DepositPaid = *update.DepositPaid
	}
	snapshot, observers := s.changedLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
	return nil
}

// FindPendingByCustomer returns the first pending appointment whose customer
// name matches exactly. Matching by display name can misattribute appointments
// when two conversations share a name; this mirrors the booking pipeline's
// documented behavior.
func (s *AppointmentStore) FindPendingByCustomer(customerName string) (*model.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		appt := s.appointments[id]
		if appt.CustomerName == customerName && appt.Status == model.AppointmentPending {
			cp := *appt
			return &cp, true
		}
	}
	return nil, false
}

// FindFirstByCustomer returns the first appointment for a customer regardless
// of status.
func (s *AppointmentStore) FindFirstByCustomer(customerName string) (*model.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.order {
		appt := s.appointments[id]
		if appt.CustomerName == customerName {
			cp := *appt
			return &cp, true
		}
	}
	return nil, false
}

func (s *AppointmentStore) snapshotLocked() []model.Appointment {
	out := make([]model.Appointment, 0, len(s.order))
	for _, id := range s.order {
		if appt, ok := s.appointments[id]; ok {
			out = append(out, *appt)
		}
	}
	return out
}

func (s *AppointmentStore) changedLocked() ([]model.Appointment, []func([]model.Appointment)) {
	observers := make([]func([]model.Appointment), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	return s.snapshotLocked(), observers
}
