package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdesk-ai/receptionist-platform/internal/model"
)

func newAppointment(id, customer string, status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		ID:           id,
		CustomerName: customer,
		Service:      "Leak Repair",
		Date:         time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Status:       status,
	}
}

func TestAppointmentStoreCreateAndGet(t *testing.T) {
	s := NewAppointmentStore()

	require.NoError(t, s.Create(newAppointment("a1", "Bob Johnson", model.AppointmentPending)))

	appt, err := s.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, "Bob Johnson", appt.CustomerName)
	assert.False(t, appt.DepositPaid)

	assert.Error(t, s.Create(newAppointment("a1", "Bob Johnson", model.AppointmentPending)))
	assert.Error(t, s.Create(&model.Appointment{CustomerName: "no id"}))
}

func TestAppointmentStoreUpdatePartialFields(t *testing.T) {
	s := NewAppointmentStore()
	require.NoError(t, s.Create(newAppointment("a1", "Bob Johnson", model.AppointmentPending)))

	confirmed := model.AppointmentConfirmed
	newDate := time.Date(2026, 9, 3, 14, 0, 0, 0, time.UTC)
	require.NoError(t, s.Update("a1", model.AppointmentUpdate{
		Status: &confirmed,
		Date:   &newDate,
	}))

	appt, err := s.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentConfirmed, appt.Status)
	assert.Equal(t, newDate, appt.Date)
	// Fields not named in the update are untouched.
	assert.Equal(t, "Leak Repair", appt.Service)

	assert.ErrorIs(t, s.Update("missing", model.AppointmentUpdate{Status: &confirmed}), ErrNotFound)
}

func TestAppointmentStoreFindPendingByCustomer(t *testing.T) {
	s := NewAppointmentStore()
	require.NoError(t, s.Create(newAppointment("a1", "Alice Smith", model.AppointmentConfirmed)))
	require.NoError(t, s.Create(newAppointment("a2", "Bob Johnson", model.AppointmentPending)))
	require.NoError(t, s.Create(newAppointment("a3", "Bob Johnson", model.AppointmentPending)))

	appt, ok := s.FindPendingByCustomer("Bob Johnson")
	require.True(t, ok)
	assert.Equal(t, "a2", appt.ID)

	_, ok = s.FindPendingByCustomer("Alice Smith")
	assert.False(t, ok)

	_, ok = s.FindPendingByCustomer("bob johnson") // exact match only
	assert.False(t, ok)
}

func TestAppointmentStoreFindFirstByCustomer(t *testing.T) {
	s := NewAppointmentStore()
	require.NoError(t, s.Create(newAppointment("a1", "Alice Smith", model.AppointmentConfirmed)))
	require.NoError(t, s.Create(newAppointment("a2", "Alice Smith", model.AppointmentCompleted)))

	appt, ok := s.FindFirstByCustomer("Alice Smith")
	require.True(t, ok)
	assert.Equal(t, "a1", appt.ID)

	_, ok = s.FindFirstByCustomer("Nobody")
	assert.False(t, ok)
}

func TestAppointmentStoreObserverNotified(t *testing.T) {
	s := NewAppointmentStore()

	var snapshots [][]model.Appointment
	unsub := s.Subscribe(func(appts []model.Appointment) {
		snapshots = append(snapshots, appts)
	})
	defer unsub()

	require.NoError(t, s.Create(newAppointment("a1", "Alice Smith", model.AppointmentPending)))

	require.Len(t, snapshots, 2) // immediate snapshot + create
	assert.Empty(t, snapshots[0])
	require.Len(t, snapshots[1], 1)
	assert.Equal(t, "a1", snapshots[1][0].ID)
}
