package store

import (
	"time"

	"github.com/frontdesk-ai/receptionist-platform/internal/model"
)

// SeedDemoData loads the demo conversations and appointments used when the
// server runs without real traffic.
func SeedDemoData(conversations *ConversationStore, appointments *AppointmentStore) {
	now := time.Now()
	greeting := "Hi! This is Mike's automated assistant. I'm currently on a job. How can I help you today?"

	_ = conversations.Create(&model.Conversation{
		ID:            "c2",
		CustomerName:  "Unknown (555-0000)",
		CustomerPhone: "(555) 000-0000",
		Unread:        true,
		Status:        model.ConversationActive,
		AIStatus:      model.AIActive,
		Messages: []model.Message{
			{ID: "m9", Sender: model.SenderBot, Text: greeting, Timestamp: now.Add(-2 * time.Minute)},
			{ID: "m10", Sender: model.SenderUser, Text: "How much for a toilet replacement?", Timestamp: now.Add(-1 * time.Minute)},
		},
	})

	_ = conversations.Create(&model.Conversation{
		ID:            "c1",
		CustomerName:  "Alice Smith",
		CustomerPhone: "(555) 987-6543",
		Status:        model.ConversationActive,
		AIStatus:      model.AIActive,
		Messages: []model.Message{
			{ID: "m1", Sender: model.SenderBot, Text: greeting, Timestamp: now.Add(-24 * time.Hour)},
			{ID: "m2", Sender: model.SenderUser, Text: "I need a new faucet installed.", Timestamp: now.Add(-23 * time.Hour)},
			{ID: "m3", Sender: model.SenderBot, Text: "I can help with that. For a standard faucet install, we typically charge between $150-$200. Does that work for you?", Timestamp: now.Add(-22 * time.Hour)},
			{ID: "m4", Sender: model.SenderUser, Text: "Yes that works.", Timestamp: now.Add(-21 * time.Hour)},
			{ID: "m5", Sender: model.SenderBot, Text: "Great. I have openings tomorrow at 10 AM or 1 PM. Which works?", Timestamp: now.Add(-20 * time.Hour)},
			{ID: "m6", Sender: model.SenderUser, Text: "10 AM please.", Timestamp: now.Add(-19 * time.Hour)},
			{ID: "m7", Sender: model.SenderBot, Text: "You're booked for 10 AM tomorrow! Please pay the $50 deposit to confirm.", Timestamp: now.Add(-18 * time.Hour)},
			{ID: "m8", Sender: model.SenderUser, Text: "Great, see you then.", Timestamp: now.Add(-17 * time.Hour)},
		},
	})

	_ = appointments.Create(&model.Appointment{
		ID:           "1",
		CustomerName: "Alice Smith",
		Service:      "Faucet Install",
		Date:         now.Add(24 * time.Hour),
		Status:       model.AppointmentConfirmed,
		DepositPaid:  true,
	})
	_ = appointments.Create(&model.Appointment{
		ID:           "2",
		CustomerName: "Bob Johnson",
		Service:      "Leak Repair",
		Date:         now.Add(72 * time.Hour),
		Status:       model.AppointmentPending,
		DepositPaid:  false,
	})
}
