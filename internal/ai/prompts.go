package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const maxQuickReplies = 3

func quickRepliesPrompt(lastMessage string) string {
	return fmt.Sprintf(`The last message from a customer was: %q. Suggest 3 short, professional, and distinct quick replies for a tradesman (plumber). Return ONLY a JSON array of strings.`, lastMessage)
}

func classifyBookingPrompt(messageText string, referenceTime time.Time) string {
	return fmt.Sprintf(`Analyze this text sent to a customer: %q.
Does it confirm an appointment?
If yes, return JSON with "isBooking": true, "service": string (infer if missing), "date": string (ISO 8601 format, assuming today is %s).
If no, return {"isBooking": false}.
Return ONLY the JSON object.`, messageText, referenceTime.Format(time.RFC3339))
}

func voicemailPrompt() string {
	return "Generate a short, natural voicemail transcript (20-40 words) from a homeowner calling a plumbing business. The caller should sound slightly urgent but polite. They should state their name (make one up), describe a common plumbing issue (e.g., leaking water heater, clogged kitchen sink, running toilet), and ask for a call back at their number. Output ONLY the transcript text."
}

func transcribePrompt() string {
	return "Transcribe this audio recording of a phone call to a plumbing business. Output ONLY the spoken words, without speaker labels or commentary."
}

func strategyPrompt(history string) string {
	return fmt.Sprintf(`Analyze the following conversation history between a tradesman and a customer.
Identify the customer's intent, their urgency level, and any potential blockers.
Then, provide a specific negotiation strategy for the tradesman to close the deal.

Conversation:
%s`, history)
}

func replySystemPrompt(req *ReplyRequest) string {
	var services strings.Builder
	for _, s := range req.Services {
		fmt.Fprintf(&services, "- %s: %s\n", s.Name, s.PriceRange)
	}

	return fmt.Sprintf(`You are an automated receptionist for %s, owned by %s.
Your goal is to be polite, helpful, and book appointments.

Here are the services we offer and their prices:
%s
Standard Deposit: $%d.

Guidelines:
1. If the user asks for a service, give them a price estimate from the list.
2. If the user confirms, ask for a preferred time.
3. If a time is agreed, ask for the deposit.
4. Be concise and friendly.
5. If a request is outside the list, say you will have the owner (%s) call them back.`,
		req.BusinessName, req.OwnerName, services.String(), req.DepositAmount, req.OwnerName)
}

// stripCodeFences removes markdown code fences that some models wrap around
// JSON output despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func unmarshalLenient(raw string, v any) error {
	return json.Unmarshal([]byte(stripCodeFences(raw)), v)
}

func parseQuickReplies(raw string) ([]string, error) {
	var replies []string
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &replies); err != nil {
		return nil, fmt.Errorf("ai: unparseable quick replies: %w", err)
	}
	if len(replies) > maxQuickReplies {
		replies = replies[:maxQuickReplies]
	}
	return replies, nil
}

func parseBookingDetails(raw string) (*BookingDetails, error) {
	var details BookingDetails
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &details); err != nil {
		return nil, fmt.Errorf("ai: unparseable booking classification: %w", err)
	}
	return &details, nil
}
