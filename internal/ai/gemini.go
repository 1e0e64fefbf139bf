package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	geminiDefaultModel = "gemini-2.5-flash"
	// Quick replies favor latency over depth.
	geminiLiteModel = "gemini-2.5-flash-lite"
	geminiProModel  = "gemini-2.5-pro"
)

// GeminiClient is the Gemini AI client.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{client: client}, nil
}

// Name returns the provider name.
func (c *GeminiClient) Name() string {
	return "gemini"
}

// QuickReplies suggests up to three short replies for the last inbound message.
func (c *GeminiClient) QuickReplies(ctx context.Context, lastMessage string) ([]string, error) {
	raw, err := c.generate(ctx, geminiLiteModel, quickRepliesPrompt(lastMessage), true)
	if err != nil {
		return nil, err
	}
	return parseQuickReplies(raw)
}

// ClassifyBooking judges whether an outbound message confirms an appointment.
func (c *GeminiClient) ClassifyBooking(ctx context.Context, messageText string, referenceTime time.Time) (*BookingDetails, error) {
	raw, err := c.generate(ctx, geminiDefaultModel, classifyBookingPrompt(messageText, referenceTime), true)
	if err != nil {
		return nil, err
	}
	return parseBookingDetails(raw)
}

// GenerateReply drafts an automated receptionist reply.
func (c *GeminiClient) GenerateReply(ctx context.Context, req *ReplyRequest) (string, error) {
	model := c.client.GenerativeModel(geminiDefaultModel)
	model.SetTemperature(0.7)
	model.SystemInstruction = &genai.Content{
		Role:  "user",
		Parts: []genai.Part{genai.Text(replySystemPrompt(req))},
	}

	cs := model.StartChat()
	for _, msg := range req.History {
		role := "user"
		if msg.Role == "assistant" || msg.Role == "model" {
			role = "model"
		}
		cs.History = append(cs.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	resp, err := cs.SendMessage(ctx, genai.Text(req.UserMessage))
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}
	return textFromResponse(resp)
}

// VoicemailTranscript generates a simulated voicemail transcript.
func (c *GeminiClient) VoicemailTranscript(ctx context.Context) (string, error) {
	model := c.client.GenerativeModel(geminiDefaultModel)
	model.SetTemperature(0.9)
	resp, err := model.GenerateContent(ctx, genai.Text(voicemailPrompt()))
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}
	return textFromResponse(resp)
}

// TranscribeAudio converts a recorded call to text.
func (c *GeminiClient) TranscribeAudio(ctx context.Context, mimeType string, data []byte) (string, error) {
	model := c.client.GenerativeModel(geminiDefaultModel)
	resp, err := model.GenerateContent(ctx,
		genai.Text(transcribePrompt()),
		genai.Blob{MIMEType: mimeType, Data: data},
	)
	if err != nil {
		return "", fmt.Errorf("gemini transcription failed: %w", err)
	}
	return textFromResponse(resp)
}

// AnalyzeStrategy produces a negotiation analysis of a conversation.
func (c *GeminiClient) AnalyzeStrategy(ctx context.Context, history string) (string, error) {
	raw, err := c.generate(ctx, geminiProModel, strategyPrompt(history), false)
	if err != nil {
		return "", err
	}
	return raw, nil
}

// Close releases resources held by the underlying client.
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *GeminiClient) generate(ctx context.Context, modelID, prompt string, jsonOutput bool) (string, error) {
	model := c.client.GenerativeModel(modelID)
	if jsonOutput {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}
	return textFromResponse(resp)
}

func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", errors.New("gemini returned empty content")
	}

	var out strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	return strings.TrimSpace(out.String()), nil
}
