package ai

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/sashabaranov/go-openai"
)

const openaiDefaultModel = "gpt-4o-mini"

// OpenAIClient is the OpenAI AI client.
type OpenAIClient struct {
	client *openai.Client
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	return &OpenAIClient{client: openai.NewClient(apiKey)}, nil
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string {
	return "openai"
}

// QuickReplies suggests up to three short replies for the last inbound message.
func (c *OpenAIClient) QuickReplies(ctx context.Context, lastMessage string) ([]string, error) {
	// JSON mode requires an object, so the prompt's bare array is wrapped.
	raw, err := c.complete(ctx, "", `You return JSON only. Respond with {"replies": [...]} where replies is the requested array.`+"\n"+quickRepliesPrompt(lastMessage), true)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Replies []string `json:"replies"`
	}
	if err := unmarshalLenient(raw, &wrapped); err == nil && wrapped.Replies != nil {
		if len(wrapped.Replies) > maxQuickReplies {
			wrapped.Replies = wrapped.Replies[:maxQuickReplies]
		}
		return wrapped.Replies, nil
	}
	return parseQuickReplies(raw)
}

// ClassifyBooking judges whether an outbound message confirms an appointment.
func (c *OpenAIClient) ClassifyBooking(ctx context.Context, messageText string, referenceTime time.Time) (*BookingDetails, error) {
	raw, err := c.complete(ctx, "", classifyBookingPrompt(messageText, referenceTime), true)
	if err != nil {
		return nil, err
	}
	return parseBookingDetails(raw)
}

// GenerateReply drafts an automated receptionist reply.
func (c *OpenAIClient) GenerateReply(ctx context.Context, req *ReplyRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: replySystemPrompt(req),
	})
	for _, msg := range req.History {
		role := msg.Role
		if role == "model" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserMessage,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       openaiDefaultModel,
		Messages:    messages,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// VoicemailTranscript generates a simulated voicemail transcript.
func (c *OpenAIClient) VoicemailTranscript(ctx context.Context) (string, error) {
	return c.complete(ctx, "", voicemailPrompt(), false)
}

// TranscribeAudio converts a recorded call to text using Whisper.
func (c *OpenAIClient) TranscribeAudio(ctx context.Context, mimeType string, data []byte) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model: openai.Whisper1,
		// Whisper infers the format from the filename extension.
		FilePath: "recording" + audioExtension(mimeType),
		Reader:   bytes.NewReader(data),
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func audioExtension(mimeType string) string {
	switch mimeType {
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mp4", "audio/m4a":
		return ".m4a"
	case "audio/ogg":
		return ".ogg"
	default:
		return ".webm"
	}
}

// AnalyzeStrategy produces a negotiation analysis of a conversation.
func (c *OpenAIClient) AnalyzeStrategy(ctx context.Context, history string) (string, error) {
	return c.complete(ctx, "", strategyPrompt(history), false)
}

func (c *OpenAIClient) complete(ctx context.Context, model, prompt string, jsonOutput bool) (string, error) {
	if model == "" {
		model = openaiDefaultModel
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonOutput {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
