package ai

import (
	"context"
	"errors"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicDefaultModel = "claude-3-5-haiku-20241022"

// AnthropicClient is the Anthropic AI client.
type AnthropicClient struct {
	client *anthropic.Client
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(apiKey string) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}

	return &AnthropicClient{client: anthropic.NewClient(option.WithAPIKey(apiKey))}, nil
}

// Name returns the provider name.
func (c *AnthropicClient) Name() string {
	return "anthropic"
}

// QuickReplies suggests up to three short replies for the last inbound message.
func (c *AnthropicClient) QuickReplies(ctx context.Context, lastMessage string) ([]string, error) {
	raw, err := c.complete(ctx, "", quickRepliesPrompt(lastMessage))
	if err != nil {
		return nil, err
	}
	return parseQuickReplies(raw)
}

// ClassifyBooking judges whether an outbound message confirms an appointment.
func (c *AnthropicClient) ClassifyBooking(ctx context.Context, messageText string, referenceTime time.Time) (*BookingDetails, error) {
	raw, err := c.complete(ctx, "", classifyBookingPrompt(messageText, referenceTime))
	if err != nil {
		return nil, err
	}
	return parseBookingDetails(raw)
}

// GenerateReply drafts an automated receptionist reply.
func (c *AnthropicClient) GenerateReply(ctx context.Context, req *ReplyRequest) (string, error) {
	messages := make([]anthropic.MessageParam, 0, len(req.History)+1)
	for _, msg := range req.History {
		role := anthropic.MessageParamRoleUser
		if msg.Role == "assistant" || msg.Role == "model" {
			role = anthropic.MessageParamRoleAssistant
		}
		messages = append(messages, textMessage(role, msg.Content))
	}
	messages = append(messages, textMessage(anthropic.MessageParamRoleUser, req.UserMessage))

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(anthropicDefaultModel),
		MaxTokens: anthropic.F(int64(1024)),
		System: anthropic.F([]anthropic.TextBlockParam{{
			Type: anthropic.F(anthropic.TextBlockParamTypeText),
			Text: anthropic.F(replySystemPrompt(req)),
		}}),
		Messages: anthropic.F(messages),
	})
	if err != nil {
		return "", err
	}
	return textFromBlocks(resp)
}

// VoicemailTranscript generates a simulated voicemail transcript.
func (c *AnthropicClient) VoicemailTranscript(ctx context.Context) (string, error) {
	return c.complete(ctx, "", voicemailPrompt())
}

// TranscribeAudio is unavailable; the Messages API accepts no audio input.
func (c *AnthropicClient) TranscribeAudio(ctx context.Context, mimeType string, data []byte) (string, error) {
	return "", ErrTranscriptionUnsupported
}

// AnalyzeStrategy produces a negotiation analysis of a conversation.
func (c *AnthropicClient) AnalyzeStrategy(ctx context.Context, history string) (string, error) {
	return c.complete(ctx, "", strategyPrompt(history))
}

func (c *AnthropicClient) complete(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		model = anthropicDefaultModel
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(model),
		MaxTokens: anthropic.F(int64(1024)),
		Messages:  anthropic.F([]anthropic.MessageParam{textMessage(anthropic.MessageParamRoleUser, prompt)}),
	})
	if err != nil {
		return "", err
	}
	return textFromBlocks(resp)
}

func textMessage(role anthropic.MessageParamRole, content string) anthropic.MessageParam {
	return anthropic.MessageParam{
		Role: anthropic.F(role),
		Content: anthropic.F([]anthropic.ContentBlockParamUnion{
			anthropic.TextBlockParam{
				Type: anthropic.F(anthropic.TextBlockParamTypeText),
				Text: anthropic.F(content),
			},
		}),
	}
}

func textFromBlocks(resp *anthropic.Message) (string, error) {
	var content string
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			content += block.Text
		}
	}
	if content == "" {
		return "", errors.New("anthropic returned empty content")
	}
	return content, nil
}
