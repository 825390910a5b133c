package provider

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/petasbytes/toolchat/chat"
)

const DefaultModel = anthropic.ModelClaude3_7SonnetLatest

const maxResponseTokens = 1024

// Anthropic adapts the Anthropic Messages API to the session's Responder
// contract, text blocks only.
type Anthropic struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropic returns an adapter using the API key from the env. An empty
// model selects DefaultModel.
func NewAnthropic(model string, opts ...option.RequestOption) *Anthropic {
	c := anthropic.NewClient(opts...)
	m := anthropic.Model(model)
	if model == "" {
		m = DefaultModel
	}
	return &Anthropic{client: &c, model: m}
}

// GenerateResponse sends the transcript and returns the response text.
// The leading system message maps to the system parameter; later
// system-role messages (tool results) are sent as user messages since the
// Messages API carries no mid-stream system role.
func (a *Anthropic) GenerateResponse(ctx context.Context, msgs []chat.Message) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: int64(maxResponseTokens),
	}

	for i, m := range msgs {
		switch m.Role {
		case chat.RoleSystem:
			if i == 0 {
				params.System = append(params.System, anthropic.TextBlockParam{Text: m.Content})
				continue
			}
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case chat.RoleUser:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case chat.RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return "", &Error{Provider: "anthropic", Err: err}
	}

	var parts []string
	for _, b := range msg.Content {
		if tb, ok := b.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n"), nil
}
