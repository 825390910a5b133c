package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/petasbytes/toolchat/chat"
)

// OpenAICompatible adapts any chat-completions endpoint speaking the OpenAI
// wire format (OpenAI, Ollama, llama.cpp, vLLM, and the like).
type OpenAICompatible struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
}

// NewOpenAICompatible returns an adapter for baseURL (without the
// /chat/completions suffix). A nil httpc falls back to http.DefaultClient.
func NewOpenAICompatible(baseURL, apiKey, model string, httpc *http.Client) *OpenAICompatible {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &OpenAICompatible{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpc:   httpc,
	}
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model    string          `json:"model"`
	Messages []openAIMessage `json:"messages"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GenerateResponse sends the transcript and returns the first choice's text.
func (o *OpenAICompatible) GenerateResponse(ctx context.Context, msgs []chat.Message) (string, error) {
	reqBody := openAIChatRequest{Model: o.model}
	for _, m := range msgs {
		reqBody.Messages = append(reqBody.Messages, openAIMessage{Role: string(m.Role), Content: m.Content})
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", &Error{Provider: "openai", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", &Error{Provider: "openai", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}

	resp, err := o.httpc.Do(req)
	if err != nil {
		return "", &Error{Provider: "openai", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Provider: "openai", Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{Provider: "openai", Status: resp.StatusCode, Err: fmt.Errorf("%s", strings.TrimSpace(string(body)))}
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &Error{Provider: "openai", Status: resp.StatusCode, Err: err}
	}
	if parsed.Error != nil {
		return "", &Error{Provider: "openai", Status: resp.StatusCode, Err: fmt.Errorf("%s", parsed.Error.Message)}
	}
	if len(parsed.Choices) == 0 {
		return "", &Error{Provider: "openai", Status: resp.StatusCode, Err: fmt.Errorf("response contains no choices")}
	}
	return parsed.Choices[0].Message.Content, nil
}
