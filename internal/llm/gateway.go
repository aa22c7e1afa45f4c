package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Message roles understood by OpenAI-compatible backends.
const (
	RoleSystem = openai.ChatMessageRoleSystem
	RoleUser   = openai.ChatMessageRoleUser
)

// Gateway abstracts an OpenAI-compatible LLM API. Implementations normalize
// transport and HTTP failures into the error shapes in errors.go so callers
// never see a provider library's error hierarchy.
type Gateway interface {
	// Answer sends a chat completion request and returns the parsed response.
	Answer(ctx context.Context, req Request) (*ParsedResponse, error)
}

// Message is a single chat message.
type Message struct {
	Role    string
	Content string
}

// Request is a simplified chat completion request.
type Request struct {
	Model       string
	Messages    []Message
	Temperature *float64
	MaxTokens   int
}

// ParsedResponse holds the result of a chat completion.
// StructuredData is populated when the response content is a JSON object.
type ParsedResponse struct {
	Content        string
	StructuredData map[string]any
}

// OpenAIGateway implements Gateway using the OpenAI-compatible API.
type OpenAIGateway struct {
	client *openai.Client
	model  string
}

// NewOpenAIGateway creates a new OpenAI-compatible gateway.
func NewOpenAIGateway(opts ...Option) *OpenAIGateway {
	cfg := &gatewayConfig{
		baseURL: "http://localhost:8000/v1",
		apiKey:  "not-needed",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	config := openai.DefaultConfig(cfg.apiKey)
	config.BaseURL = cfg.baseURL

	return &OpenAIGateway{
		client: openai.NewClientWithConfig(config),
		model:  cfg.model,
	}
}

// Answer sends a non-streaming chat completion request.
func (g *OpenAIGateway) Answer(ctx context.Context, req Request) (*ParsedResponse, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	oreq := openai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature != nil {
		oreq.Temperature = float32(*req.Temperature)
	}

	resp, err := g.client.CreateChatCompletion(ctx, oreq)
	if err != nil {
		return nil, normalizeError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &DecodeError{Message: "no choices returned"}
	}

	content := resp.Choices[0].Message.Content
	return &ParsedResponse{
		Content:        content,
		StructuredData: tryDecodeJSON(content),
	}, nil
}

// normalizeError converts go-openai and net errors into the gateway error shapes.
func normalizeError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &StatusError{
			StatusCode: apiErr.HTTPStatusCode,
			Message:    apiErr.Message,
			Body:       fmt.Sprintf("type=%v code=%v", apiErr.Type, apiErr.Code),
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &StatusError{
			StatusCode: reqErr.HTTPStatusCode,
			Message:    reqErr.Error(),
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Message: "request deadline exceeded", Timeout: true, Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &TransportError{Message: netErr.Error(), Timeout: netErr.Timeout(), Cause: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &TransportError{Message: urlErr.Error(), Timeout: urlErr.Timeout(), Cause: err}
	}

	var jsonSyntax *json.SyntaxError
	var jsonType *json.UnmarshalTypeError
	if errors.As(err, &jsonSyntax) || errors.As(err, &jsonType) {
		return &DecodeError{Message: "malformed response body", Cause: err}
	}

	return &TransportError{Message: err.Error(), Cause: err}
}

// tryDecodeJSON attempts to interpret content as a JSON object.
// Non-JSON content is not an error; structured data is best effort.
func tryDecodeJSON(content string) map[string]any {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(trimmed), &data); err != nil {
		return nil
	}
	return data
}
