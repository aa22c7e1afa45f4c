// Package testutil provides shared test helpers.
package testutil

import (
	"context"

	"github.com/giantswarm/agent-eval/internal/llm"
)

// MockGateway is a configurable mock for llm.Gateway used across test
// packages. Responses and errors are matched on the last user message.
type MockGateway struct {
	// Responses maps user messages to canned response content.
	Responses map[string]string

	// Errors maps user messages to errors returned instead of a response.
	Errors map[string]error

	// DefaultResponse is returned when no matching key is found.
	DefaultResponse string

	// Calls tracks the number of Answer invocations.
	Calls int

	// LastRequest stores the most recent Request for inspection.
	LastRequest llm.Request
}

func (m *MockGateway) Answer(_ context.Context, req llm.Request) (*llm.ParsedResponse, error) {
	m.Calls++
	m.LastRequest = req

	key := ""
	for _, msg := range req.Messages {
		if msg.Role == llm.RoleUser {
			key = msg.Content
		}
	}

	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if content, ok := m.Responses[key]; ok {
		return &llm.ParsedResponse{Content: content}, nil
	}
	if m.DefaultResponse != "" {
		return &llm.ParsedResponse{Content: m.DefaultResponse}, nil
	}
	return &llm.ParsedResponse{Content: "mock response"}, nil
}
