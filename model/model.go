package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/eventcrew/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object.
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by flows.
type Request struct {
	Instructions string           `json:"instructions"`
	Contents     []core.Content   `json:"contents"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
	Stream       bool             `json:"stream,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is a (partial or final) chunk emitted by a model.
type Response struct {
	ID           string       `json:"id"`
	Partial      bool         `json:"partial"`
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "mock"
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required by flows & agents to drive generation.
// Both channels are closed when generation finishes; errCh carries at most one error.
type Model interface {
	Generate(ctx context.Context, req Request) (<-chan Response, <-chan error)
	Info() Info
}

// Factory builds a Model bound to a caller supplied API key. Providers expose
// one so credentials arrive per run instead of through process environment.
type Factory func(apiKey string) (Model, error)

// ErrMissingAPIKey is returned by factories when no key is available.
var ErrMissingAPIKey = errors.New("model api key is required")

// MockModel is a scriptable in-memory Model for tests & local runs.
//
// Responses queued with Enqueue are returned first, in order. After the queue
// drains, canned responses registered with AddResponse are matched against the
// text of the last content, falling back to an echo.
type MockModel struct {
	info      Info
	mu        sync.Mutex
	queue     []Response
	responses map[string]string
	requests  []Request
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info:      Info{Name: name, Provider: "mock", SupportsTools: true},
		responses: make(map[string]string),
	}
}

// MockFactory returns a Factory that always yields m and records nothing about the key.
func MockFactory(m *MockModel) Factory {
	return func(string) (Model, error) { return m, nil }
}

// AddResponse registers a deterministic canned completion for an input prompt.
func (m *MockModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Enqueue appends scripted responses returned by subsequent Generate calls.
func (m *MockModel) Enqueue(responses ...Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, responses...)
}

// EnqueueText is shorthand for enqueuing a final assistant text response.
func (m *MockModel) EnqueueText(text string) {
	m.Enqueue(Response{Content: core.NewTextContent("assistant", text), FinishReason: "stop"})
}

// EnqueueToolCall is shorthand for enqueuing a response requesting one tool call.
func (m *MockModel) EnqueueToolCall(id, name, args string) {
	m.Enqueue(Response{
		Content: core.Content{Role: "assistant", Parts: []core.Part{
			core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: id, Name: name, Arguments: args}},
		}},
		FinishReason: "tool_calls",
	})
}

// Requests returns a copy of every request received so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *MockModel) next(req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)

	if len(m.queue) > 0 {
		r := m.queue[0]
		m.queue = m.queue[1:]
		return r, nil
	}
	if len(req.Contents) == 0 {
		return Response{}, fmt.Errorf("no contents provided")
	}
	input := req.Contents[len(req.Contents)-1].Text()
	full, ok := m.responses[input]
	if !ok {
		full = fmt.Sprintf("Mock response to: %s", input)
	}
	return Response{Content: core.NewTextContent("assistant", full), FinishReason: "stop"}, nil
}

// Generate implements Model; emits optional streaming char chunks then the final response.
func (m *MockModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 16)
	errCh := make(chan error, 1)

	go func() {
		defer close(respCh)
		defer close(errCh)

		final, err := m.next(req)
		if err != nil {
			errCh <- err
			return
		}
		if req.Stream {
			for _, r := range final.Content.Text() {
				select {
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				case respCh <- Response{Partial: true, Content: core.NewTextContent("assistant", string(r))}:
				}
			}
		}
		select {
		case <-ctx.Done():
			errCh <- ctx.Err()
		case respCh <- final:
		}
	}()
	return respCh, errCh
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
