package core

import (
	"time"

	"github.com/google/uuid"
)

// Event is the unit of communication between an agent, its flow and the crew.
// After emission it should be treated as immutable. It captures:
//   - Correlation (RunID, ID, Author)
//   - Conversational content (optional role-based Parts)
//   - Streaming / turn completion hints
//   - Error metadata
//
// Content may be nil for error-only events.
type Event struct {
	ID           string    `json:"id"`
	RunID        string    `json:"run_id"`
	Author       string    `json:"author"`
	Timestamp    time.Time `json:"timestamp"`
	Content      *Content  `json:"content,omitempty"`
	Partial      *bool     `json:"partial,omitempty"`
	TurnComplete *bool     `json:"turn_complete,omitempty"`
	ErrorMessage *string   `json:"error_message,omitempty"`
}

// NewEvent creates a bare event authored by 'author' bound to a run.
func NewEvent(runID, author string) Event {
	return Event{
		ID:        NewID(),
		RunID:     runID,
		Author:    author,
		Timestamp: time.Now().UTC(),
	}
}

// NewMessageEvent creates an assistant message event with a single text part.
func NewMessageEvent(runID, author, message string) Event {
	e := NewEvent(runID, author)
	c := NewTextContent("assistant", message)
	e.Content = &c
	return e
}

// NewUserMessageEvent creates a user-authored text message event.
func NewUserMessageEvent(runID, message string) Event {
	e := NewEvent(runID, "user")
	c := NewTextContent("user", message)
	e.Content = &c
	return e
}

// NewFunctionCallEvent represents an agent requesting execution of a named tool.
func NewFunctionCallEvent(runID, author, id, functionName, args string) Event {
	e := NewEvent(runID, author)
	e.Content = &Content{
		Role: "assistant",
		Parts: []Part{FunctionCallPart{FunctionCall: FunctionCall{
			ID:        id,
			Name:      functionName,
			Arguments: args,
		}}},
	}
	return e
}

// NewFunctionResponseEvent records the result (or error) of a tool invocation.
// If err is non-nil its message is copied into the response Error field.
func NewFunctionResponseEvent(runID, author, id, functionName string, result any, err error) Event {
	e := NewEvent(runID, author)
	fr := FunctionResponse{ID: id, Name: functionName, Response: result}
	if err != nil {
		fr.Error = err.Error()
	}
	e.Content = &Content{Role: "tool", Parts: []Part{FunctionResponsePart{FunctionResponse: fr}}}
	return e
}

// NewErrorEvent creates a system event carrying only an error message.
func NewErrorEvent(runID string, err error) Event {
	e := NewEvent(runID, "system")
	msg := err.Error()
	e.ErrorMessage = &msg
	return e
}

// NewID returns a new random identifier.
func NewID() string { return uuid.NewString() }

// IsPartial reports whether this event is a streaming fragment.
func (e Event) IsPartial() bool { return e.Partial != nil && *e.Partial }

// IsError reports whether the event carries an error message.
func (e Event) IsError() bool { return e.ErrorMessage != nil }

// Text returns the concatenated text parts of the event content.
func (e Event) Text() string {
	if e.Content == nil {
		return ""
	}
	return e.Content.Text()
}

// GetFunctionCalls returns the FunctionCall parts in their original order.
func (e Event) GetFunctionCalls() []FunctionCall {
	if e.Content == nil {
		return nil
	}
	var calls []FunctionCall
	for _, p := range e.Content.Parts {
		if fc, ok := p.(FunctionCallPart); ok {
			calls = append(calls, fc.FunctionCall)
		}
	}
	return calls
}

// GetFunctionResponses returns the FunctionResponse parts in their original order.
func (e Event) GetFunctionResponses() []FunctionResponse {
	if e.Content == nil {
		return nil
	}
	var responses []FunctionResponse
	for _, p := range e.Content.Parts {
		if fr, ok := p.(FunctionResponsePart); ok {
			responses = append(responses, fr.FunctionResponse)
		}
	}
	return responses
}

// IsFinalResponse reports whether the event completes an assistant turn: no
// pending tool calls or responses and not a partial chunk.
func (e Event) IsFinalResponse() bool {
	return len(e.GetFunctionCalls()) == 0 &&
		len(e.GetFunctionResponses()) == 0 &&
		!e.IsPartial()
}
