// Package flow provides the execution loop behind a model agent.
//
// A flow drives one agent through one task: it assembles a model request
// through pluggable request processors, streams the model response, executes
// requested tool calls and feeds their results back until the model produces
// a final answer or the model call budget is exhausted.
package flow

import (
	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/model"
	"github.com/hupe1980/eventcrew/tool"
)

// Flow defines the interface for agent execution flows.
type Flow interface {
	// Execute runs the flow for runCtx and returns a channel of events that
	// is closed once the agent turn finishes.
	Execute(runCtx *core.RunContext) (<-chan core.Event, error)
}

// FlowAgent defines the interface that agents must implement to work with flows.
type FlowAgent interface {
	// GetName returns the agent's display name.
	GetName() string

	// GetLLM returns the language model bound to the current run.
	GetLLM(runCtx *core.RunContext) (model.Model, error)

	// ResolveInstructions returns the system prompt for the run.
	ResolveInstructions(runCtx *core.RunContext) (string, error)

	// GetTools returns the registered tools for function calling.
	GetTools() map[string]tool.Tool

	// IsStreamingEnabled returns whether streaming responses are enabled.
	IsStreamingEnabled() bool

	// GetOutputKey returns the run state key the final answer is stored under.
	GetOutputKey() string

	// MaxHistoryMessages returns the maximum number of conversation messages
	// (besides the task prompt) sent to the model.
	MaxHistoryMessages() int
}

// RequestProcessor processes the request before sending it to the LLM.
type RequestProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessRequest modifies the request given the conversation so far.
	ProcessRequest(runCtx *core.RunContext, history []core.Content, req *model.Request, agent FlowAgent) error
}

// ResponseProcessor processes the response after receiving it from the LLM.
type ResponseProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessResponse handles a model response chunk.
	ProcessResponse(runCtx *core.RunContext, resp *model.Response, agent FlowAgent) error
}
