package core

import (
	"context"

	"github.com/hupe1980/eventcrew/logging"
)

// ToolContext provides the constrained surface a tool implementation sees
// when invoked by an agent: cancellation, identifiers, credentials, state and
// logging.
type ToolContext struct {
	runCtx         *RunContext
	functionCallID string

	*loggerAdapter
}

// NewToolContext constructs a tool context bound to a parent RunContext
// and unique functionCallID.
func NewToolContext(runCtx *RunContext, functionCallID string) *ToolContext {
	return &ToolContext{
		runCtx:         runCtx,
		functionCallID: functionCallID,
		loggerAdapter:  newLoggerAdapter(runCtx.Logger()),
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.runCtx.Context }

// RunID returns the run ID associated with the tool invocation.
func (tc *ToolContext) RunID() string { return tc.runCtx.RunID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.loggerAdapter.Logger() }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// AgentName returns the name of the agent that requested the call.
func (tc *ToolContext) AgentName() string { return tc.runCtx.Agent.Name }

// Credentials returns the request credentials of the run.
func (tc *ToolContext) Credentials() Credentials { return tc.runCtx.Credentials }

// GetState reads shared run state.
func (tc *ToolContext) GetState(k string) (any, bool) { return tc.runCtx.GetState(k) }

// SetState writes shared run state.
func (tc *ToolContext) SetState(k string, v any) { tc.runCtx.SetState(k, v) }
