package flow

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/internal/util"
	"github.com/hupe1980/eventcrew/tool"
)

// callTools runs one model turn's tool calls concurrently and returns one
// FunctionResponse event per call, in the order the model requested them.
// Tool failures and panics become error responses the model can read.
func callTools(runCtx *core.RunContext, agentName string, tools map[string]tool.Tool, calls []core.FunctionCall) []core.Event {
	events := make([]core.Event, len(calls))

	var wg sync.WaitGroup
	for i, fc := range calls {
		i, fc := i, fc
		wg.Add(1)
		go func() {
			defer wg.Done()

			start := time.Now()
			result, err := callTool(runCtx, tools, fc)

			runCtx.LogInfo(
				"agent.function.executed",
				"agent", agentName,
				"function", fc.Name,
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err != nil,
			)

			events[i] = core.NewFunctionResponseEvent(runCtx.RunID, agentName, fc.ID, fc.Name, result, err)
		}()
	}
	wg.Wait()

	return events
}

func callTool(runCtx *core.RunContext, tools map[string]tool.Tool, fc core.FunctionCall) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			runCtx.LogError("agent.function.panic", "function", fc.Name, "recover", r)
			err = tool.NewToolError(fc.Name, fmt.Sprintf("panic recovered: %v", r), tool.CodeExecution)
		}
	}()

	impl, ok := tools[fc.Name]
	if !ok {
		return nil, tool.NewToolError(fc.Name, "tool not found", tool.CodeNotFound)
	}

	args := map[string]any{}
	if fc.Arguments != "" {
		if err := json.Unmarshal([]byte(fc.Arguments), &args); err != nil {
			return nil, tool.NewToolError(fc.Name, fmt.Sprintf("failed to unmarshal args: %v", err), tool.CodeValidation)
		}
	}

	if err := util.ValidateParameters(args, impl.Parameters()); err != nil {
		return nil, &tool.ToolError{
			Tool:    fc.Name,
			Message: fmt.Sprintf("parameter validation failed: %v", err),
			Code:    tool.CodeValidation,
			Details: err,
		}
	}

	return impl.Call(core.NewToolContext(runCtx, fc.ID), args)
}
