package flow

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/model"
	"github.com/hupe1980/eventcrew/tool"
)

// BaseFlow is a single-agent flow implementation that supports a
// request -> LLM -> (optional tool loop) cycle with pluggable pre/post processors.
type BaseFlow struct {
	agent              FlowAgent
	requestProcessors  []RequestProcessor
	responseProcessors []ResponseProcessor
}

// NewBaseFlow creates a new basic single-agent flow.
func NewBaseFlow(agent FlowAgent) *BaseFlow {
	return &BaseFlow{
		agent:              agent,
		requestProcessors:  []RequestProcessor{},
		responseProcessors: []ResponseProcessor{},
	}
}

// AddRequestProcessor appends a request processor; order of registration defines execution order.
func (f *BaseFlow) AddRequestProcessor(processor RequestProcessor) {
	f.requestProcessors = append(f.requestProcessors, processor)
}

// AddResponseProcessor appends a response processor executed after each model chunk.
func (f *BaseFlow) AddResponseProcessor(processor ResponseProcessor) {
	f.responseProcessors = append(f.responseProcessors, processor)
}

// Execute launches the flow asynchronously and returns a channel of Events.
// The channel is closed when a final response is emitted or an unrecoverable
// error occurs, in which case the last event carries ErrorMessage.
func (f *BaseFlow) Execute(runCtx *core.RunContext) (<-chan core.Event, error) {
	llm, err := f.agent.GetLLM(runCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve model: %w", err)
	}

	eventChan := make(chan core.Event, 100)

	go func() {
		defer close(eventChan)

		history := []core.Content{runCtx.UserContent}

		for {
			if err := runCtx.Err(); err != nil {
				f.emitError(runCtx, eventChan, err)
				return
			}

			if err := runCtx.Limiter.Increment(); err != nil {
				f.emitError(runCtx, eventChan, err)
				return
			}

			final, err := f.runOnce(runCtx, llm, history, eventChan)
			if err != nil {
				f.emitError(runCtx, eventChan, err)
				return
			}

			history = append(history, *final.Content)

			fnCalls := final.GetFunctionCalls()
			if len(fnCalls) == 0 {
				return
			}

			responses := core.Content{Role: "tool"}
			for _, ev := range callTools(runCtx, f.agent.GetName(), f.agent.GetTools(), fnCalls) {
				responses.Parts = append(responses.Parts, ev.Content.Parts...)
				if err := send(runCtx, eventChan, ev); err != nil {
					f.emitError(runCtx, eventChan, err)
					return
				}
			}
			history = append(history, responses)
		}
	}()

	return eventChan, nil
}

// emitError converts an internal error to an error Event.
func (f *BaseFlow) emitError(runCtx *core.RunContext, eventChan chan<- core.Event, err error) {
	runCtx.LogError("flow.error", "agent", f.agent.GetName(), "error", err.Error())
	ev := core.NewErrorEvent(runCtx.RunID, err)
	ev.Author = f.agent.GetName()
	eventChan <- ev
}

// runOnce performs one model turn and returns the final (non-partial) event.
func (f *BaseFlow) runOnce(
	runCtx *core.RunContext,
	llm model.Model,
	history []core.Content,
	eventChan chan<- core.Event,
) (*core.Event, error) {
	req := &model.Request{Stream: f.agent.IsStreamingEnabled()}

	for _, processor := range f.requestProcessors {
		if err := processor.ProcessRequest(runCtx, history, req, f.agent); err != nil {
			return nil, fmt.Errorf("request processor %s failed: %w", processor.Name(), err)
		}
	}

	req.Tools = toolDefinitions(f.agent.GetTools())

	respCh, errCh := llm.Generate(runCtx.Context, *req)

	var final *core.Event

	for resp := range respCh {
		for _, processor := range f.responseProcessors {
			if err := processor.ProcessResponse(runCtx, &resp, f.agent); err != nil {
				go drain(respCh, errCh)
				return nil, fmt.Errorf("response processor %s failed: %w", processor.Name(), err)
			}
		}

		ev := core.NewEvent(runCtx.RunID, f.agent.GetName())
		content := resp.Content
		partial := resp.Partial
		ev.Content = &content
		ev.Partial = &partial

		if !resp.Partial && len(ev.GetFunctionCalls()) == 0 {
			complete := true
			ev.TurnComplete = &complete
		}

		if err := send(runCtx, eventChan, ev); err != nil {
			go drain(respCh, errCh)
			return nil, err
		}

		if !resp.Partial {
			final = &ev
		}
	}

	if err, ok := <-errCh; ok && err != nil {
		return nil, fmt.Errorf("model generation failed: %w", err)
	}

	if final == nil {
		if err := runCtx.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("model returned no final response")
	}

	return final, nil
}

func toolDefinitions(tools map[string]tool.Tool) []model.ToolDefinition {
	if len(tools) == 0 {
		return nil
	}
	defs := make([]model.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
	slices.SortFunc(defs, func(a, b model.ToolDefinition) int {
		return strings.Compare(a.Function.Name, b.Function.Name)
	})
	return defs
}

// drain consumes what is left of an abandoned generation so the model
// goroutine can exit.
func drain(respCh <-chan model.Response, errCh <-chan error) {
	for range respCh {
	}
	for range errCh {
	}
}

func send(runCtx *core.RunContext, eventChan chan<- core.Event, ev core.Event) error {
	select {
	case eventChan <- ev:
		return nil
	case <-runCtx.Done():
		return runCtx.Err()
	}
}
