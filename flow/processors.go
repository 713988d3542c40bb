package flow

import (
	"fmt"

	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/internal/util"
	"github.com/hupe1980/eventcrew/model"
)

// InstructionsProcessor resolves the agent's system prompt and renders it
// against the run state.
type InstructionsProcessor struct{}

// NewInstructionsProcessor creates a new instructions processor.
func NewInstructionsProcessor() *InstructionsProcessor { return &InstructionsProcessor{} }

// Name returns the processor's identifier.
func (p *InstructionsProcessor) Name() string { return "instructions" }

// ProcessRequest sets req.Instructions.
func (p *InstructionsProcessor) ProcessRequest(runCtx *core.RunContext, _ []core.Content, req *model.Request, agent FlowAgent) error {
	instructions, err := agent.ResolveInstructions(runCtx)
	if err != nil {
		return fmt.Errorf("failed to resolve instruction: %w", err)
	}

	rendered, err := util.RenderTemplate(instructions, runCtx.State())
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	runCtx.LogDebug("agent.instruction.resolved", "agent", agent.GetName(), "length", len(rendered))

	req.Instructions = rendered

	return nil
}

// ContentsProcessor copies the conversation into the request. The task
// prompt (first entry) is always kept; older turns beyond the agent's history
// limit are dropped without splitting a tool call from its responses.
type ContentsProcessor struct{}

// NewContentsProcessor creates a new contents processor.
func NewContentsProcessor() *ContentsProcessor { return &ContentsProcessor{} }

// Name returns the processor's identifier.
func (p *ContentsProcessor) Name() string { return "contents" }

// ProcessRequest sets req.Contents.
func (p *ContentsProcessor) ProcessRequest(_ *core.RunContext, history []core.Content, req *model.Request, agent FlowAgent) error {
	if len(history) == 0 {
		return fmt.Errorf("empty conversation")
	}

	contents := []core.Content{history[0]}
	rest := history[1:]

	if limit := agent.MaxHistoryMessages(); limit > 0 && len(rest) > limit {
		rest = rest[len(rest)-limit:]
		for len(rest) > 0 && rest[0].Role == "tool" {
			rest = rest[1:]
		}
	}

	req.Contents = append(contents, rest...)

	return nil
}

// OutputKeyProcessor stores the text of the final response in the run
// state under the agent's output key.
type OutputKeyProcessor struct{}

// NewOutputKeyProcessor creates a new output key processor.
func NewOutputKeyProcessor() *OutputKeyProcessor { return &OutputKeyProcessor{} }

// Name returns the processor's identifier.
func (p *OutputKeyProcessor) Name() string { return "output_key" }

// ProcessResponse implements ResponseProcessor.
func (p *OutputKeyProcessor) ProcessResponse(runCtx *core.RunContext, resp *model.Response, agent FlowAgent) error {
	key := agent.GetOutputKey()
	if key == "" || resp.Partial {
		return nil
	}

	if text := resp.Content.Text(); text != "" {
		runCtx.SetState(key, text)
	}

	return nil
}
