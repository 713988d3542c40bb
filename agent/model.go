package agent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/flow"
	"github.com/hupe1980/eventcrew/model"
	"github.com/hupe1980/eventcrew/tool"
)

var _ core.Agent = (*ModelAgent)(nil)

// ErrNoModel is returned when an agent has neither a model nor a factory.
var ErrNoModel = errors.New("agent has no model configured")

// ModelAgentOptions configures a ModelAgent instance.
//
// Use functional options with NewModelAgent to override defaults.
type ModelAgentOptions struct {
	Role      string
	Goal      string
	Backstory string
	// Instruction replaces the prompt rendered from Role, Goal and Backstory.
	Instruction *Instruction
	// ModelFactory builds the model per run from the run's model API key.
	// It is used only when NewModelAgent received a nil model.
	ModelFactory       model.Factory
	EnableStreaming    bool
	OutputKey          string
	MaxHistoryMessages int
	Tools              []tool.Tool
}

// ModelAgent is a role-playing agent backed by a language model and an
// optional set of tools.
type ModelAgent struct {
	BaseAgent
	role               string
	goal               string
	backstory          string
	llm                model.Model
	factory            model.Factory
	instruction        Instruction
	tools              map[string]tool.Tool
	enableStreaming    bool
	outputKey          string
	maxHistoryMessages int
}

// NewModelAgent creates a new model-based agent.
//
// Defaults: no streaming, 20 history messages, role equal to name.
func NewModelAgent(name string, llm model.Model, optFns ...func(o *ModelAgentOptions)) *ModelAgent {
	opts := ModelAgentOptions{
		Role:               name,
		MaxHistoryMessages: 20,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	a := &ModelAgent{
		BaseAgent:          NewBaseAgent(name),
		role:               opts.Role,
		goal:               opts.Goal,
		backstory:          opts.Backstory,
		llm:                llm,
		factory:            opts.ModelFactory,
		tools:              tool.Definitions(opts.Tools...),
		enableStreaming:    opts.EnableStreaming,
		outputKey:          opts.OutputKey,
		maxHistoryMessages: opts.MaxHistoryMessages,
	}

	if opts.Instruction != nil {
		a.instruction = *opts.Instruction
	} else {
		a.instruction = NewInstructionFromText(RolePrompt(opts.Role, opts.Goal, opts.Backstory))
	}

	if opts.Goal != "" {
		a.SetDescription(opts.Goal)
	}

	return a
}

// RolePrompt renders the system prompt of a role-playing agent.
func RolePrompt(role, goal, backstory string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are %s.", role)
	if backstory != "" {
		sb.WriteString(" ")
		sb.WriteString(backstory)
	}
	if goal != "" {
		fmt.Fprintf(&sb, "\nYour personal goal is: %s", goal)
	}
	sb.WriteString("\nUse the available tools when they help. When you have the answer, reply with your complete final answer only.")

	return sb.String()
}

// Role returns the agent's role.
func (a *ModelAgent) Role() string { return a.role }

// Goal returns the agent's goal.
func (a *ModelAgent) Goal() string { return a.goal }

// Backstory returns the agent's backstory.
func (a *ModelAgent) Backstory() string { return a.backstory }

// HasTool checks if a tool is registered with the agent.
func (a *ModelAgent) HasTool(name string) bool {
	_, exists := a.tools[name]
	return exists
}

// GetName returns the agent's display name.
func (a *ModelAgent) GetName() string {
	return a.Name()
}

// GetLLM returns the bound model, or builds one from the factory using the
// run's model API key.
func (a *ModelAgent) GetLLM(runCtx *core.RunContext) (model.Model, error) {
	if a.llm != nil {
		return a.llm, nil
	}
	if a.factory == nil {
		return nil, ErrNoModel
	}
	return a.factory(runCtx.Credentials.ModelAPIKey)
}

// GetTools returns a copy of the registered tools.
func (a *ModelAgent) GetTools() map[string]tool.Tool {
	tools := make(map[string]tool.Tool, len(a.tools))
	for name, t := range a.tools {
		tools[name] = t
	}
	return tools
}

// IsStreamingEnabled returns whether streaming responses are enabled.
func (a *ModelAgent) IsStreamingEnabled() bool {
	return a.enableStreaming
}

// GetOutputKey returns the run state key for saving responses.
func (a *ModelAgent) GetOutputKey() string {
	return a.outputKey
}

// MaxHistoryMessages returns the maximum number of conversation history messages to keep.
func (a *ModelAgent) MaxHistoryMessages() int {
	return a.maxHistoryMessages
}

// ResolveInstructions produces the system prompt.
func (a *ModelAgent) ResolveInstructions(runCtx *core.RunContext) (string, error) {
	return a.instruction.Resolve(runCtx)
}

// Run implements core.Agent.
func (a *ModelAgent) Run(runCtx *core.RunContext) error {
	_, err := a.Execute(runCtx)
	return err
}

// Execute runs the agent on runCtx.UserContent, forwards flow events to the
// run's emit channel and returns the text of the final answer.
func (a *ModelAgent) Execute(runCtx *core.RunContext) (string, error) {
	runCtx.LogDebug("agent.run.start", "agent", a.Name(), "run", runCtx.RunID)

	eventChan, err := flow.NewSingleAgentFlow(a).Execute(runCtx)
	if err != nil {
		runCtx.LogError("agent.flow.execute.error", "agent", a.Name(), "error", err.Error())
		return "", fmt.Errorf("flow execution failed: %w", err)
	}

	var (
		final  string
		runErr error
	)

	for event := range eventChan {
		if event.IsError() {
			runErr = errors.New(*event.ErrorMessage)
		} else if event.IsFinalResponse() {
			final = event.Text()
		}

		if runCtx.Emit == nil {
			continue
		}
		if err := runCtx.EmitEvent(event); err != nil {
			runCtx.LogWarn("agent.run.context_done", "agent", a.Name(), "error", err.Error())
			runErr = err
			for range eventChan {
			}
			break
		}
	}

	if runErr != nil {
		return "", runErr
	}

	runCtx.LogDebug("agent.run.complete", "agent", a.Name(), "length", len(final))

	return final, nil
}
