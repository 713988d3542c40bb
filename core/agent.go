package core

// Agent defines the contract every crew member implements.
//
// An agent receives its task prompt through RunContext.UserContent, may call
// tools and the model any number of times (bounded by RunContext.Limiter) and
// emits the resulting events on RunContext.Emit. The final non-partial
// assistant event carries the agent's answer.
//
// Implementations must:
//   - Respect context cancellation
//   - Emit events only through the provided RunContext
//   - Be safe to run once per RunContext (no hidden per-run state)
type Agent interface {
	Name() string
	Description() string
	Run(runCtx *RunContext) error
}

// AgentInfo carries identifying details about an agent used in contexts & events.
// Name is the external identifier; Type categorizes the implementation (e.g. "model").
type AgentInfo struct{ Name, Type string }
