package flow

// SingleAgentFlow implements the execution flow for a standalone agent. It
// wires default processors for instruction resolution, content assembly and
// output key persistence.
type SingleAgentFlow struct{ *BaseFlow }

// NewSingleAgentFlow creates a new single-agent flow.
func NewSingleAgentFlow(agent FlowAgent) *SingleAgentFlow {
	baseFlow := NewBaseFlow(agent)

	baseFlow.AddRequestProcessor(NewInstructionsProcessor())
	baseFlow.AddRequestProcessor(NewContentsProcessor())
	baseFlow.AddResponseProcessor(NewOutputKeyProcessor())

	return &SingleAgentFlow{BaseFlow: baseFlow}
}
