// Package agent contains the model-backed agent used by a crew.
//
// A ModelAgent is described by a role, a goal and a backstory which are
// rendered into its system prompt. It shares a model and a tool set with its
// crew mates and runs one task at a time through a flow.SingleAgentFlow,
// forwarding every flow event to the run's emit channel.
package agent
