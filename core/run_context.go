package core

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/hupe1980/eventcrew/logging"
)

// RunContextOptions configures optional RunContext collaborators.
type RunContextOptions struct {
	Credentials   Credentials
	ArtifactStore ArtifactStore
	MaxModelCalls int
	State         map[string]any
	Logger        logging.Logger
}

// RunContext carries execution state & helpers for one agent working on one
// task. It aggregates:
//   - The ambient cancellation Context
//   - Identifiers (RunID, Agent info)
//   - The task prompt as UserContent
//   - The Emit channel events are sent on
//   - The request Credentials and the ArtifactStore
//   - A ModelLimiter bounding model calls
//   - Shared key/value state visible to every task of the run
//
// The state map is shared between contexts derived with ForAgent so later
// tasks can read values stored by earlier ones.
type RunContext struct {
	Context       context.Context
	RunID         string
	Agent         AgentInfo
	UserContent   Content
	Emit          chan<- Event
	Credentials   Credentials
	ArtifactStore ArtifactStore
	Limiter       *ModelLimiter

	maxModelCalls int
	stateMu       *sync.RWMutex
	state         map[string]any

	*loggerAdapter
}

// NewRunContext constructs a RunContext for agent bound to runID.
func NewRunContext(
	ctx context.Context,
	runID string,
	agent AgentInfo,
	userContent Content,
	emit chan<- Event,
	optFns ...func(o *RunContextOptions),
) *RunContext {
	opts := RunContextOptions{
		State:  map[string]any{},
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.State == nil {
		opts.State = map[string]any{}
	}

	return &RunContext{
		Context:       ctx,
		RunID:         runID,
		Agent:         agent,
		UserContent:   userContent,
		Emit:          emit,
		Credentials:   opts.Credentials,
		ArtifactStore: opts.ArtifactStore,
		Limiter:       NewModelLimiter(opts.MaxModelCalls),
		maxModelCalls: opts.MaxModelCalls,
		stateMu:       &sync.RWMutex{},
		state:         opts.State,
		loggerAdapter: newLoggerAdapter(opts.Logger),
	}
}

// ForAgent derives a context for the next agent of the same run. Credentials,
// stores, logger and state are shared; the limiter is fresh.
func (rc *RunContext) ForAgent(agent AgentInfo, userContent Content, emit chan<- Event) *RunContext {
	return &RunContext{
		Context:       rc.Context,
		RunID:         rc.RunID,
		Agent:         agent,
		UserContent:   userContent,
		Emit:          emit,
		Credentials:   rc.Credentials,
		ArtifactStore: rc.ArtifactStore,
		Limiter:       NewModelLimiter(rc.maxModelCalls),
		maxModelCalls: rc.maxModelCalls,
		stateMu:       rc.stateMu,
		state:         rc.state,
		loggerAdapter: rc.loggerAdapter,
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// GetState returns the value stored under k.
func (rc *RunContext) GetState(k string) (any, bool) {
	rc.stateMu.RLock()
	defer rc.stateMu.RUnlock()

	v, ok := rc.state[k]

	return v, ok
}

// SetState stores v under k.
func (rc *RunContext) SetState(k string, v any) {
	rc.stateMu.Lock()
	defer rc.stateMu.Unlock()

	rc.state[k] = v
}

// State returns a snapshot copy of the run state.
func (rc *RunContext) State() map[string]any {
	rc.stateMu.RLock()
	defer rc.stateMu.RUnlock()

	return maps.Clone(rc.state)
}

// SaveArtifact stores bytes in the ArtifactStore under this run.
func (rc *RunContext) SaveArtifact(name string, data []byte) error {
	if rc.ArtifactStore == nil {
		return fmt.Errorf("artifact store not configured")
	}

	return rc.ArtifactStore.Save(rc.Context, rc.RunID, name, data)
}

// EmitEvent sends ev on the Emit channel honoring cancellation.
func (rc *RunContext) EmitEvent(ev Event) error {
	select {
	case rc.Emit <- ev:
		return nil
	case <-rc.Context.Done():
		return rc.Context.Err()
	}
}
