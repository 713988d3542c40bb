// Package planner assembles the event-planning crew for a request, runs it
// and persists the run's artifacts.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/eventcrew/agent"
	"github.com/hupe1980/eventcrew/artifact"
	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/crew"
	"github.com/hupe1980/eventcrew/logging"
	"github.com/hupe1980/eventcrew/model"
	"github.com/hupe1980/eventcrew/report"
	"github.com/hupe1980/eventcrew/tool"
)

// EventDetails are the planning parameters of a run.
type EventDetails = report.EventDetails

// Options configure a Planner.
type Options struct {
	// ModelFactory builds the run's model from the request's model API key.
	ModelFactory  model.Factory
	ArtifactStore core.ArtifactStore
	Logger        logging.Logger
	// Tools are shared by all three agents.
	Tools              []tool.Tool
	MaxModelCalls      int
	MaxHistoryMessages int
	EnableStreaming    bool
	// OnEvent observes agent events of every run.
	OnEvent func(core.Event)
}

// Result is the outcome of a planning run.
type Result struct {
	RunID    string
	Output   *crew.Output
	Duration time.Duration
}

// LogisticsConfirmation returns the crew result as a string, which is the
// output of the final task.
func (r *Result) LogisticsConfirmation() string {
	if r.Output == nil {
		return ""
	}
	return r.Output.String()
}

// Planner runs the event-planning crew.
type Planner struct {
	opts Options
}

// New creates a Planner. Without options it uses an in-memory artifact store
// and the search and fetch tools.
func New(optFns ...func(o *Options)) *Planner {
	opts := Options{
		MaxModelCalls:      10,
		MaxHistoryMessages: 20,
		Logger:             logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.ArtifactStore == nil {
		opts.ArtifactStore = artifact.NewInMemoryStore()
	}
	if opts.Tools == nil {
		opts.Tools = []tool.Tool{tool.NewSearchTool(), tool.NewFetchTool()}
	}

	return &Planner{opts: opts}
}

// ArtifactStore returns the store the planner writes to.
func (p *Planner) ArtifactStore() core.ArtifactStore { return p.opts.ArtifactStore }

// Run plans the event described by d with the caller's credentials.
func (p *Planner) Run(ctx context.Context, d EventDetails, creds core.Credentials) (*Result, error) {
	if p.opts.ModelFactory == nil {
		return nil, agent.ErrNoModel
	}

	start := time.Now()
	runID := core.NewID()

	llm, err := p.opts.ModelFactory(creds.ModelAPIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}

	agents := NewAgents(llm, p.opts.Tools, func(o *agent.ModelAgentOptions) {
		o.EnableStreaming = p.opts.EnableStreaming
		o.MaxHistoryMessages = p.opts.MaxHistoryMessages
	})

	tasks, err := NewTasks(d, agents)
	if err != nil {
		return nil, err
	}

	c := crew.New(tasks, func(o *crew.Options) {
		o.RunID = runID
		o.MaxModelCalls = p.opts.MaxModelCalls
		o.ArtifactStore = p.opts.ArtifactStore
		o.Logger = p.opts.Logger
		o.OnEvent = p.opts.OnEvent
	})

	p.opts.Logger.Info("planner.run.start", "run_id", runID, "topic", d.Topic, "city", d.City, "model", llm.Info().Name)

	out, err := c.Kickoff(ctx, creds)
	if err != nil {
		p.opts.Logger.Error("planner.run.error", "run_id", runID, "error", err.Error())
		return nil, err
	}

	p.writeArtifacts(ctx, runID, d)

	res := &Result{RunID: runID, Output: out, Duration: time.Since(start)}

	p.opts.Logger.Info("planner.run.complete", "run_id", runID, "duration_ms", res.Duration.Milliseconds())

	return res, nil
}

// writeArtifacts persists the venue JSON and the marketing report. Failures
// are logged and never fail the run.
func (p *Planner) writeArtifacts(ctx context.Context, runID string, d EventDetails) {
	store := p.opts.ArtifactStore

	venue, err := report.NewVenueDetails(d).JSON()
	if err == nil {
		err = store.Save(ctx, runID, report.VenueArtifact, venue)
	}
	if err != nil {
		p.opts.Logger.Error("planner.artifact.error", "run_id", runID, "artifact", report.VenueArtifact, "error", err.Error())
	}

	marketing, err := report.RenderMarketingReport(d)
	if err == nil {
		err = store.Save(ctx, runID, report.MarketingArtifact, []byte(marketing))
	}
	if err != nil {
		p.opts.Logger.Error("planner.artifact.error", "run_id", runID, "artifact", report.MarketingArtifact, "error", err.Error())
	}
}
