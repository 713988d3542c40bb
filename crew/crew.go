// Package crew runs an ordered list of tasks, each assigned to an agent,
// as a sequential pipeline. Every task sees the outputs of the tasks before
// it as context, and the crew returns one TaskOutput per task in order.
package crew

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/logging"
)

var (
	// ErrNoTasks is returned by Kickoff when the crew has no tasks.
	ErrNoTasks = errors.New("crew has no tasks")
	// ErrNoAgent is returned when a task has no agent assigned.
	ErrNoAgent = errors.New("task has no agent")
)

// Worker is an agent able to execute a single task prompt.
type Worker interface {
	Name() string
	Execute(runCtx *core.RunContext) (string, error)
}

// Task is one unit of work for a Worker.
type Task struct {
	Name           string
	Description    string
	ExpectedOutput string
	Agent          Worker
}

// Prompt renders the task prompt, appending the outputs of earlier tasks.
func (t Task) Prompt(prior []TaskOutput) string {
	var sb strings.Builder

	sb.WriteString(t.Description)
	if t.ExpectedOutput != "" {
		sb.WriteString("\n\nThis is the expected criteria for your final answer: ")
		sb.WriteString(t.ExpectedOutput)
		sb.WriteString("\nYou MUST return the actual complete content as the final answer, not a summary.")
	}

	if len(prior) > 0 {
		sb.WriteString("\n\nThis is the context you're working with:\n")
		for i, p := range prior {
			if i > 0 {
				sb.WriteString("\n\n----------\n\n")
			}
			sb.WriteString(p.Raw)
		}
	}

	return sb.String()
}

// TaskOutput is the result of one task.
type TaskOutput struct {
	Name           string `json:"name"`
	Agent          string `json:"agent"`
	Description    string `json:"description"`
	ExpectedOutput string `json:"expected_output"`
	Raw            string `json:"output"`
}

// Output is the result of a crew run.
type Output struct {
	RunID string       `json:"run_id"`
	Tasks []TaskOutput `json:"tasks"`
	// Raw is the output of the last task.
	Raw string `json:"raw"`
}

// String returns the raw output of the final task.
func (o *Output) String() string { return o.Raw }

// TaskOutput returns the output of the named task.
func (o *Output) TaskOutput(name string) (TaskOutput, bool) {
	for _, t := range o.Tasks {
		if t.Name == name {
			return t, true
		}
	}
	return TaskOutput{}, false
}

// Options configure a Crew.
type Options struct {
	// RunID identifies the run; a new ID is generated when empty.
	RunID string
	// MaxModelCalls bounds the model calls of each task (0 = unlimited).
	MaxModelCalls int
	ArtifactStore core.ArtifactStore
	Logger        logging.Logger
	// OnEvent observes every event emitted by the agents.
	OnEvent func(core.Event)
}

// Crew is a sequential pipeline of tasks.
type Crew struct {
	tasks []Task
	opts  Options
}

// New creates a Crew.
func New(tasks []Task, optFns ...func(o *Options)) *Crew {
	opts := Options{
		MaxModelCalls: 10,
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.RunID == "" {
		opts.RunID = core.NewID()
	}

	return &Crew{tasks: tasks, opts: opts}
}

// RunID returns the identifier of the crew's run.
func (c *Crew) RunID() string { return c.opts.RunID }

// Tasks returns the crew's tasks in execution order.
func (c *Crew) Tasks() []Task { return c.tasks }

// Kickoff runs all tasks in order with the given credentials. The first
// failing task aborts the run.
func (c *Crew) Kickoff(ctx context.Context, creds core.Credentials) (*Output, error) {
	if len(c.tasks) == 0 {
		return nil, ErrNoTasks
	}

	for _, t := range c.tasks {
		if t.Agent == nil {
			return nil, fmt.Errorf("task %q: %w", t.Name, ErrNoAgent)
		}
	}

	logger := c.opts.Logger
	start := time.Now()

	logger.Info("crew.kickoff.start", "run_id", c.opts.RunID, "tasks", len(c.tasks), "credentials", creds.String())

	emit := make(chan core.Event, 64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range emit {
			if c.opts.OnEvent != nil {
				c.opts.OnEvent(ev)
			}
		}
	}()

	defer func() {
		close(emit)
		wg.Wait()
	}()

	root := core.NewRunContext(ctx, c.opts.RunID, core.AgentInfo{Name: "crew", Type: "crew"}, core.Content{}, emit,
		func(o *core.RunContextOptions) {
			o.Credentials = creds
			o.ArtifactStore = c.opts.ArtifactStore
			o.MaxModelCalls = c.opts.MaxModelCalls
			o.Logger = logger
		},
	)

	out := &Output{RunID: c.opts.RunID, Tasks: make([]TaskOutput, 0, len(c.tasks))}

	for i, task := range c.tasks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("task %q: %w", task.Name, err)
		}

		taskStart := time.Now()
		logger.Info("crew.task.start", "run_id", c.opts.RunID, "task", task.Name, "agent", task.Agent.Name(), "index", i)

		runCtx := root.ForAgent(
			core.AgentInfo{Name: task.Agent.Name(), Type: "model"},
			core.NewTextContent("user", task.Prompt(out.Tasks)),
			emit,
		)

		raw, err := task.Agent.Execute(runCtx)
		if err != nil {
			logger.Error("crew.task.error", "run_id", c.opts.RunID, "task", task.Name, "error", err.Error())
			return nil, fmt.Errorf("task %q: %w", task.Name, err)
		}

		out.Tasks = append(out.Tasks, TaskOutput{
			Name:           task.Name,
			Agent:          task.Agent.Name(),
			Description:    task.Description,
			ExpectedOutput: task.ExpectedOutput,
			Raw:            raw,
		})
		root.SetState(task.Name+"_output", raw)

		logger.Info("crew.task.complete", "run_id", c.opts.RunID, "task", task.Name,
			"duration_ms", time.Since(taskStart).Milliseconds(), "model_calls", runCtx.Limiter.Count())
	}

	out.Raw = out.Tasks[len(out.Tasks)-1].Raw

	logger.Info("crew.kickoff.complete", "run_id", c.opts.RunID, "duration_ms", time.Since(start).Milliseconds())

	return out, nil
}
