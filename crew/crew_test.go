package crew

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hupe1980/eventcrew/agent"
	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWorker struct {
	name    string
	reply   string
	err     error
	prompts []string
	creds   []core.Credentials
}

func (w *recordingWorker) Name() string { return w.name }

func (w *recordingWorker) Execute(runCtx *core.RunContext) (string, error) {
	w.prompts = append(w.prompts, runCtx.UserContent.Text())
	w.creds = append(w.creds, runCtx.Credentials)
	return w.reply, w.err
}

func TestKickoff_RunsTasksInOrder(t *testing.T) {
	venue := &recordingWorker{name: "venue", reply: "Venue: Hall A"}
	logistics := &recordingWorker{name: "logistics", reply: "Catering booked"}
	marketing := &recordingWorker{name: "marketing", reply: "Campaign ready"}

	c := New([]Task{
		{Name: "venue_task", Description: "Find a venue", ExpectedOutput: "venue details", Agent: venue},
		{Name: "logistics_task", Description: "Arrange logistics", Agent: logistics},
		{Name: "marketing_task", Description: "Market it", Agent: marketing},
	}, func(o *Options) { o.RunID = "run-42" })

	creds := core.Credentials{ModelAPIKey: "sk-1", SearchAPIKey: "serp-1"}
	out, err := c.Kickoff(context.Background(), creds)
	require.NoError(t, err)

	assert.Equal(t, "run-42", out.RunID)
	require.Len(t, out.Tasks, 3)
	assert.Equal(t, []string{"venue_task", "logistics_task", "marketing_task"},
		[]string{out.Tasks[0].Name, out.Tasks[1].Name, out.Tasks[2].Name})
	assert.Equal(t, "Venue: Hall A", out.Tasks[0].Raw)
	assert.Equal(t, "venue", out.Tasks[0].Agent)
	assert.Equal(t, "Campaign ready", out.Raw)
	assert.Equal(t, "Campaign ready", out.String())

	// earlier outputs flow forward as context
	assert.Contains(t, venue.prompts[0], "Find a venue")
	assert.Contains(t, venue.prompts[0], "expected criteria for your final answer: venue details")
	assert.NotContains(t, venue.prompts[0], "context you're working with")
	assert.Contains(t, logistics.prompts[0], "Venue: Hall A")
	assert.Contains(t, marketing.prompts[0], "Venue: Hall A\n\n----------\n\nCatering booked")

	assert.Equal(t, creds, marketing.creds[0])

	lt, ok := out.TaskOutput("logistics_task")
	require.True(t, ok)
	assert.Equal(t, "Catering booked", lt.Raw)
	_, ok = out.TaskOutput("unknown")
	assert.False(t, ok)
}

func TestKickoff_FailureAborts(t *testing.T) {
	first := &recordingWorker{name: "a", err: errors.New("model exploded")}
	second := &recordingWorker{name: "b", reply: "never"}

	c := New([]Task{
		{Name: "first", Agent: first},
		{Name: "second", Agent: second},
	})

	_, err := c.Kickoff(context.Background(), core.Credentials{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `task "first"`)
	assert.Contains(t, err.Error(), "model exploded")
	assert.Empty(t, second.prompts)
}

func TestKickoff_NoTasks(t *testing.T) {
	_, err := New(nil).Kickoff(context.Background(), core.Credentials{})
	require.ErrorIs(t, err, ErrNoTasks)
}

func TestKickoff_NoAgent(t *testing.T) {
	_, err := New([]Task{{Name: "orphan"}}).Kickoff(context.Background(), core.Credentials{})
	require.ErrorIs(t, err, ErrNoAgent)
}

func TestKickoff_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &recordingWorker{name: "a", reply: "x"}
	_, err := New([]Task{{Name: "t", Agent: w}}).Kickoff(ctx, core.Credentials{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, w.prompts)
}

func TestKickoff_WithModelAgents(t *testing.T) {
	m := model.NewMockModel("mock")
	m.EnqueueText("first answer")
	m.EnqueueText("second answer")

	var mu sync.Mutex
	var events []core.Event

	a1 := agent.NewModelAgent("venue", m)
	a2 := agent.NewModelAgent("marketing", m)

	c := New([]Task{
		{Name: "venue_task", Description: "find", Agent: a1},
		{Name: "marketing_task", Description: "market", Agent: a2},
	}, func(o *Options) {
		o.OnEvent = func(ev core.Event) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		}
	})

	out, err := c.Kickoff(context.Background(), core.Credentials{})
	require.NoError(t, err)
	assert.NotEmpty(t, c.RunID())
	assert.Equal(t, "first answer", out.Tasks[0].Raw)
	assert.Equal(t, "second answer", out.Raw)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 2)
	assert.Equal(t, "venue", events[0].Author)
	assert.Equal(t, "marketing", events[1].Author)

	reqs := m.Requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[1].Contents[0].Text(), "first answer")
}
