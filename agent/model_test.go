package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/model"
	"github.com/hupe1980/eventcrew/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockModelImpl for testing LLM functionality
type MockModelImpl struct{ mock.Mock }

func (m *MockModelImpl) Generate(ctx context.Context, req model.Request) (<-chan model.Response, <-chan error) {
	args := m.Called(ctx, req)

	respCh := make(chan model.Response, 1)
	errCh := make(chan error, 1)

	if err := args.Error(1); err != nil {
		errCh <- err
	} else {
		respCh <- model.Response{
			Content:      core.NewTextContent("assistant", args.String(0)),
			FinishReason: "stop",
		}
	}

	close(respCh)
	close(errCh)

	return respCh, errCh
}

func (m *MockModelImpl) Info() model.Info {
	return model.Info{Name: "mock-impl", Provider: "mock"}
}

func TestRolePrompt(t *testing.T) {
	p := RolePrompt("Venue Coordinator", "Book a venue", "Experienced in venues.")

	assert.Contains(t, p, "You are Venue Coordinator. Experienced in venues.")
	assert.Contains(t, p, "Your personal goal is: Book a venue")
}

func TestNewModelAgent_Defaults(t *testing.T) {
	a := NewModelAgent("venue_coordinator", nil, func(o *ModelAgentOptions) {
		o.Role = "Venue Coordinator"
		o.Goal = "Book a venue"
		o.Tools = []tool.Tool{tool.NewSearchTool()}
	})

	assert.Equal(t, "venue_coordinator", a.Name())
	assert.Equal(t, "Venue Coordinator", a.Role())
	assert.Equal(t, "Book a venue", a.Goal())
	assert.Equal(t, "Book a venue", a.Description())
	assert.Equal(t, 20, a.MaxHistoryMessages())
	assert.False(t, a.IsStreamingEnabled())
	assert.True(t, a.HasTool(tool.SearchToolName))
	assert.Len(t, a.GetTools(), 1)

	instr, err := a.ResolveInstructions(newTestRunContext())
	require.NoError(t, err)
	assert.Contains(t, instr, "You are Venue Coordinator.")
}

func TestModelAgent_CustomInstruction(t *testing.T) {
	inst := NewInstructionFromText("custom")
	a := NewModelAgent("x", nil, func(o *ModelAgentOptions) { o.Instruction = &inst })

	instr, err := a.ResolveInstructions(newTestRunContext())
	require.NoError(t, err)
	assert.Equal(t, "custom", instr)
}

func TestModelAgent_Execute(t *testing.T) {
	llm := new(MockModelImpl)
	llm.On("Generate", mock.Anything, mock.MatchedBy(func(req model.Request) bool {
		return len(req.Contents) == 1 && req.Contents[0].Text() == "hello"
	})).Return("final answer", nil).Once()

	a := NewModelAgent("venue", llm, func(o *ModelAgentOptions) { o.OutputKey = "venue_output" })

	emit := make(chan core.Event, 10)
	rc := core.NewRunContext(context.Background(), "run-1", core.AgentInfo{Name: "venue"}, core.NewTextContent("user", "hello"), emit)

	out, err := a.Execute(rc)
	require.NoError(t, err)
	assert.Equal(t, "final answer", out)
	llm.AssertExpectations(t)

	v, ok := rc.GetState("venue_output")
	require.True(t, ok)
	assert.Equal(t, "final answer", v)

	require.Len(t, emit, 1)
	ev := <-emit
	assert.Equal(t, "venue", ev.Author)
}

func TestModelAgent_ExecuteModelError(t *testing.T) {
	llm := new(MockModelImpl)
	llm.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("upstream down"))

	a := NewModelAgent("venue", llm)
	err := a.Run(newTestRunContext())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestModelAgent_FactoryUsesRunCredentials(t *testing.T) {
	mm := model.NewMockModel("mock")
	mm.EnqueueText("ok")

	var gotKey string
	a := NewModelAgent("venue", nil, func(o *ModelAgentOptions) {
		o.ModelFactory = func(apiKey string) (model.Model, error) {
			gotKey = apiKey
			return mm, nil
		}
	})

	rc := core.NewRunContext(context.Background(), "run-1", core.AgentInfo{Name: "venue"}, core.NewTextContent("user", "hi"), nil,
		func(o *core.RunContextOptions) { o.Credentials = core.Credentials{ModelAPIKey: "sk-run"} })

	out, err := a.Execute(rc)
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, "sk-run", gotKey)
}

func TestModelAgent_NoModel(t *testing.T) {
	_, err := NewModelAgent("venue", nil).Execute(newTestRunContext())
	require.ErrorIs(t, err, ErrNoModel)
}
