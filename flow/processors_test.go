package flow

import (
	"testing"

	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstructionsProcessor_RendersState(t *testing.T) {
	rc := newRunContext(t, func(o *core.RunContextOptions) {
		o.State = map[string]any{"city": "Berlin"}
	})
	agent := &testAgent{name: "venue", instructions: "Find venues in {{.city}}."}

	req := &model.Request{}
	require.NoError(t, NewInstructionsProcessor().ProcessRequest(rc, nil, req, agent))
	assert.Equal(t, "Find venues in Berlin.", req.Instructions)
}

func TestInstructionsProcessor_MissingKey(t *testing.T) {
	agent := &testAgent{name: "venue", instructions: "Find venues in {{.city}}."}

	err := NewInstructionsProcessor().ProcessRequest(newRunContext(t), nil, &model.Request{}, agent)
	assert.Error(t, err)
}

func TestContentsProcessor_TrimsHistory(t *testing.T) {
	history := []core.Content{
		core.NewTextContent("user", "task"),
		core.NewTextContent("assistant", "a1"),
		{Role: "tool", Parts: []core.Part{core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{ID: "1"}}}},
		core.NewTextContent("assistant", "a2"),
	}

	req := &model.Request{}
	require.NoError(t, NewContentsProcessor().ProcessRequest(newRunContext(t), history, req, &testAgent{maxHistory: 2}))

	require.Len(t, req.Contents, 2)
	assert.Equal(t, "task", req.Contents[0].Text())
	assert.Equal(t, "a2", req.Contents[1].Text())
}

func TestContentsProcessor_NoLimit(t *testing.T) {
	history := []core.Content{core.NewTextContent("user", "task"), core.NewTextContent("assistant", "a1")}

	req := &model.Request{}
	require.NoError(t, NewContentsProcessor().ProcessRequest(newRunContext(t), history, req, &testAgent{}))
	assert.Len(t, req.Contents, 2)

	assert.Error(t, NewContentsProcessor().ProcessRequest(newRunContext(t), nil, req, &testAgent{}))
}

func TestOutputKeyProcessor(t *testing.T) {
	rc := newRunContext(t)
	p := NewOutputKeyProcessor()

	require.NoError(t, p.ProcessResponse(rc, &model.Response{Partial: true, Content: core.NewTextContent("assistant", "x")}, &testAgent{outputKey: "k"}))
	_, ok := rc.GetState("k")
	assert.False(t, ok)

	require.NoError(t, p.ProcessResponse(rc, &model.Response{Content: core.NewTextContent("assistant", "final")}, &testAgent{outputKey: "k"}))
	v, _ := rc.GetState("k")
	assert.Equal(t, "final", v)
}
