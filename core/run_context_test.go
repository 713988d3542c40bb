package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	saved map[string][]byte
}

func (s *recordingStore) Save(_ context.Context, runID, name string, data []byte) error {
	s.saved[runID+"/"+name] = data
	return nil
}

func (s *recordingStore) Get(_ context.Context, runID, name string) ([]byte, error) {
	d, ok := s.saved[runID+"/"+name]
	if !ok {
		return nil, errors.New("missing")
	}
	return d, nil
}

func (s *recordingStore) List(context.Context, string) ([]string, error) { return nil, nil }

func (s *recordingStore) Delete(context.Context, string, string) error { return nil }

func TestRunContext_StateSharedAcrossAgents(t *testing.T) {
	emit := make(chan Event, 1)
	rc := NewRunContext(context.Background(), "run-1", AgentInfo{Name: "a"}, NewTextContent("user", "task"), emit,
		func(o *RunContextOptions) {
			o.MaxModelCalls = 2
			o.Credentials = Credentials{ModelAPIKey: "k1", SearchAPIKey: "k2"}
		})

	rc.SetState("venue", "Hall A")
	require.NoError(t, rc.Limiter.Increment())

	next := rc.ForAgent(AgentInfo{Name: "b"}, NewTextContent("user", "next"), emit)
	v, ok := next.GetState("venue")
	assert.True(t, ok)
	assert.Equal(t, "Hall A", v)
	assert.Equal(t, "k2", next.Credentials.SearchAPIKey)
	assert.Equal(t, 0, next.Limiter.Count())
	assert.Equal(t, 2, next.Limiter.Remaining())

	next.SetState("catering", "done")
	_, ok = rc.GetState("catering")
	assert.True(t, ok)

	snap := rc.State()
	snap["venue"] = "mutated"
	v, _ = rc.GetState("venue")
	assert.Equal(t, "Hall A", v)
}

func TestRunContext_SaveArtifact(t *testing.T) {
	rc := NewRunContext(context.Background(), "run-1", AgentInfo{Name: "a"}, Content{}, nil)
	assert.Error(t, rc.SaveArtifact("x", []byte("1")))

	store := &recordingStore{saved: map[string][]byte{}}
	rc = NewRunContext(context.Background(), "run-1", AgentInfo{Name: "a"}, Content{}, nil,
		func(o *RunContextOptions) { o.ArtifactStore = store })
	require.NoError(t, rc.SaveArtifact("x", []byte("1")))
	assert.Equal(t, []byte("1"), store.saved["run-1/x"])
}

func TestRunContext_EmitEventCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rc := NewRunContext(ctx, "run-1", AgentInfo{Name: "a"}, Content{}, make(chan Event))
	err := rc.EmitEvent(NewMessageEvent("run-1", "a", "x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToolContext_Accessors(t *testing.T) {
	rc := NewRunContext(context.Background(), "run-9", AgentInfo{Name: "Venue Coordinator"}, Content{}, nil,
		func(o *RunContextOptions) { o.Credentials = Credentials{SearchAPIKey: "serper"} })
	tc := NewToolContext(rc, "fc-1")

	assert.Equal(t, "run-9", tc.RunID())
	assert.Equal(t, "fc-1", tc.FunctionCallID())
	assert.Equal(t, "Venue Coordinator", tc.AgentName())
	assert.Equal(t, "serper", tc.Credentials().SearchAPIKey)
	assert.NotNil(t, tc.Logger())

	tc.SetState("k", 1)
	v, ok := rc.GetState("k")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestModelLimiter(t *testing.T) {
	l := NewModelLimiter(1)
	require.NoError(t, l.Increment())
	assert.Error(t, l.Increment())
	assert.Equal(t, 2, l.Count())

	unlimited := NewModelLimiter(0)
	for i := 0; i < 5; i++ {
		require.NoError(t, unlimited.Increment())
	}
	assert.Equal(t, -1, unlimited.Remaining())
}
