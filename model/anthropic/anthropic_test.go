package anthropic

import (
	"testing"

	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFactory_RequiresKey(t *testing.T) {
	_, err := NewFactory()("")
	require.ErrorIs(t, err, model.ErrMissingAPIKey)

	m, err := NewFactory()("key")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", m.Info().Provider)
}

func TestBuildMessages_ToolResultsInUserTurn(t *testing.T) {
	msgs := buildMessages([]core.Content{
		core.NewTextContent("system", "ignored here"),
		core.NewTextContent("user", "hello"),
		{Role: "assistant", Parts: []core.Part{
			core.TextPart{Text: "searching"},
			core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "t1", Name: "search_internet", Arguments: `{"search_query":"q"}`}},
		}},
		{Role: "tool", Parts: []core.Part{
			core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{ID: "t1", Name: "search_internet", Response: "ok"}},
		}},
	})

	require.Len(t, msgs, 3)
	assert.Equal(t, "user", string(msgs[0].Role))
	assert.Equal(t, "assistant", string(msgs[1].Role))
	assert.Equal(t, "user", string(msgs[2].Role))
	assert.Len(t, msgs[1].Content, 2)
	assert.Len(t, msgs[2].Content, 1)
}

func TestSystemBlocks_IncludesInstructions(t *testing.T) {
	blocks := systemBlocks(model.Request{
		Instructions: "plan events",
		Contents:     []core.Content{core.NewTextContent("system", "extra")},
	})
	require.Len(t, blocks, 2)
	assert.Equal(t, "plan events", blocks[0].Text)
	assert.Equal(t, "extra", blocks[1].Text)
}

func TestRequiredFields(t *testing.T) {
	assert.Equal(t, []string{"a"}, requiredFields([]string{"a"}))
	assert.Equal(t, []string{"b"}, requiredFields([]any{"b", 1}))
	assert.Nil(t, requiredFields(nil))
}
