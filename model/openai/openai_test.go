package openai

import (
	"testing"

	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFactory_RequiresKey(t *testing.T) {
	f := NewFactory()
	_, err := f("")
	require.ErrorIs(t, err, model.ErrMissingAPIKey)

	m, err := f("sk-test")
	require.NoError(t, err)
	assert.Equal(t, "openai", m.Info().Provider)
	assert.Equal(t, "gpt-3.5-turbo", m.Info().Name)
}

func TestBuildMessages_ToolResponsesFollowCalls(t *testing.T) {
	req := model.Request{
		Instructions: "be helpful",
		Contents: []core.Content{
			core.NewTextContent("user", "find venues"),
			{Role: "assistant", Parts: []core.Part{
				core.FunctionCallPart{FunctionCall: core.FunctionCall{ID: "c1", Name: "search_internet", Arguments: `{"search_query":"x"}`}},
			}},
			{Role: "tool", Parts: []core.Part{
				core.FunctionResponsePart{FunctionResponse: core.FunctionResponse{ID: "c1", Name: "search_internet", Response: "results"}},
			}},
		},
	}
	responses, order := collectToolResponses(req)
	require.Equal(t, []string{"c1"}, order)

	msgs := buildMessages(req, responses, order)
	require.Len(t, msgs, 4)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	assert.NotNil(t, msgs[2].OfAssistant)
	require.NotNil(t, msgs[3].OfTool)
	assert.Equal(t, "c1", msgs[3].OfTool.ToolCallID)
}

func TestResponseText_Error(t *testing.T) {
	assert.Equal(t, "Error: boom", responseText(core.FunctionResponse{Error: "boom"}))
	assert.Equal(t, "42", responseText(core.FunctionResponse{Response: 42}))
}
