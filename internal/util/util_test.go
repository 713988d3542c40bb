package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchArgs struct {
	Query string `json:"search_query" description:"what to look for"`
	Limit *int   `json:"limit,omitempty"`
}

func TestCreateSchema(t *testing.T) {
	schema := CreateSchema(searchArgs{})

	assert.Equal(t, "object", schema["type"])
	props := schema["properties"].(map[string]any)
	require.Contains(t, props, "search_query")
	require.Contains(t, props, "limit")
	assert.Equal(t, "string", props["search_query"].(map[string]any)["type"])
	assert.Equal(t, "what to look for", props["search_query"].(map[string]any)["description"])
	assert.Equal(t, []string{"search_query"}, schema["required"])
}

func TestValidateParameters(t *testing.T) {
	schema := CreateSchema(searchArgs{})

	require.NoError(t, ValidateParameters(map[string]any{"search_query": "venues", "extra": true}, schema))

	err := ValidateParameters(map[string]any{}, schema)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "search_query", verr.Field)

	err = ValidateParameters(map[string]any{"search_query": 12}, schema)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "search_query", verr.Field)
}

func TestValidateParameters_EmptySchema(t *testing.T) {
	assert.NoError(t, ValidateParameters(map[string]any{"x": 1}, nil))
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("plain text", nil)
	require.NoError(t, err)
	assert.Equal(t, "plain text", out)

	out, err = RenderTemplate("#{{nospace .topic}} in {{upper .city}}", map[string]any{"topic": "Tech Summit", "city": "berlin"})
	require.NoError(t, err)
	assert.Equal(t, "#TechSummit in BERLIN", out)

	_, err = RenderTemplate("{{.missing}}", map[string]any{})
	assert.Error(t, err)
}
