package server

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// eventRequestSchema describes the body of POST /run-event. The participant
// bound keeps the derived venue capacity exact as an int and a JSON number.
const eventRequestSchema = `{
  "type": "object",
  "required": [
    "event_topic", "event_description", "event_city", "tentative_date",
    "expected_participants", "budget", "venue_type",
    "openai_api_key", "serper_api_key"
  ],
  "properties": {
    "event_topic": {"type": "string"},
    "event_description": {"type": "string"},
    "event_city": {"type": "string"},
    "tentative_date": {"type": "string"},
    "expected_participants": {"type": "integer", "minimum": 0, "maximum": 1000000000},
    "budget": {"type": "number"},
    "venue_type": {"type": "string"},
    "openai_api_key": {"type": "string"},
    "serper_api_key": {"type": "string"}
  }
}`

// ValidationIssue is one entry of a 422 response detail.
type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// RequestValidator validates request bodies against the event schema.
type RequestValidator struct {
	schema *gojsonschema.Schema
}

// NewRequestValidator compiles the event request schema.
func NewRequestValidator() *RequestValidator {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(eventRequestSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid event request schema: %v", err))
	}
	return &RequestValidator{schema: schema}
}

// Validate returns the problems found in body, or nil when it is valid.
func (v *RequestValidator) Validate(body []byte) []ValidationIssue {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return []ValidationIssue{{Loc: []string{"body"}, Msg: fmt.Sprintf("invalid JSON: %v", err), Type: "json_invalid"}}
	}

	if result.Valid() {
		return nil
	}

	issues := make([]ValidationIssue, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		field := e.Field()
		if prop, ok := e.Details()["property"].(string); ok && e.Type() == "required" {
			field = prop
		}

		loc := []string{"body"}
		if field != "(root)" {
			loc = append(loc, field)
		}

		issues = append(issues, ValidationIssue{Loc: loc, Msg: e.Description(), Type: e.Type()})
	}

	return issues
}
