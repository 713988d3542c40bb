package core

import (
	"errors"
	"testing"
)

func TestEvent_ConstructorsAndMethods(t *testing.T) {
	e := NewEvent("run-123", "authorA")
	if e.Author != "authorA" || e.RunID != "run-123" || e.ID == "" || e.Timestamp.IsZero() {
		t.Fatalf("NewEvent did not initialize fields correctly: %+v", e)
	}

	msg := NewMessageEvent("run-123", "agent1", "hello world")
	if msg.Content == nil || msg.Content.Role != "assistant" || msg.Text() != "hello world" {
		t.Fatalf("NewMessageEvent malformed: %+v", msg)
	}

	user := NewUserMessageEvent("run-123", "hi")
	if user.Content == nil || user.Content.Role != "user" || user.Author != "user" {
		t.Fatalf("NewUserMessageEvent malformed: %+v", user)
	}

	fCall := NewFunctionCallEvent("run-123", "agent2", "call-1", "do_stuff", `{"a":1}`)
	calls := fCall.GetFunctionCalls()
	if len(calls) != 1 || calls[0].Name != "do_stuff" || calls[0].ID != "call-1" {
		t.Fatalf("GetFunctionCalls extraction failed: %+v", calls)
	}

	fRespOK := NewFunctionResponseEvent("run-123", "agent2", "call-1", "do_stuff", 42, nil)
	resps := fRespOK.GetFunctionResponses()
	if len(resps) != 1 || resps[0].Response.(int) != 42 || resps[0].Error != "" {
		t.Fatalf("Function response success extraction failed: %+v", resps)
	}

	fRespErr := NewFunctionResponseEvent("run-123", "agent2", "call-2", "do_stuff", nil, errors.New("boom"))
	resps = fRespErr.GetFunctionResponses()
	if resps[0].Error != "boom" {
		t.Fatalf("Expected error message in function response: %+v", resps[0])
	}

	errEv := NewErrorEvent("run-123", errors.New("bad"))
	if !errEv.IsError() || *errEv.ErrorMessage != "bad" {
		t.Fatalf("NewErrorEvent malformed: %+v", errEv)
	}
}

func TestEvent_IsFinalResponseLogic(t *testing.T) {
	if !NewMessageEvent("run", "agent", "done").IsFinalResponse() {
		t.Error("Expected plain message to be final")
	}

	partial := true
	e2 := NewMessageEvent("run", "agent", "d")
	e2.Partial = &partial
	if e2.IsFinalResponse() {
		t.Error("Partial event should not be final")
	}

	if NewFunctionCallEvent("run", "agent", "1", "f", "").IsFinalResponse() {
		t.Error("Event with function call should not be final")
	}

	if NewFunctionResponseEvent("run", "agent", "1", "f", "x", nil).IsFinalResponse() {
		t.Error("Event with function response should not be final")
	}
}

func TestContent_Text(t *testing.T) {
	c := Content{Role: "assistant", Parts: []Part{
		TextPart{Text: "a"},
		FunctionCallPart{FunctionCall: FunctionCall{Name: "x"}},
		TextPart{Text: "b"},
	}}
	if got := c.Text(); got != "ab" {
		t.Fatalf("expected %q, got %q", "ab", got)
	}
}

func TestCredentials_StringRedacts(t *testing.T) {
	c := Credentials{ModelAPIKey: "sk-secret-value", SearchAPIKey: ""}
	s := c.String()
	if s != "Credentials{model:sk****ue, search:<unset>}" {
		t.Fatalf("unexpected redaction: %s", s)
	}
}
