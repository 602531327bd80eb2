package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func evaluationSchema() *Schema {
	return &Schema{
		Name:        "test-evaluation",
		Description: "A graded answer",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score":       map[string]any{"type": "number", "minimum": 0, "maximum": 10},
				"evaluation":  map[string]any{"type": "string"},
				"suggestions": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"verdict":     map[string]any{"type": "string", "enum": []any{"pass", "borderline", "fail"}},
			},
			"required": []any{"score", "evaluation"},
		},
	}
}

func TestValidateResponse_ValidJSON(t *testing.T) {
	raw := json.RawMessage(`{"score":8,"evaluation":"Good","suggestions":["More detail"],"verdict":"pass"}`)
	if err := validateResponse(evaluationSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_ValidWithoutOptional(t *testing.T) {
	raw := json.RawMessage(`{"score":3.5,"evaluation":"Thin"}`)
	if err := validateResponse(evaluationSchema(), raw); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidateResponse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing required", `{"score":5}`},
		{"wrong type", `{"score":"five","evaluation":"ok"}`},
		{"out of range", `{"score":11,"evaluation":"ok"}`},
		{"invalid enum", `{"score":5,"evaluation":"ok","verdict":"maybe"}`},
		{"wrong item type", `{"score":5,"evaluation":"ok","suggestions":[1,2]}`},
		{"malformed", `{not json}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(evaluationSchema(), json.RawMessage(tt.raw))
			if err == nil {
				t.Fatal("expected error")
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T", err)
			}
		})
	}
}

func TestValidateResponse_EmptyResponse(t *testing.T) {
	if err := validateResponse(evaluationSchema(), json.RawMessage(``)); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```\n", `{"a":1}`},
		{"```{\"a\":1}```", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := string(stripCodeFence([]byte(tt.in))); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStructuredContent(t *testing.T) {
	raw := json.RawMessage("```json\n{\"score\":6,\"evaluation\":\"ok\"}\n```")
	got, err := structuredContent(evaluationSchema(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"score":6,"evaluation":"ok"}` {
		t.Fatalf("unexpected content: %s", got)
	}

	// Plain text passes through untouched without a schema.
	text := json.RawMessage("```go\nfmt.Println()\n```")
	got, err = structuredContent(nil, text)
	if err != nil || string(got) != string(text) {
		t.Fatalf("expected passthrough, got %q (%v)", got, err)
	}
}
