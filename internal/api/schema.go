package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Response schemas, keyed by name. Optional columns of the question bank
// may be null.
var responseSchemas = map[string]map[string]any{
	"health": {
		"type":     "object",
		"required": []any{"version"},
		"properties": map[string]any{
			"message": map[string]any{"type": "string"},
			"version": map[string]any{"type": "string"},
			"docs":    map[string]any{"type": "string"},
		},
	},
	"resume": {
		"type":     "object",
		"required": []any{"original_resume", "optimized_resume", "suggestions", "score"},
		"properties": map[string]any{
			"original_resume":  map[string]any{"type": "string"},
			"optimized_resume": map[string]any{"type": "string"},
			"suggestions":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"score":            map[string]any{"type": "number"},
		},
	},
	"chat": {
		"type":     "object",
		"required": []any{"ai_message", "conversation_history", "is_complete"},
		"properties": map[string]any{
			"ai_message": map[string]any{"type": "string"},
			"conversation_history": map[string]any{
				"type":  "array",
				"items": historyItemSchema,
			},
			"is_complete": map[string]any{"type": "boolean"},
		},
	},
	"question": questionSchema,
	"question-list": {
		"type":  "array",
		"items": questionSchema,
	},
	"evaluation": {
		"type":     "object",
		"required": []any{"question_id", "user_answer", "score", "evaluation", "suggestions"},
		"properties": map[string]any{
			"question_id":     map[string]any{"type": "integer"},
			"user_answer":     map[string]any{"type": "string"},
			"standard_answer": map[string]any{"type": []any{"string", "null"}},
			"score":           map[string]any{"type": "number"},
			"evaluation":      map[string]any{"type": "string"},
			"suggestions":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	},
}

var historyItemSchema = map[string]any{
	"type":     "object",
	"required": []any{"user", "ai"},
	"properties": map[string]any{
		"user":      map[string]any{"type": "string"},
		"ai":        map[string]any{"type": "string"},
		"timestamp": map[string]any{"type": []any{"number", "null"}},
		"greeting":  map[string]any{"type": "boolean"},
	},
}

var questionSchema = map[string]any{
	"type":     "object",
	"required": []any{"id", "question", "answer"},
	"properties": map[string]any{
		"id":         map[string]any{"type": "integer"},
		"question":   map[string]any{"type": "string"},
		"answer":     map[string]any{"type": "string"},
		"tags":       map[string]any{"type": []any{"string", "null"}},
		"difficulty": map[string]any{"type": []any{"string", "null"}},
		"created_at": map[string]any{"type": []any{"string", "null"}},
		"updated_at": map[string]any{"type": []any{"string", "null"}},
	},
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// validateBody checks raw against the named response schema. Unknown names
// skip validation.
func validateBody(name string, raw []byte) error {
	def, ok := responseSchemas[name]
	if !ok {
		return nil
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	compiled, err := compiledSchema(name, def)
	if err != nil {
		return fmt.Errorf("compile schema %q: %w", name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compiledSchema(name string, def map[string]any) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// Round-trip so the compiler sees plain JSON values.
	defBytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://api/%s.json", name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(name, compiled)
	return compiled, nil
}
