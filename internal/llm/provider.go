package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is the core abstraction for LLM interaction.
// Consumers call Generate with a Request and receive structured JSON.
type Provider interface {
	// Generate sends a prompt to the LLM and returns a structured response.
	// The request's Schema field, when set, instructs the provider to return
	// JSON conforming to that schema. The response Content will be the
	// validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the LLM's role and constraints.
	System string

	// Messages is the conversation history. Interview turns replay the
	// whole transcript; evaluations and resume rewrites send one message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When set, the provider uses its native structured output mechanism.
	// When nil, the response Content is raw text as json.RawMessage.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema (used as tool name for Anthropic,
	// schema name for OpenAI). Kebab-case, e.g. "interview-turn".
	Name string

	// Description is a human-readable description of what this schema
	// represents. Sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output. When a Schema was provided in the
	// request, this is the validated JSON object.
	Content json.RawMessage

	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// sampling holds per-purpose generation defaults.
type sampling struct {
	maxTokens   int
	temperature float64
}

// purposeSampling maps request purposes to their generation defaults.
var purposeSampling = map[string]sampling{
	PurposeInterview: {maxTokens: 1024, temperature: 0.7},
	PurposeEvaluate:  {maxTokens: 1024, temperature: 0.2},
	PurposeResume:    {maxTokens: 4096, temperature: 0.4},
}

const defaultMaxTokens = 1024

// shapeRequest prepares req for a vendor API: unset MaxTokens and
// Temperature take the defaults of the purpose on ctx, and the history is
// normalized to strict turn order.
func shapeRequest(ctx context.Context, req Request) Request {
	s, known := purposeSampling[PurposeFrom(ctx)]
	if req.MaxTokens <= 0 {
		req.MaxTokens = defaultMaxTokens
		if known {
			req.MaxTokens = s.maxTokens
		}
	}
	if req.Temperature == 0 && known {
		req.Temperature = s.temperature
	}
	req.Messages = normalizeConversation(req.Messages)
	return req
}

// interviewOpener stands in for the user turn that precedes an assistant
// greeting, for APIs that require the conversation to start with the user.
const interviewOpener = "(The candidate has joined the interview.)"

// normalizeConversation makes msgs acceptable to APIs with strict turn
// order: the first message is from the user, roles alternate, and empty
// messages are dropped. Consecutive messages from one role are merged.
func normalizeConversation(msgs []Message) []Message {
	out := make([]Message, 0, len(msgs)+1)
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		if m.Role != RoleAssistant {
			m.Role = RoleUser
		}
		if len(out) == 0 && m.Role == RoleAssistant {
			out = append(out, Message{Role: RoleUser, Content: interviewOpener})
		}
		if n := len(out); n > 0 && out[n-1].Role == m.Role {
			out[n-1].Content += "\n\n" + m.Content
			continue
		}
		out = append(out, m)
	}
	return out
}
