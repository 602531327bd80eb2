package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

// scriptedInterviewQuestions are asked in order, one per interview turn.
var scriptedInterviewQuestions = []string{
	"Thanks. Walk me through a project you are proud of. What was your role and what was the hardest technical problem?",
	"How would you design a URL shortener that serves 10k requests per second? Start with the data model.",
	"Tell me about a production incident you debugged. How did you find the root cause?",
	"Which trade-offs do you weigh when choosing between SQL and a key-value store?",
	"That covers my questions. Thank you for your time, we will be in touch.",
}

var scriptedResumeSuggestions = []string{
	"Lead each bullet with a strong action verb.",
	"Quantify outcomes (latency, revenue, users) wherever possible.",
	"Move the skills section below experience and trim it to the relevant stack.",
}

// ScriptedProvider is a deterministic offline Provider. It picks a reply
// shape from the request purpose (see WithPurpose) and never calls out.
type ScriptedProvider struct {
	mu    sync.Mutex
	calls int
}

// NewScriptedProvider returns a ScriptedProvider.
func NewScriptedProvider() *ScriptedProvider {
	return &ScriptedProvider{}
}

// Generate builds a canned reply for the request purpose. Structured
// replies are validated against req.Schema like any other provider.
func (s *ScriptedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	var payload any
	switch purpose := PurposeFrom(ctx); purpose {
	case PurposeInterview:
		payload = map[string]any{"reply": scriptedInterviewReply(req.Messages)}
	case PurposeEvaluate:
		payload = scriptedEvaluation(lastUserMessage(req.Messages))
	case PurposeResume:
		payload = scriptedResume(lastUserMessage(req.Messages))
	default:
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("no script for purpose %q", purpose)}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal scripted reply: %w", err)
	}
	content, err := structuredContent(req.Schema, raw)
	if err != nil {
		return nil, err
	}

	return &Response{
		Content:    content,
		Usage:      Usage{InputTokens: approxTokens(serializeRequest(req)), OutputTokens: approxTokens(string(raw))},
		Model:      "scripted",
		StopReason: "end",
	}, nil
}

// ModelID returns "scripted".
func (s *ScriptedProvider) ModelID() string {
	return "scripted"
}

// CallCount returns the number of Generate calls made.
func (s *ScriptedProvider) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func scriptedInterviewReply(msgs []Message) string {
	asked := 0
	for _, m := range msgs {
		if m.Role == RoleAssistant {
			asked++
		}
	}
	// The opener counts as the first assistant message.
	idx := asked - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(scriptedInterviewQuestions) {
		idx = len(scriptedInterviewQuestions) - 1
	}
	return scriptedInterviewQuestions[idx]
}

// CandidateAnswerMarker precedes the candidate's answer in evaluation
// prompts. The scripted provider scores only the text after it.
const CandidateAnswerMarker = "Candidate answer:"

func scriptedEvaluation(prompt string) map[string]any {
	answer := prompt
	if i := strings.LastIndex(prompt, CandidateAnswerMarker); i >= 0 {
		answer = prompt[i+len(CandidateAnswerMarker):]
	}
	words := len(strings.Fields(answer))
	score := float64(words) / 4
	if score > 9 {
		score = 9
	}

	comment := "The answer is brief. Expand on the key mechanism and give an example."
	suggestions := []string{"Explain the underlying mechanism.", "Add a concrete example from experience."}
	if words >= 20 {
		comment = "A solid answer that covers the main points."
		suggestions = []string{"Mention edge cases and failure modes."}
	}

	return map[string]any{
		"score":       score,
		"evaluation":  comment,
		"suggestions": suggestions,
	}
}

func scriptedResume(prompt string) map[string]any {
	body := prompt
	if i := strings.Index(prompt, "\n\n"); i >= 0 {
		body = prompt[i+2:]
	}

	var b strings.Builder
	b.WriteString("## Summary\n\n")
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		b.WriteString("- ")
		b.WriteString(strings.TrimLeft(line, "-* "))
		b.WriteString("\n")
	}

	return map[string]any{
		"optimized_resume": b.String(),
		"suggestions":      scriptedResumeSuggestions,
		"score":            6.5,
	}
}

func lastUserMessage(msgs []Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == RoleUser {
			return msgs[i].Content
		}
	}
	return ""
}

// approxTokens estimates tokens at four characters each.
func approxTokens(s string) int {
	return (utf8.RuneCountInString(s) + 3) / 4
}
