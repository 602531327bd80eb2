package server

import (
	"fmt"
	"strings"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/llm"
)

var interviewTurnSchema = &llm.Schema{
	Name:        "interview-turn",
	Description: "The interviewer's next message to the candidate",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"reply": map[string]any{
				"type":        "string",
				"description": "Feedback on the last answer and/or the next question",
				"minLength":   1,
			},
		},
		"required":             []any{"reply"},
		"additionalProperties": false,
	},
}

var answerEvaluationSchema = &llm.Schema{
	Name:        "answer-evaluation",
	Description: "A graded interview answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "number",
				"description": "Score from 0 to 10",
				"minimum":     0,
				"maximum":     10,
			},
			"evaluation": map[string]any{
				"type":        "string",
				"description": "Assessment of the answer against the reference",
			},
			"suggestions": map[string]any{
				"type":        "array",
				"description": "Concrete improvements",
				"items":       map[string]any{"type": "string"},
				"minItems":    1,
			},
		},
		"required":             []any{"score", "evaluation", "suggestions"},
		"additionalProperties": false,
	},
}

var resumeOptimizationSchema = &llm.Schema{
	Name:        "resume-optimization",
	Description: "An optimized resume with suggestions and a score",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"optimized_resume": map[string]any{
				"type":        "string",
				"description": "The rewritten resume in markdown",
			},
			"suggestions": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": 1,
			},
			"score": map[string]any{
				"type":        "number",
				"description": "Score of the original resume from 0 to 10",
				"minimum":     0,
				"maximum":     10,
			},
		},
		"required":             []any{"optimized_resume", "suggestions", "score"},
		"additionalProperties": false,
	},
}

func interviewSystemPrompt(topic string, maxTurns int) string {
	return fmt.Sprintf(`You are a technical interviewer interviewing a candidate for the role: %s.

Rules:
- Ask exactly one question per message, building on the candidate's previous answers.
- Briefly acknowledge or correct the last answer before the next question.
- Keep each message under 120 words. Use markdown; put code in fenced blocks with a language tag.
- The interview lasts %d exchanges. On the last one, thank the candidate and close the interview.

Respond with JSON: {"reply": "..."}`, topic, maxTurns)
}

// interviewMessages replays the transcript as alternating messages and
// appends the candidate's new message.
func interviewMessages(history []api.HistoryItem, message string) []llm.Message {
	msgs := make([]llm.Message, 0, 2*len(history)+1)
	for _, h := range history {
		if h.User != "" {
			msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: h.User})
		}
		if h.AI != "" {
			msgs = append(msgs, llm.Message{Role: llm.RoleAssistant, Content: h.AI})
		}
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: message})
}

const evaluationSystemPrompt = `You grade answers to technical interview questions.
Compare the candidate's answer with the reference answer. Reward correct reasoning even when phrased differently.
Give a score from 0 to 10, a short assessment, and at least two concrete suggestions.

Respond with JSON: {"score": 0-10, "evaluation": "...", "suggestions": ["..."]}`

func evaluationPrompt(question, reference, answer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question:\n%s\n\n", question)
	fmt.Fprintf(&b, "Reference answer:\n%s\n\n", reference)
	b.WriteString(llm.CandidateAnswerMarker)
	b.WriteString("\n")
	b.WriteString(answer)
	return b.String()
}

const resumeSystemPrompt = `You are a career coach who rewrites resumes.
Rewrite the resume using the STAR method (Situation, Task, Action, Result): quantify results, lead with action verbs, and add relevant keywords for the target position.
Return the rewritten resume in markdown, at least three concrete suggestions, and a 0-10 score for the original.

Respond with JSON: {"optimized_resume": "...", "suggestions": ["..."], "score": 0-10}`

func resumePrompt(text, position string) string {
	if strings.TrimSpace(position) == "" {
		position = "not specified"
	}
	return fmt.Sprintf("Target position: %s\n\n%s", position, text)
}
