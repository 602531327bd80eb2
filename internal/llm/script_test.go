package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestScriptedProvider_InterviewAdvances(t *testing.T) {
	p := NewScriptedProvider()
	ctx := WithPurpose(context.Background(), PurposeInterview)

	history := []Message{
		{Role: RoleAssistant, Content: "Welcome. Please introduce yourself."},
		{Role: RoleUser, Content: "I am a backend engineer."},
	}

	var replies []string
	for i := 0; i < 3; i++ {
		resp, err := p.Generate(ctx, Request{Messages: history, Schema: replySchema})
		if err != nil {
			t.Fatalf("turn %d: unexpected error: %v", i, err)
		}
		var out struct {
			Reply string `json:"reply"`
		}
		if err := json.Unmarshal(resp.Content, &out); err != nil {
			t.Fatalf("turn %d: decode: %v", i, err)
		}
		replies = append(replies, out.Reply)
		history = append(history,
			Message{Role: RoleAssistant, Content: out.Reply},
			Message{Role: RoleUser, Content: "answer"},
		)
	}

	for i, want := range scriptedInterviewQuestions[:3] {
		if replies[i] != want {
			t.Errorf("turn %d reply = %q, want %q", i, replies[i], want)
		}
	}
	if p.CallCount() != 3 {
		t.Fatalf("expected 3 calls, got %d", p.CallCount())
	}
}

func TestScriptedProvider_EvaluationScoresAnswer(t *testing.T) {
	p := NewScriptedProvider()
	ctx := WithPurpose(context.Background(), PurposeEvaluate)

	prompt := "Question: What is a mutex?\n\nReference answer: a lock\n\n" + CandidateAnswerMarker + "\nit locks things"
	resp, err := p.Generate(ctx, Request{
		Messages: []Message{{Role: RoleUser, Content: prompt}},
		Schema:   evaluationSchema(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out struct {
		Score       float64  `json:"score"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// Three words after the marker.
	if out.Score != 0.75 {
		t.Fatalf("expected score 0.75, got %v", out.Score)
	}
	if len(out.Suggestions) == 0 {
		t.Fatal("expected suggestions")
	}
}

func TestScriptedProvider_Resume(t *testing.T) {
	p := NewScriptedProvider()
	ctx := WithPurpose(context.Background(), PurposeResume)

	resp, err := p.Generate(ctx, Request{
		Messages: []Message{{Role: RoleUser, Content: "Target position: SRE\n\n- ran servers\n* fixed outages"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out struct {
		Optimized string  `json:"optimized_resume"`
		Score     float64 `json:"score"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(out.Optimized, "- ran servers\n- fixed outages") {
		t.Fatalf("unexpected optimized resume: %q", out.Optimized)
	}
	if strings.Contains(out.Optimized, "Target position") {
		t.Fatal("prompt header leaked into the resume")
	}
	if out.Score != 6.5 {
		t.Fatalf("expected score 6.5, got %v", out.Score)
	}
}

func TestScriptedProvider_UnknownPurpose(t *testing.T) {
	_, err := NewScriptedProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T (%v)", err, err)
	}
}

func TestScriptedProvider_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(WithPurpose(context.Background(), PurposeInterview))
	cancel()
	if _, err := NewScriptedProvider().Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
