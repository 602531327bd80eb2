// Package resume requests AI rewrites of a resume for a target position.
package resume

import (
	"context"
	"fmt"
	"strings"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
)

const opOptimize = "resume.optimize"

// Backend is the part of api.Backend resume optimization needs.
type Backend interface {
	OptimizeResume(ctx context.Context, req api.OptimizeRequest) (*api.OptimizeResult, error)
}

// Result is an optimized resume.
type Result struct {
	Original    string
	Optimized   string
	Suggestions []string
	Score       float64 // 0-10
	Position    string
}

type Service struct {
	backend Backend
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Optimize validates text and asks the service for a rewrite. position may
// be empty.
func (s *Service) Optimize(ctx context.Context, text, position string) (*Result, error) {
	text = strings.TrimSpace(text)
	position = strings.TrimSpace(position)
	if text == "" {
		return nil, api.InvalidInput(opOptimize, "please enter your resume")
	}
	if len([]rune(text)) < api.MinResumeLength {
		return nil, api.InvalidInput(opOptimize, fmt.Sprintf("resume text must be at least %d characters", api.MinResumeLength))
	}

	out, err := s.backend.OptimizeResume(ctx, api.OptimizeRequest{ResumeText: text, Position: position})
	if err != nil {
		return nil, api.Classify(opOptimize, err)
	}
	return &Result{
		Original:    out.Original,
		Optimized:   out.Optimized,
		Suggestions: out.Suggestions,
		Score:       api.ClampScore(out.Score),
		Position:    position,
	}, nil
}

// Markdown formats r as a report.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("# Optimized resume")
	if r.Position != "" {
		fmt.Fprintf(&b, " for %s", r.Position)
	}
	fmt.Fprintf(&b, "\n\n**Score:** %.1f / 10\n\n", r.Score)

	if len(r.Suggestions) > 0 {
		b.WriteString("## Suggestions\n\n")
		for _, s := range r.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Resume\n\n")
	b.WriteString(strings.TrimSpace(r.Optimized))
	b.WriteString("\n")
	return b.String()
}
