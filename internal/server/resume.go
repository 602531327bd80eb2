package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/llm"
)

type resumeOptimization struct {
	OptimizedResume string   `json:"optimized_resume"`
	Suggestions     []string `json:"suggestions"`
	Score           float64  `json:"score"`
}

func (s *Server) optimizeResume(w http.ResponseWriter, r *http.Request) {
	var req api.OptimizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var verr validationErrors
	if n := utf8.RuneCountInString(strings.TrimSpace(req.ResumeText)); n < api.MinResumeLength {
		verr.add("body", "resume_text", fmt.Sprintf("must be at least %d characters", api.MinResumeLength))
	}
	if verr.write(w) {
		return
	}

	ctx, cancel := s.llmContext(r.Context(), llm.PurposeResume)
	defer cancel()

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:   resumeSystemPrompt,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: resumePrompt(req.ResumeText, req.Position)}},
		Schema:   resumeOptimizationSchema,
	})
	if err != nil {
		s.llmError(w, r, "resume optimization", err)
		return
	}

	var opt resumeOptimization
	if err := json.Unmarshal(resp.Content, &opt); err != nil {
		s.llmError(w, r, "resume optimization", &llm.ErrInvalidResponse{Content: resp.Content, Err: err})
		return
	}

	JSON(w, http.StatusOK, api.OptimizeResult{
		Original:    req.ResumeText,
		Optimized:   opt.OptimizedResume,
		Suggestions: opt.Suggestions,
		Score:       api.ClampScore(opt.Score),
	})
}
