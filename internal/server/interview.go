package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/llm"
)

type interviewTurn struct {
	Reply string `json:"reply"`
}

func (s *Server) interviewChat(w http.ResponseWriter, r *http.Request) {
	var req api.ChatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var verr validationErrors
	if strings.TrimSpace(req.Message) == "" {
		verr.add("body", "message", "message must not be empty")
	}
	if verr.write(w) {
		return
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = s.topic
	}

	ctx, cancel := s.llmContext(r.Context(), llm.PurposeInterview)
	defer cancel()

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:   interviewSystemPrompt(topic, s.maxTurns),
		Messages: interviewMessages(req.History, req.Message),
		Schema:   interviewTurnSchema,
	})
	if err != nil {
		s.llmError(w, r, "interview chat", err)
		return
	}

	var turn interviewTurn
	if err := json.Unmarshal(resp.Content, &turn); err != nil {
		s.llmError(w, r, "interview chat", &llm.ErrInvalidResponse{Content: resp.Content, Err: err})
		return
	}

	history := make([]api.HistoryItem, 0, len(req.History)+1)
	history = append(history, req.History...)
	history = append(history, api.HistoryItem{
		User:      req.Message,
		AI:        turn.Reply,
		Timestamp: float64(s.now().UnixMilli()) / 1000,
	})

	JSON(w, http.StatusOK, api.ChatResponse{
		AIMessage:  turn.Reply,
		History:    history,
		IsComplete: len(history) >= s.maxTurns,
	})
}

// llmError logs a failed model call and answers with the mapped status.
func (s *Server) llmError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := llmStatus(err)
	s.log.Error("llm request failed",
		"op", op,
		"status", status,
		"kind", llm.ErrorKind(err),
		"err", err,
		"request_id", middleware.GetReqID(r.Context()),
	)
	Error(w, status, fmt.Sprintf("%s failed: %v", op, err))
}
