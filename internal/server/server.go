// Package server implements the SeekJob HTTP API locally: a SQLite question
// bank plus LLM-backed interview turns, answer evaluation and resume
// optimization.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/interview"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/llm"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/store"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// DefaultMaxTurns ends an interview once the transcript holds this many
// exchanges, greeting included.
const DefaultMaxTurns = 5

// Options configures a Server.
type Options struct {
	Questions store.QuestionRepo
	Provider  llm.Provider

	// MaxTurns defaults to DefaultMaxTurns.
	MaxTurns int
	// DefaultTopic is used when a chat request names no topic.
	DefaultTopic   string
	AllowedOrigins []string
	// LLMTimeout bounds each model request. Default: 60s.
	LLMTimeout time.Duration

	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Server serves the API.
type Server struct {
	questions store.QuestionRepo
	provider  llm.Provider
	maxTurns  int
	topic     string
	origins   []string
	timeout   time.Duration
	log       *slog.Logger
	now       func() time.Time

	docsOnce sync.Once
	docsPage string
}

// New creates a Server. Questions and Provider are required.
func New(opts Options) *Server {
	s := &Server{
		questions: opts.Questions,
		provider:  opts.Provider,
		maxTurns:  opts.MaxTurns,
		topic:     opts.DefaultTopic,
		origins:   opts.AllowedOrigins,
		timeout:   opts.LLMTimeout,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if s.maxTurns <= 0 {
		s.maxTurns = DefaultMaxTurns
	}
	if s.topic == "" {
		s.topic = interview.DefaultTopic
	}
	if s.timeout <= 0 {
		s.timeout = 60 * time.Second
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS(s.origins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		Error(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/", s.health)
	r.Get("/docs", s.docs)

	r.Route("/api", func(r chi.Router) {
		r.Post("/resume/optimize", s.optimizeResume)
		r.Post("/interview/chat", s.interviewChat)

		r.Route("/questions", func(r chi.Router) {
			r.Get("/", s.listQuestions)
			r.Post("/", s.createQuestion)
			r.Get("/random", s.randomQuestion)
			r.Get("/random/", s.randomQuestion)
			r.Get("/{id}", s.getQuestion)
			r.Put("/{id}", s.updateQuestion)
			r.Delete("/{id}", s.deleteQuestion)
			r.Post("/{id}/evaluate", s.evaluateAnswer)
		})
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", "addr", addr, "version", Version, "model", s.provider.ModelID())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		level := slog.LevelInfo
		if ww.Status() >= 500 {
			level = slog.LevelError
		}
		s.log.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// llmContext bounds a model request and labels it for the event log.
func (s *Server) llmContext(ctx context.Context, purpose string) (context.Context, context.CancelFunc) {
	return context.WithTimeout(llm.WithPurpose(ctx, purpose), s.timeout)
}

// llmStatus maps a provider failure to an HTTP status.
func llmStatus(err error) int {
	switch llm.ErrorKind(err) {
	case llm.KindRateLimit, llm.KindUnavailable:
		return http.StatusServiceUnavailable
	case llm.KindInvalidResponse, llm.KindTruncated:
		return http.StatusBadGateway
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
