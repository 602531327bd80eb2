package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/RavenCaffeine/SeekJob-Helper/internal/api"
	"github.com/RavenCaffeine/SeekJob-Helper/internal/render"
)

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, api.Health{
		Message: "SeekJob Helper API is running",
		Version: Version,
		Docs:    "/docs",
	})
}

const apiReference = "# SeekJob Helper API\n\n" +
	"All endpoints take and return JSON. Errors carry a `detail` field; validation errors list each failing field.\n\n" +
	"| Method | Path | Purpose |\n" +
	"| --- | --- | --- |\n" +
	"| GET | `/` | Health check |\n" +
	"| POST | `/api/resume/optimize` | Rewrite a resume |\n" +
	"| POST | `/api/interview/chat` | Next interview turn |\n" +
	"| GET | `/api/questions/` | List questions (`skip`, `limit`, `tags`, `difficulty`) |\n" +
	"| POST | `/api/questions/` | Create a question |\n" +
	"| GET | `/api/questions/random/` | Random question (`tags`, `difficulty`) |\n" +
	"| GET | `/api/questions/{id}` | Get a question |\n" +
	"| PUT | `/api/questions/{id}` | Update a question |\n" +
	"| DELETE | `/api/questions/{id}` | Delete a question |\n" +
	"| POST | `/api/questions/{id}/evaluate` | Grade an answer |\n\n" +
	"## Interview chat\n\n" +
	"```json\n" +
	"{\n" +
	"  \"message\": \"I have five years of Go experience.\",\n" +
	"  \"interview_topic\": \"Backend Engineer\",\n" +
	"  \"conversation_history\": [{\"user\": \"\", \"ai\": \"Hello!\", \"timestamp\": 1700000000}]\n" +
	"}\n" +
	"```\n\n" +
	"The response echoes the history with the new exchange appended. `is_complete` turns true once the history holds %d exchanges.\n\n" +
	"## Resume optimization\n\n" +
	"`resume_text` needs at least %d characters. `position` is optional. Scores range from $0$ to $10$.\n\n" +
	"## Questions\n\n" +
	"Difficulty is stored as given; clients send `简单`, `中等` or `困难`. Tags are a comma-separated string and every requested tag must match.\n"

// docs serves the API reference rendered to HTML.
func (s *Server) docs(w http.ResponseWriter, r *http.Request) {
	s.docsOnce.Do(func() {
		md := fmt.Sprintf(apiReference, s.maxTurns, api.MinResumeLength)
		css, err := render.StyleSheet(render.ThemeLight)
		if err != nil {
			s.log.Warn("highlight stylesheet", "err", err)
		}
		var b strings.Builder
		b.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>SeekJob Helper API</title>\n<style>")
		b.WriteString("body{font-family:sans-serif;max-width:52rem;margin:2rem auto;padding:0 1rem}")
		b.WriteString("table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.3rem .6rem}")
		b.WriteString(css)
		b.WriteString("</style></head><body>\n")
		b.WriteString(render.HTML(render.Render(md, render.ThemeLight)))
		b.WriteString("\n</body></html>\n")
		s.docsPage = b.String()
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, s.docsPage)
}
