package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds request bodies. Resumes are the largest payload.
const maxBodyBytes = 1 << 20

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}

// Error writes a {"detail": message} error body.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"detail": message})
}

// fieldError is one entry of a 422 validation response.
type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// validationErrors collects field errors for one request.
type validationErrors []fieldError

func (v *validationErrors) add(where, field, msg string) {
	*v = append(*v, fieldError{Loc: []string{where, field}, Msg: msg, Type: "value_error"})
}

// write sends the collected errors as a 422 and reports whether there
// were any.
func (v validationErrors) write(w http.ResponseWriter) bool {
	if len(v) == 0 {
		return false
	}
	JSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": []fieldError(v)})
	return true
}

// decodeBody reads a JSON request body into dst. On failure it writes a
// 422 and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		msg := "invalid JSON body"
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			msg = "request body is required"
		case errors.As(err, &tooLarge):
			msg = fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)
		}
		var v validationErrors
		v.add("body", "", msg)
		v.write(w)
		return false
	}
	return true
}

// pathID parses the {id} URL parameter. On failure it writes a 422.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		var v validationErrors
		v.add("path", "id", "value is not a valid integer")
		v.write(w)
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter with a default.
func queryInt(r *http.Request, name string, def int, v *validationErrors) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v.add("query", name, "value is not a valid integer")
		return def
	}
	return n
}
