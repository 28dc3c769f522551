// Package server implements the stateless price-estimation function: it
// turns a query into a prompt, asks a completion provider, and answers with
// store/price records.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Completer is the single-prompt completion surface the handler needs. Both
// the Gemini and the Anthropic clients satisfy it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Server is the price-estimation HTTP function.
type Server struct {
	completer Completer
}

// New creates a Server backed by the given completion provider.
func New(completer Completer) *Server {
	return &Server{completer: completer}
}

// Router builds the HTTP routes. Preflight requests are answered
// unconditionally with permissive CORS headers.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/functions/v1/compare", s.handleCompare)

	return r
}
