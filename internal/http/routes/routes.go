// Package routes wires the lesson API onto a chi router.
package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sspmdev/lessonproxy/internal/github"
	"github.com/sspmdev/lessonproxy/internal/lessons"
)

// Resolver is the lesson content lookup the handlers delegate to.
type Resolver interface {
	Resolve(ctx context.Context, p lessons.Path) (*github.ContentResult, error)
}

// MissingParameterError reports which path parameters a request lacked.
type MissingParameterError struct {
	Params []string
}

func (e *MissingParameterError) Error() string {
	return "missing required parameters: " + strings.Join(e.Params, ", ")
}

type Server struct {
	Router   *chi.Mux
	resolver Resolver
	log      zerolog.Logger
}

type ServerOptions struct {
	Resolver Resolver
	Logger   zerolog.Logger
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	s := &Server{Router: r, resolver: opts.Resolver, log: opts.Logger}

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			s.log.Error().Err(err).Msg("write health check response")
		}
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/test", s.handleTest)
		api.Route("/lessons", func(lr chi.Router) {
			lr.Get("/", s.handleLessons)
			lr.Get("/{language}", s.handleLessons)
			lr.Get("/{language}/{quarter}", s.handleLessons)
			lr.Get("/{language}/{quarter}/{lesson}", s.handleLessons)
			lr.Get("/{language}/{quarter}/{lesson}/{day}", s.handleLessons)
		})
	})

	return s
}

func (s *Server) handleTest(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte("lessons api is alive")); err != nil {
		s.log.Error().Err(err).Msg("write liveness response")
	}
}

// handleLessons serves every depth of the lesson hierarchy. Parameter
// validation happens before any cache or origin access.
func (s *Server) handleLessons(w http.ResponseWriter, req *http.Request) {
	p := lessons.Path{
		Language: chi.URLParam(req, "language"),
		Quarter:  chi.URLParam(req, "quarter"),
		Lesson:   chi.URLParam(req, "lesson"),
		Day:      chi.URLParam(req, "day"),
	}

	if missing := missingParams(req, p); len(missing) > 0 {
		err := &MissingParameterError{Params: missing}
		s.writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.resolver.Resolve(req.Context(), p)
	if err != nil {
		s.log.Error().Err(err).Str("path", p.Canonical()).Msg("resolve failed")
		s.writeMessage(w, http.StatusInternalServerError, fmt.Sprintf("Error fetching data: %v", err))
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// missingParams names the route parameters the matched pattern declared
// but the request left blank. A bare /api/lessons request reports the
// language as missing.
func missingParams(req *http.Request, p lessons.Path) []string {
	rctx := chi.RouteContext(req.Context())
	declared := rctx.URLParams.Keys
	if len(declared) == 0 {
		return []string{"language"}
	}

	values := map[string]string{
		"language": p.Language,
		"quarter":  p.Quarter,
		"lesson":   p.Lesson,
		"day":      p.Day,
	}

	var missing []string
	for _, name := range []string{"language", "quarter", "lesson", "day"} {
		if !contains(declared, name) {
			continue
		}
		if values[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"message": message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error().Err(err).Msg("encode response body")
	}
}
