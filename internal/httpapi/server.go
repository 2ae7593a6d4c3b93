package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
	"github.com/hamed0406/sitecheck/internal/httpapi/middleware"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/repo"
)

type Server struct {
	Logger  *zap.Logger
	Targets repo.TargetStore
	Results repo.ResultStore
	Checker probe.Checker
	Keys    middleware.Keys
	Origins []string
}

func NewServer(l *zap.Logger, ts repo.TargetStore, rs repo.ResultStore, c probe.Checker) *Server {
	return &Server{Logger: l, Targets: ts, Results: rs, Checker: c}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	if len(s.Origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.Origins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "X-API-Key", "Content-Type"},
		}))
	} else {
		r.Use(cors.AllowAll().Handler)
	}
	r.Use(middleware.RateLimit(240, 60))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAny(s.Keys))
		r.Get("/api/targets", s.handleListTargets)
		r.Get("/api/results/latest", s.handleLatestResults)
		r.Post("/api/checks", s.handleAdHocCheck)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin(s.Keys))
		r.Post("/api/targets", s.handleAddTarget)
	})

	return r
}

type addPayload struct {
	URL             string `json:"url"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	IntervalSeconds int    `json:"interval_seconds"`
}

// validTargetURL requires an absolute http/https URL, the only input
// shape the engine accepts.
func validTargetURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *Server) handleAddTarget(w http.ResponseWriter, r *http.Request) {
	var p addPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || !validTargetURL(p.URL) {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	if existing, err := s.Targets.GetByURL(r.Context(), p.URL); err == nil && existing != nil {
		http.Error(w, "target already exists", http.StatusConflict)
		return
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		http.Error(w, "lookup error", http.StatusInternalServerError)
		return
	}

	t := &domain.Target{
		URL:             p.URL,
		Name:            p.Name,
		Category:        p.Category,
		IntervalSeconds: p.IntervalSeconds,
		IsActive:        true,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Targets.Add(r.Context(), t); err != nil {
		http.Error(w, "could not add", http.StatusInternalServerError)
		return
	}

	// One synchronous check for immediate feedback.
	out := s.Checker.Check(r.Context(), t.URL)
	cr := &domain.CheckResult{
		TargetID:   t.ID,
		Up:         out.Up(),
		HTTPStatus: out.Status,
		LatencyMS:  out.LatencyMS,
		Result:     out.Result,
		Details:    out.Details,
		CheckedAt:  time.Now().UTC(),
	}
	_ = s.Results.Append(r.Context(), cr)

	s.Logger.Info("target_added",
		zap.Int64("target_id", t.ID),
		zap.String("url", t.URL),
		zap.Int("status", out.Status),
		zap.String("result", out.Result),
		zap.Int64("latency_ms", out.LatencyMS),
	)

	writeJSON(w, http.StatusCreated, map[string]any{"target": t, "result": cr})
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	ts, err := s.Targets.List(r.Context())
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

func (s *Server) handleLatestResults(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Results.Latest(r.Context())
	if err != nil {
		http.Error(w, "latest error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type checkPayload struct {
	URL string `json:"url"`
}

// handleAdHocCheck runs the pipeline for a URL without storing anything.
func (s *Server) handleAdHocCheck(w http.ResponseWriter, r *http.Request) {
	var p checkPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil || !validTargetURL(p.URL) {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	out := s.Checker.Check(r.Context(), p.URL)
	s.Logger.Info("adhoc_check",
		zap.String("url", p.URL),
		zap.Int("status", out.Status),
		zap.String("result", out.Result),
	)
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
