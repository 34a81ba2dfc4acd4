package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hamed0406/pingme/internal/domain"
	apimw "github.com/hamed0406/pingme/internal/httpapi/middleware"
	"github.com/hamed0406/pingme/internal/repo"
)

type Server struct {
	Logger   *zap.Logger
	Targets  repo.Registry
	Statuses repo.StatusStore
	Metrics  http.Handler // may be nil

	Interval     time.Duration // shown to operators
	SlowResponse time.Duration

	validate *validator.Validate
	now      func() time.Time
}

func NewServer(l *zap.Logger, ts repo.Registry, ss repo.StatusStore, metrics http.Handler) *Server {
	return &Server{
		Logger:       l,
		Targets:      ts,
		Statuses:     ss,
		Metrics:      metrics,
		Interval:     time.Minute,
		SlowResponse: 300 * time.Millisecond,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		now:          time.Now,
	}
}

func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, publicRPM, publicBurst, adminRPM, adminBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(apimw.RequestLog(s.Logger))
	if len(allowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics)
	}

	// read routes
	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(publicRPM, publicBurst))
		r.Use(apimw.RequireAny(keys))
		r.Get("/api/summary", s.handleSummary)
		r.Get("/api/status/micro", s.handleMicro)
		r.Get("/api/targets", s.handleListTargets)
		r.Get("/list", s.handleListPage)
	})

	// write routes
	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(adminRPM, adminBurst))
		r.Use(apimw.RequireAdmin(keys))
		r.Post("/api/targets", s.handleAddTarget)
		r.Delete("/api/targets/{name}", s.handleDeleteTarget)
	})

	return r
}

type addPayload struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url" validate:"required,http_url"`
}

func (s *Server) handleAddTarget(w http.ResponseWriter, r *http.Request) {
	var p addPayload
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			writeError(w, http.StatusBadRequest, "bad payload")
			return
		}
	} else {
		// plain HTML form posts
		p.Name, p.URL = r.FormValue("name"), r.FormValue("url")
	}
	p.Name, p.URL = strings.TrimSpace(p.Name), strings.TrimSpace(p.URL)

	if err := s.validate.Struct(p); err != nil {
		writeError(w, http.StatusBadRequest, "One or more required parameters are missing or invalid.")
		return
	}

	t := domain.Target{Name: p.Name, URL: p.URL}
	if err := s.Targets.Add(r.Context(), t); err != nil {
		if errors.Is(err, repo.ErrInvalidTarget) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.Logger.Warn("add_target_error", zap.String("target", t.Name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not add")
		return
	}

	s.Logger.Info("added_target", zap.String("target", t.Name), zap.String("url", t.URL))
	writeJSON(w, http.StatusCreated, map[string]any{
		"target":  t,
		"message": `Website "` + t.Name + `" added.`,
	})
}

func (s *Server) handleDeleteTarget(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(chi.URLParam(r, "name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "One or more required parameters are missing.")
		return
	}

	if err := s.Targets.Remove(r.Context(), name); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		s.Logger.Warn("remove_target_error", zap.String("target", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not remove")
		return
	}
	// a cycle already in flight may still write this row back
	if err := s.Statuses.Delete(r.Context(), name); err != nil {
		s.Logger.Warn("remove_status_error", zap.String("target", name), zap.Error(err))
	}

	s.Logger.Info("removed_target", zap.String("target", name))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTargets(w http.ResponseWriter, r *http.Request) {
	rows, err := s.rows(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.Statuses.GetAll(r.Context())
	if err != nil {
		s.Logger.Warn("summary_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "status error")
		return
	}
	online, offline := countStatuses(statuses)
	writeJSON(w, http.StatusOK, map[string]int{"online": online, "offline": offline})
}

// handleMicro backs a tiny status widget meant to be polled.
func (s *Server) handleMicro(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.Statuses.GetAll(r.Context())
	if err != nil {
		s.Logger.Warn("micro_status_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "status error")
		return
	}
	_, offline := countStatuses(statuses)
	writeJSON(w, http.StatusOK, map[string]any{
		"offline":     offline,
		"interval_ms": s.Interval.Milliseconds(),
		"time":        s.now().Format("15:04"),
	})
}

func (s *Server) rows(r *http.Request) ([]statusRow, error) {
	targets, err := s.Targets.List(r.Context())
	if err != nil {
		s.Logger.Warn("list_targets_error", zap.Error(err))
		return nil, err
	}
	statuses, err := s.Statuses.GetAll(r.Context())
	if err != nil {
		s.Logger.Warn("list_statuses_error", zap.Error(err))
		return nil, err
	}
	return buildRows(targets, statuses, s.SlowResponse, s.Logger), nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
