// Package server exposes the activation engine over a small JSON HTTP API.
// Every request captures a single snapshot reference at entry, so reloads
// that land mid-request never affect its results.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/skillet-sh/skillet/pkg/engine"
	"github.com/skillet-sh/skillet/pkg/logger"
	"github.com/skillet-sh/skillet/pkg/skill"
	"github.com/skillet-sh/skillet/pkg/watcher"
)

// Config holds the server listen configuration.
type Config struct {
	Host string
	Port int
}

// Validate checks the listen configuration.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

// Server serves the engine API.
type Server struct {
	router *mux.Router
	engine *engine.Engine
	reload watcher.ReloadFunc
	config *Config
	server *http.Server
}

// New creates a server around an engine. reload may be nil, which disables
// the reload endpoint.
func New(eng *engine.Engine, reload watcher.ReloadFunc, config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid server configuration")
	}
	s := &Server{
		router: mux.NewRouter(),
		engine: eng,
		reload: reload,
		config: config,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/teams", s.handleListTeams).Methods("GET")
	api.HandleFunc("/teams/{team}/skills", s.handleListSkills).Methods("GET")
	api.HandleFunc("/teams/{team}/skills/{id}", s.handleGetSkill).Methods("GET")
	api.HandleFunc("/teams/{team}/match", s.handleMatch).Methods("POST")
	api.HandleFunc("/teams/{team}/activate", s.handleActivate).Methods("POST")
	api.HandleFunc("/reload", s.handleReload).Methods("POST")

	s.router.Use(s.loggingMiddleware)
}

// Start begins serving. It blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	logger.G(ctx).WithField("addr", addr).Info("skill engine API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "server failed")
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTeams(w http.ResponseWriter, _ *http.Request) {
	snap := s.engine.Current()
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": snap.Teams()})
}

type skillSummary struct {
	ID          string   `json:"id"`
	Version     string   `json:"version"`
	DisplayName string   `json:"displayName,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Requires    []string `json:"requires,omitempty"`
	Subagents   []string `json:"subagents,omitempty"`
	Tools       []string `json:"tools,omitempty"`
	Triggers    []string `json:"triggers,omitempty"`
	BodyDigest  string   `json:"bodyDigest"`
}

func summarize(sk *skill.Skill) skillSummary {
	return skillSummary{
		ID:          sk.ID,
		Version:     sk.Version,
		DisplayName: sk.DisplayName,
		Description: sk.Description,
		Tags:        sk.Tags,
		Requires:    sk.Requires,
		Subagents:   sk.Subagents,
		Tools:       sk.Tools,
		Triggers:    sk.TriggerPatterns(),
		BodyDigest:  sk.BodyDigest,
	}
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	team := mux.Vars(r)["team"]
	snap := s.engine.Current()
	skills := snap.Skills(team)
	summaries := make([]skillSummary, 0, len(skills))
	for _, sk := range skills {
		summaries = append(summaries, summarize(sk))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"team": team, "skills": summaries})
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	snap := s.engine.Current()
	sk, ok := snap.Lookup(vars["team"], vars["id"])
	if !ok {
		writeError(w, http.StatusNotFound, errors.Errorf("skill %s/%s not found", vars["team"], vars["id"]))
		return
	}
	out := struct {
		skillSummary
		Body string `json:"body"`
	}{summarize(sk), sk.Body}
	writeJSON(w, http.StatusOK, out)
}

type matchRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	team := mux.Vars(r)["team"]
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "decoding request body"))
		return
	}
	snap := s.engine.Current()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"team":    team,
		"matches": s.engine.Match(snap, team, req.Text),
	})
}

type activateRequest struct {
	Text   string   `json:"text"`
	Skills []string `json:"skills"`
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	team := mux.Vars(r)["team"]
	var req activateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "decoding request body"))
		return
	}
	activation, err := s.engine.Activate(team, req.Text, req.Skills...)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	ids := make([]string, len(activation.Skills))
	for i, sk := range activation.Skills {
		ids[i] = sk.ID
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"team":      team,
		"skills":    ids,
		"matches":   activation.Matches,
		"tools":     activation.Grant.Tools,
		"subagents": activation.Grant.Subagents,
		"context":   activation.Context,
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if s.reload == nil {
		writeError(w, http.StatusNotImplemented, errors.New("reload is not configured"))
		return
	}
	if err := s.reload(r.Context()); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	snap := s.engine.Current()
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "reloaded", "skills": snap.Len()})
}

// statusFor maps engine error kinds onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case skill.IsKind(err, skill.MissingDependency):
		return http.StatusNotFound
	case skill.IsKind(err, skill.UnauthorizedTool):
		return http.StatusForbidden
	case skill.IsKind(err, skill.ContextOverflow):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusUnprocessableEntity
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)
		ctx := logger.WithLogger(r.Context(), logger.G(r.Context()).WithField("request_id", requestID))
		next.ServeHTTP(w, r.WithContext(ctx))
		logger.G(ctx).WithFields(map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Debug("request handled")
	})
}
