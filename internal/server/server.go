// Package server exposes syllabus browsing, content generation, quiz
// sessions and history over HTTP and WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/abhisek/scholar/internal/config"
	"github.com/abhisek/scholar/internal/content"
	"github.com/abhisek/scholar/internal/export"
	"github.com/abhisek/scholar/internal/history"
	"github.com/abhisek/scholar/internal/quiz"
	"github.com/abhisek/scholar/internal/syllabus"
)

// Generator produces study content. *content.Service implements it.
type Generator interface {
	GenerateNotes(ctx context.Context, topic string) (*content.NoteModule, error)
	GenerateQuiz(ctx context.Context, topic string, count int) ([]quiz.Question, error)
	GenerateRemedialPlan(ctx context.Context, result history.Result) (*content.RemedialPlan, error)
}

// Deps are the collaborators of a Server.
type Deps struct {
	Content  Generator
	History  *history.Store
	Syllabus *syllabus.Syllabus
	Registry *Registry
	Logger   *slog.Logger

	// Health reports backend health for /healthz. Nil means always healthy.
	Health func(ctx context.Context) error

	// TokenHash is a bcrypt hash of the bearer token. Empty disables auth.
	TokenHash string

	// QuizCount replaces a missing or non-positive count.
	QuizCount int
}

// Server routes API requests.
type Server struct {
	deps   Deps
	router *mux.Router
	log    *slog.Logger
}

// New creates a Server with its routes registered.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	if deps.Syllabus == nil {
		deps.Syllabus = syllabus.Default()
	}
	if deps.Registry == nil {
		deps.Registry = NewRegistry(0)
	}
	if deps.QuizCount <= 0 {
		deps.QuizCount = content.DefaultQuizCount
	}

	s := &Server{deps: deps, router: mux.NewRouter(), log: deps.Logger}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.requestLogger)
	if s.deps.TokenHash != "" {
		api.Use(bearerAuth(s.deps.TokenHash))
	}

	api.HandleFunc("/syllabus", s.handleSyllabus).Methods(http.MethodGet)
	api.HandleFunc("/notes", s.handleNotes).Methods(http.MethodPost)

	api.HandleFunc("/quiz", s.handleCreateQuiz).Methods(http.MethodPost)
	api.HandleFunc("/quiz/{id}", s.handleGetQuiz).Methods(http.MethodGet)
	api.HandleFunc("/quiz/{id}/select", s.handleSelect).Methods(http.MethodPost)
	api.HandleFunc("/quiz/{id}/advance", s.handleAdvance).Methods(http.MethodPost)
	api.HandleFunc("/ws/quiz", s.handleQuizSocket).Methods(http.MethodGet)

	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/history/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/history/export", s.handleExport).Methods(http.MethodGet)
	api.HandleFunc("/history/remedial", s.handleRemedial).Methods(http.MethodPost)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on cfg.Addr until ctx is done, then shuts down gracefully.
// The session sweep runs for the lifetime of the server.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.deps.Registry.Sweep(sweepCtx, time.Minute)

	errc := make(chan error, 1)
	go func() {
		s.log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		if err := s.deps.Health(r.Context()); err != nil {
			s.log.Warn("health check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSyllabus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, http.StatusOK, s.deps.Syllabus.Filter(q.Get("subject"), q.Get("q")))
}

type topicRequest struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	notes, err := s.deps.Content.GenerateNotes(r.Context(), req.Topic)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// startSession generates questions for topic and registers a loaded
// session. On failure the session is left Failed and unregistered.
func (s *Server) startSession(ctx context.Context, sess *quiz.Session, count int) error {
	if count <= 0 {
		count = s.deps.QuizCount
	}
	questions, err := s.deps.Content.GenerateQuiz(ctx, sess.Topic(), count)
	if err != nil {
		sess.Fail(err)
		return err
	}
	if err := sess.Load(questions); err != nil {
		return err
	}
	s.deps.Registry.Put(sess)
	return nil
}

func (s *Server) newSession(topic string) *quiz.Session {
	return quiz.NewSession(topic, quiz.WithOnFinish(s.record))
}

// record appends a finished result to history. It is the session's
// single-fire finish hook.
func (s *Server) record(res history.Result) {
	if s.deps.History == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.deps.History.Append(ctx, res); err != nil {
		s.log.Error("recording quiz result", "session", res.ID, "error", err)
		return
	}
	s.log.Info("quiz recorded", "session", res.ID, "topic", res.Topic, "score", res.Score, "total", res.Total)
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	sess := s.newSession(strings.TrimSpace(req.Topic))
	if err := s.startSession(r.Context(), sess, req.Count); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, snapshot(sess))
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*quiz.Session, bool) {
	sess, ok := s.deps.Registry.Get(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "invalid or expired session id")
	}
	return sess, ok
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snapshot(sess))
}

type selectRequest struct {
	Option *int `json:"option"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Option == nil {
		writeError(w, http.StatusBadRequest, "option is required")
		return
	}
	if err := sess.Select(*req.Option); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshot(sess))
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if _, err := sess.Advance(); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshot(sess))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, quiz.ErrOptionOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, quiz.ErrNotPresenting), errors.Is(err, quiz.ErrNoAnswer):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) loadHistory(w http.ResponseWriter, r *http.Request) ([]history.Result, bool) {
	if s.deps.History == nil {
		return []history.Result{}, true
	}
	results, err := s.deps.History.LoadAll(r.Context())
	if err != nil {
		s.log.Error("loading history", "error", err)
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return nil, false
	}
	return results, true
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	results, ok := s.loadHistory(w, r)
	if !ok {
		return
	}
	entries := make([]HistoryEntry, 0, len(results))
	for _, res := range history.MostRecentFirst(results) {
		entries = append(entries, HistoryEntry{Result: res, Percent: history.Percent(res)})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	results, ok := s.loadHistory(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, history.Stats(results))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	results, ok := s.loadHistory(w, r)
	if !ok {
		return
	}
	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="scholar-history.json"`)
		if err := export.WriteJSON(w, results, time.Now()); err != nil {
			s.log.Error("exporting history", "format", "json", "error", err)
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="scholar-history.xlsx"`)
		if err := export.WriteXLSX(w, results, time.Local); err != nil {
			s.log.Error("exporting history", "format", "xlsx", "error", err)
		}
	default:
		writeError(w, http.StatusBadRequest, "format must be json or xlsx")
	}
}

func (s *Server) handleRemedial(w http.ResponseWriter, r *http.Request) {
	results, ok := s.loadHistory(w, r)
	if !ok {
		return
	}
	latest, ok := history.Latest(results)
	if !ok {
		writeError(w, http.StatusConflict, "no quiz results yet")
		return
	}
	plan, err := s.deps.Content.GenerateRemedialPlan(r.Context(), latest)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
