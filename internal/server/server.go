// Package server exposes the webhook, cron, health and metrics endpoints.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"gtaskbot/internal/config"
	"gtaskbot/internal/digest"
	"gtaskbot/internal/logging"
)

const (
	// WebhookPath receives Telegram updates.
	WebhookPath = "/api/webhook"
	// CronPath triggers the daily digest.
	CronPath = "/api/cron"

	secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"
)

// UpdateHandler processes one Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *models.Update) error
}

// DigestRunner sends one digest.
type DigestRunner interface {
	Run(ctx context.Context) error
}

// Server is the HTTP front door. Each request is one unit of work.
type Server struct {
	cfg     *config.Config
	updates UpdateHandler
	digest  DigestRunner
	log     *zerolog.Logger
	server  *http.Server
}

// New creates a server. It does not start listening.
func New(cfg *config.Config, updates UpdateHandler, digester DigestRunner, logger *zerolog.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	compLog := logger.With().Str("component", "http").Logger()
	s := &Server{cfg: cfg, updates: updates, digest: digester, log: &compLog}
	s.server = &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	return s
}

// Router builds the chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)

	r.Post(WebhookPath, s.handleWebhook)
	r.Get(CronPath, s.handleCron)
	r.Post(CronPath, s.handleCron)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// ListenAndServe blocks until the server stops.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	log := logging.With(r.Context(), s.log)

	if secret := s.cfg.Telegram.WebhookSecret; secret != "" && !equal(r.Header.Get(secretTokenHeader), secret) {
		log.Warn().Msg("webhook call with wrong secret token")
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var update models.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Warn().Err(err).Msg("malformed update")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid update"})
		return
	}

	// Telegram retries non-2xx responses, so delivery failures are only logged.
	if err := s.updates.HandleUpdate(r.Context(), &update); err != nil {
		log.Error().Err(err).Int64("update_id", update.ID).Msg("update handling failed")
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCron(w http.ResponseWriter, r *http.Request) {
	log := logging.With(r.Context(), s.log)

	if secret := s.cfg.Digest.CronSecret; secret != "" {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || !equal(token, secret) {
			log.Warn().Msg("cron call with wrong secret")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
	}

	if err := s.digest.Run(r.Context()); err != nil {
		msg := err.Error()
		if errors.Is(err, digest.ErrNoTarget) {
			msg = "Target Chat ID not set"
		}
		log.Error().Err(err).Msg("digest failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// requestID tags the request context and response with an id.
// An incoming X-Request-Id is kept.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)

		ctx := logging.WithRequestID(r.Context(), id)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		logging.With(ctx, s.log).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Msg("request")
	})
}

func equal(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
