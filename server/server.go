// Package server exposes the dialogue engine over HTTP: the chat endpoint,
// the analytics read side and the operational endpoints (health, metrics).
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	contractx "bankbot/bot/contract"
	enginex "bankbot/bot/engine"
	"bankbot/interaction"
	logx "bankbot/pkg/logger"
)

const maxRequestSizeBytes = 1 << 20

// Deferred turns answered by the responder carry the provenance banner so
// generated text is never mistaken for a banking answer.
const fallbackBanner = "🌐 **General Information (LLM Generated)**\n\n_Source: Web / LLM knowledge_\n\n"

const outOfScopeApology = "Sorry, I can only help with banking topics like balances, transfers and cards."

// ChatEngine is the engine surface the server drives. *engine.Engine
// satisfies it.
type ChatEngine interface {
	HandleMessage(ctx context.Context, sessionID string, text string) (contractx.Reply, error)
}

var _ ChatEngine = (*enginex.Engine)(nil)

type Config struct {
	Addr            string        `split_words:"true" default:":8080"`
	ReadTimeout     time.Duration `split_words:"true" default:"10s"`
	WriteTimeout    time.Duration `split_words:"true" default:"30s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"5s"`
}

type Server struct {
	cfg       Config
	engine    ChatEngine
	analytics interaction.Analytics
	responder contractx.FallbackResponder

	log zerolog.Logger
}

type Option func(*Server)

// WithFallbackResponder wires the generator that answers deferred turns.
// Without one the server falls back to a fixed apology.
func WithFallbackResponder(r contractx.FallbackResponder) Option {
	return func(s *Server) { s.responder = r }
}

func New(cfg Config, engine ChatEngine, analytics interaction.Analytics, opts ...Option) (*Server, error) {
	if engine == nil {
		return nil, errors.New("chat engine is required")
	}
	if analytics == nil {
		return nil, errors.New("analytics backend is required")
	}

	s := &Server{
		cfg:       cfg,
		engine:    engine,
		analytics: analytics,
		log:       logx.With("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler builds the route tree. Exposed separately from Run so tests can
// drive it without a listener.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", s.handleSummary)
			r.Get("/intents", s.handleIntents)
			r.Get("/recent", s.handleRecent)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownTimeout := s.cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.log.Info().Msg("http server stopped")
	return nil
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Reply     string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestSizeBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	start := time.Now()
	reply, err := s.engine.HandleMessage(r.Context(), sessionID, req.Text)
	if err != nil {
		turnFailuresTotal.Inc()
		status := statusForTurnError(err)
		s.log.Error().Err(err).Str("session_id", sessionID).Int("status", status).Msg("turn failed")
		if status == http.StatusBadRequest {
			s.writeError(w, status, err.Error())
		} else {
			s.writeError(w, status, "turn failed")
		}
		return
	}
	observeTurn(reply.Kind, time.Since(start))

	resp := chatResponse{
		SessionID: sessionID,
		Kind:      string(reply.Kind),
		Reply:     reply.Text,
	}
	if reply.Kind == contractx.ReplyDefer {
		resp.Reply = AnswerDeferred(r.Context(), s.responder, req.Text)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// AnswerDeferred turns a deferred reply into user-facing text: the
// responder's generated answer under the provenance banner when one is
// configured, the fixed apology otherwise. Responder failures degrade to
// the apology as well.
func AnswerDeferred(ctx context.Context, responder contractx.FallbackResponder, query string) string {
	if responder == nil {
		return outOfScopeApology
	}

	answer, err := responder.Generate(ctx, query)
	if err != nil {
		logx.With("server").Warn().Err(err).Msg("fallback responder failed")
		return outOfScopeApology
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return outOfScopeApology
	}

	fallbackAnswersTotal.Inc()
	return fallbackBanner + answer
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.analytics.Summary(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("analytics summary failed")
		s.writeError(w, http.StatusInternalServerError, "analytics unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleIntents(w http.ResponseWriter, r *http.Request) {
	stats, err := s.analytics.IntentBreakdown(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("intent breakdown failed")
		s.writeError(w, http.StatusInternalServerError, "analytics unavailable")
		return
	}
	if stats == nil {
		stats = []interaction.IntentStat{}
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	recent, err := s.analytics.Recent(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("recent interactions failed")
		s.writeError(w, http.StatusInternalServerError, "analytics unavailable")
		return
	}
	if recent == nil {
		recent = []contractx.Interaction{}
	}
	s.writeJSON(w, http.StatusOK, recent)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusForTurnError maps engine failures onto HTTP classes: caller
// mistakes are 400, collaborator outages 502, anything else 500.
func statusForTurnError(err error) int {
	switch {
	case errors.Is(err, enginex.ErrInvalidMessage), errors.Is(err, enginex.ErrInvalidSession):
		return http.StatusBadRequest
	case errors.Is(err, contractx.ErrClassifier), errors.Is(err, contractx.ErrGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn().Err(err).Msg("encode response failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
