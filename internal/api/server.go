package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"

	"vidtycoon/internal/account"
	"vidtycoon/internal/config"
)

const maxBodyBytes = 1 << 20

type Server struct {
	cfg      config.APIConfig
	log      *slog.Logger
	accounts *account.Service
	cache    responseCache
	metrics  Metrics
	mux      *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, accounts *account.Service) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		log:      logger,
		accounts: accounts,
		cache:    newResponseCache(cfg.LeaderboardCacheMB, cfg.LeaderboardCacheTTL),
		metrics:  NewMetrics(cfg.MetricsEnabled),
		mux:      chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metricsMiddleware(s.metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	if s.cfg.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/score/update", s.handleScoreUpdate)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.accounts.Register(r.Context(), in.Username, in.Password)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.cache.Del(leaderboardCacheKey)
	s.metrics.IncAccountEvent("register")
	writeJSON(w, http.StatusOK, a.Profile())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := s.accounts.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.metrics.IncAccountEvent("login")
	writeJSON(w, http.StatusOK, a.Profile())
}

func (s *Server) handleScoreUpdate(w http.ResponseWriter, r *http.Request) {
	var in struct {
		UserID      string   `json:"userId"`
		Subscribers *float64 `json:"subscribers"`
		Views       *float64 `json:"views"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(in.UserID) == "" || in.Subscribers == nil || in.Views == nil {
		writeError(w, http.StatusBadRequest, "userId, subscribers and views are required")
		return
	}
	if _, err := s.accounts.UpdateScore(r.Context(), in.UserID, *in.Subscribers, *in.Views); err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.cache.Del(leaderboardCacheKey)
	s.metrics.IncAccountEvent("score_update")
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if body, ok := s.cache.Get(leaderboardCacheKey); ok {
		s.metrics.IncCacheHits()
		writeRaw(w, http.StatusOK, body)
		return
	}
	s.metrics.IncCacheMisses()

	entries, err := s.accounts.Leaderboard(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []account.Entry{}
	}
	body, err := json.Marshal(entries)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.cache.Set(leaderboardCacheKey, body)
	writeRaw(w, http.StatusOK, body)
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrUsernameTaken), errors.Is(err, account.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, account.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
