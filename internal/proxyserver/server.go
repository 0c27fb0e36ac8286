// Package proxyserver serves the two endpoints the client talks to,
// /ai-proxy and /news-proxy, so provider keys stay on the server.
package proxyserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsvox/internal/ai"
)

const maxPromptBytes = 64 << 10

// NewsSource is the upstream behind /news-proxy.
type NewsSource interface {
	Fetch(ctx context.Context, category, query, lang string) ([]Article, error)
}

type Options struct {
	AI       ai.Generator
	Provider string
	News     NewsSource
	Log      *slog.Logger
	Registry *prometheus.Registry
	Timeout  time.Duration
}

type Server struct {
	ai       ai.Generator
	provider string
	news     NewsSource
	log      *slog.Logger
	reg      *prometheus.Registry
	metrics  *metrics
	timeout  time.Duration
}

func New(opt Options) *Server {
	if opt.Log == nil {
		opt.Log = slog.Default()
	}
	if opt.Registry == nil {
		opt.Registry = prometheus.NewRegistry()
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 60 * time.Second
	}
	return &Server{
		ai:       opt.AI,
		provider: opt.Provider,
		news:     opt.News,
		log:      opt.Log,
		reg:      opt.Registry,
		metrics:  newMetrics(opt.Registry),
		timeout:  opt.Timeout,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /ai-proxy", s.instrument("ai-proxy", s.handleAI))
	mux.Handle("GET /news-proxy", s.instrument("news-proxy", s.handleNews))
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

type aiRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleAI(w http.ResponseWriter, r *http.Request) {
	log := requestLog(r.Context(), s.log)

	var req aiRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPromptBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if s.ai == nil {
		writeError(w, http.StatusInternalServerError, "AI provider not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	text, err := s.ai.GenerateText(ctx, req.Prompt)
	if err != nil {
		s.metrics.upstream.WithLabelValues(s.provider).Inc()
		log.Error("ai upstream failed", "provider", s.provider, "err", err)
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		writeError(w, status, "Failed to fetch AI response")
		return
	}

	log.Debug("ai response", "provider", s.provider, "chars", len(text))
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	log := requestLog(r.Context(), s.log)

	q := r.URL.Query()
	category := strings.TrimSpace(q.Get("category"))
	query := strings.TrimSpace(q.Get("query"))
	lang := strings.TrimSpace(q.Get("lang"))
	if lang == "" {
		lang = "en"
	}
	if s.news == nil {
		writeError(w, http.StatusInternalServerError, "news provider not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	articles, err := s.news.Fetch(ctx, category, query, lang)
	if err != nil {
		s.metrics.upstream.WithLabelValues("gnews").Inc()
		log.Error("news upstream failed", "category", category, "err", err)
		status := http.StatusBadGateway
		if errors.Is(err, ErrNoNewsKey) {
			status = http.StatusInternalServerError
		}
		writeError(w, status, "Failed to fetch news")
		return
	}

	if articles == nil {
		articles = []Article{}
	}
	log.Debug("news response", "category", category, "query", query, "count", len(articles))
	writeJSON(w, http.StatusOK, map[string]any{"articles": articles})
}

type requestIDKey struct{}

func requestLog(ctx context.Context, log *slog.Logger) *slog.Logger {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return log.With("request_id", id)
	}
	return log
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		h(sw, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))

		s.metrics.requests.WithLabelValues(endpoint, strconv.Itoa(sw.status)).Inc()
		s.metrics.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
