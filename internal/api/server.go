// Package api exposes the HTTP interface for the extractor service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fundwire/extractor/internal/funding"
	"github.com/fundwire/extractor/internal/metrics"
)

// Runner executes the full extraction sequence for one URL.
type Runner interface {
	Run(ctx context.Context, url string) funding.Record
}

// Config controls server behavior.
type Config struct {
	AuthEnabled bool
	APIKey      string
	// CompletionTopic names the Pub/Sub topic for completion events.
	CompletionTopic string
	// RunTimeout bounds one detached extraction run, retries included.
	RunTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.CompletionTopic == "" {
		c.CompletionTopic = "funding-complete"
	}
	if c.RunTimeout <= 0 {
		c.RunTimeout = 5 * time.Minute
	}
	return c
}

// Server wires HTTP handlers to the extraction pipeline and stores.
type Server struct {
	router    chi.Router
	runner    Runner
	sink      funding.RowSink
	publisher funding.Publisher
	idGen     funding.IDGenerator
	clock     funding.Clock
	cfg       Config
	logger    *zap.Logger
}

// NewServer constructs a Server with middleware and routes. The publisher
// may be nil when completion events are disabled.
func NewServer(
	runner Runner,
	sink funding.RowSink,
	publisher funding.Publisher,
	idGen funding.IDGenerator,
	clock funding.Clock,
	cfg Config,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		runner:    runner,
		sink:      sink,
		publisher: publisher,
		idGen:     idGen,
		clock:     clock,
		cfg:       cfg.withDefaults(),
		logger:    logger,
	}
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	if s.cfg.AuthEnabled {
		r.Use(apiKeyMiddleware(s.cfg.APIKey))
	}

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/extractions", s.submitExtraction)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(s.logger, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(s.logger, w, http.StatusOK, map[string]string{"status": "ready"})
}

type extractionRequest struct {
	URL string `json:"url"`
}

func (s *Server) submitExtraction(w http.ResponseWriter, r *http.Request) {
	var req extractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := validateURL(req.URL); err != nil {
		writeError(s.logger, w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.idGen.NewID()
	if err != nil {
		writeError(s.logger, w, http.StatusInternalServerError, "generate submission id")
		return
	}
	sub := funding.Submission{
		ID:        id,
		URL:       req.URL,
		Submitted: s.clock.Now(),
	}

	go s.process(sub)

	writeJSON(s.logger, w, http.StatusAccepted, sub)
}

// process runs the extraction sequence detached from the request, then
// appends the record and publishes a completion event. Submission always
// yields exactly one appended row, success or terminal failure alike.
func (s *Server) process(sub funding.Submission) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunTimeout)
	defer cancel()

	logger := s.logger.With(
		zap.String("submission_id", sub.ID),
		zap.String("url", sub.URL),
	)

	rec := s.runner.Run(ctx, sub.URL)

	at := s.clock.Now()
	if err := s.sink.Append(ctx, rec, at); err != nil {
		metrics.ObserveSinkAppend("error")
		logger.Error("failed to append record", zap.Error(err))
		return
	}
	metrics.ObserveSinkAppend("ok")

	if s.publisher != nil {
		event := funding.CompletionEvent{
			SubmissionID: sub.ID,
			URL:          sub.URL,
			CompanyName:  rec.CompanyName,
			Failed:       rec.Failed(),
			CompletedAt:  at,
		}
		if _, err := s.publisher.Publish(ctx, s.cfg.CompletionTopic, event); err != nil {
			logger.Warn("failed to publish completion event", zap.Error(err))
		}
	}

	logger.Info("extraction complete",
		zap.String("company", rec.CompanyName),
		zap.Bool("failed", rec.Failed()),
	)
}

func validateURL(raw string) error {
	if raw == "" {
		return errors.New("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("url scheme must be http or https")
	}
	if u.Host == "" {
		return errors.New("url host is required")
	}
	return nil
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			metrics.ObserveHTTPRequest(r.Method, strconv.Itoa(ww.status))
			logger.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

func recoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", zap.Any("error", rec))
					writeError(logger, w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func apiKeyMiddleware(expected string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = r.URL.Query().Get("api_key")
			}
			if key != expected {
				writeError(zap.NewNop(), w, http.StatusForbidden, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type requestIDKey struct{}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("write JSON failed", zap.Error(err))
	}
}

func writeError(logger *zap.Logger, w http.ResponseWriter, status int, msg string) {
	writeJSON(logger, w, status, map[string]string{"error": msg})
}
