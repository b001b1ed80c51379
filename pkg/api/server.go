package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/matzehuels/relocator/pkg/buildinfo"
	"github.com/matzehuels/relocator/pkg/errors"
	"github.com/matzehuels/relocator/pkg/pipeline"
)

const (
	// DefaultMaxTimeLimit caps the time a request may ask the solver for.
	DefaultMaxTimeLimit = time.Minute

	// DefaultTimeLimit is used when a request names no time limit.
	DefaultTimeLimit = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Runner *pipeline.Runner
	Logger *log.Logger

	// DefaultTimeLimit applies to requests without a time limit.
	DefaultTimeLimit time.Duration
	// MaxTimeLimit caps requested time limits.
	MaxTimeLimit time.Duration

	// RateLimit is the sustained number of solve requests per second.
	// Zero disables rate limiting.
	RateLimit float64
	// Burst is the number of solve requests allowed at once. Zero means 1.
	Burst int

	// Gatherer, if set, is exposed at /metrics.
	Gatherer prometheus.Gatherer
}

// Server handles solve requests.
type Server struct {
	runner       *pipeline.Runner
	logger       *log.Logger
	defaultLimit time.Duration
	maxLimit     time.Duration
	limiter      *rate.Limiter
	gatherer     prometheus.Gatherer
}

// New creates a server. A nil Runner solves without caching.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.MaxTimeLimit <= 0 {
		cfg.MaxTimeLimit = DefaultMaxTimeLimit
	}
	if cfg.DefaultTimeLimit <= 0 {
		cfg.DefaultTimeLimit = DefaultTimeLimit
	}
	cfg.DefaultTimeLimit = min(cfg.DefaultTimeLimit, cfg.MaxTimeLimit)

	s := &Server{
		runner:       cfg.Runner,
		logger:       cfg.Logger,
		defaultLimit: cfg.DefaultTimeLimit,
		maxLimit:     cfg.MaxTimeLimit,
		gatherer:     cfg.Gatherer,
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.Burst, 1))
	}
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/v1/healthz", s.handleHealth)
	r.With(s.rateLimit).Post("/v1/solve", s.handleSolve)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Process solves the request in body and returns the status code and the
// JSON value to send back.
func (s *Server) Process(ctx context.Context, requestID, contentType string, body []byte) (int, any) {
	logger := s.logger.With("request_id", requestID)

	req, err := ParseSolveRequest(contentType, body)
	if err != nil {
		logger.Warn("invalid solve request", "error", err)
		return StatusCode(err), newErrorResponse(requestID, err)
	}

	limit := req.TimeLimit
	if limit == 0 {
		limit = s.defaultLimit
	}
	limit = min(limit, s.maxLimit)

	res, err := s.runner.Solve(ctx, req.Instance, pipeline.Options{
		TimeLimit: limit,
		Refresh:   req.Refresh,
		Logger:    logger,
	})
	if err != nil {
		status := StatusCode(err)
		if status >= http.StatusInternalServerError {
			logger.Error("solve failed", "error", err)
		} else {
			logger.Warn("solve rejected", "error", err)
		}
		return status, newErrorResponse(requestID, err)
	}

	logger.Info("solve complete",
		"relocations", res.Report.BestUB,
		"optimal", res.Report.Optimal(),
		"cached", res.Cached,
		"duration", res.Duration)
	return http.StatusOK, newSolveResponse(requestID, res)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	id := requestID(w, r)
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
		writeJSON(w, http.StatusBadRequest, newErrorResponse(id, err))
		return
	}
	status, payload := s.Process(r.Context(), id, r.Header.Get("Content-Type"), body)
	writeJSON(w, status, payload)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: buildinfo.Version})
}

// requestID returns the caller's X-Request-ID or a new one, and echoes it.
func requestID(w http.ResponseWriter, r *http.Request) string {
	id := r.Header.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set("X-Request-ID", id)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
