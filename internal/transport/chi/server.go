package chi

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdex/internal/domain"
	logpkg "github.com/kailas-cloud/helpdex/internal/logger"
	healthuc "github.com/kailas-cloud/helpdex/internal/usecase/health"
)

// maxBodyBytes caps JSON and form request bodies.
const maxBodyBytes = 64 << 10

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest             = "bad_request"
	CodeInvalidQuery           = "invalid_query"
	CodeGraphUnavailable       = "graph_unavailable"
	CodeEmbeddingProviderError = "embedding_provider_error"
	CodeVectorDimMismatch      = "vector_dim_mismatch"
	CodeInternalError          = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnswerRequest is the JSON body of POST /api/v1/answer.
type AnswerRequest struct {
	Query string `json:"query"`
}

// HealthResponse is the JSON body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the HTML form, the JSON API, health and metrics.
type Server struct {
	answers       Answerer
	health        HealthChecker
	logger        *zap.Logger
	page          *template.Template
	metrics       http.Handler
	errorHandlers []errorHandler
}

// NewServer creates an HTTP server. Metrics are served from the default
// Prometheus registry unless WithGatherer is used.
func NewServer(answers Answerer, health HealthChecker, logger *zap.Logger) *Server {
	s := &Server{
		answers: answers,
		health:  health,
		logger:  logger,
		page:    pageTemplate,
		metrics: promhttp.Handler(),
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery),
		sentinelHandler(domain.ErrGraphUnavailable, http.StatusServiceUnavailable, CodeGraphUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProviderError),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusInternalServerError, CodeVectorDimMismatch),
	}
	return s
}

// WithGatherer serves /metrics from g instead of the default registry.
func (s *Server) WithGatherer(g prometheus.Gatherer) *Server {
	if g != nil {
		s.metrics = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	return s
}

// Answer handles POST /api/v1/answer.
func (s *Server) Answer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	ans, err := s.answers.Answer(ctx, req.Query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, ans)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	s.metrics.ServeHTTP(w, r)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrGraphUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrVectorDimMismatch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	if l, ok := logpkg.Lookup(r.Context()); ok {
		return l
	}
	return s.logger
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := s.requestLogger(r)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
