package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/meridian-clinic/deepsearch/internal/domain"
	deepsearchuc "github.com/meridian-clinic/deepsearch/internal/usecase/deepsearch"
	healthuc "github.com/meridian-clinic/deepsearch/internal/usecase/health"
)

// ErrorCode identifies an API error category.
type ErrorCode string

const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeUnknownModule    ErrorCode = "unknown_module"
	CodeRateLimited      ErrorCode = "rate_limited"
	CodeQuotaExhausted   ErrorCode = "quota_exhausted"
	CodeCompletionFailed ErrorCode = "completion_provider_error"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the deep-search pipeline over HTTP.
type Server struct {
	deepsearch    *deepsearchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	deepsearch *deepsearchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		deepsearch: deepsearch,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUnknownModule, http.StatusBadRequest, CodeUnknownModule),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrQuotaExhausted, http.StatusPaymentRequired, CodeQuotaExhausted),
		sentinelHandler(domain.ErrCompletionProviderError, http.StatusBadGateway, CodeCompletionFailed),
	}
	return s
}

// Routes mounts the API endpoints on a router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/api/v1/deepsearch", s.DeepSearch)
	r.Get("/health", s.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// DeepSearch handles POST /api/v1/deepsearch.
func (s *Server) DeepSearch(w http.ResponseWriter, r *http.Request) {
	var req domain.DeepSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Language == "" {
		req.Language = domain.LanguageEN
	}
	if req.Language != domain.LanguageEN && req.Language != domain.LanguageHE {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "language must be \"en\" or \"he\"")
		return
	}

	resp, err := s.deepsearch.Run(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	rep := s.health.Check(r.Context())

	status := http.StatusOK
	if rep.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": rep.Status,
		"checks": rep.Checks,
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := err.Error()
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
