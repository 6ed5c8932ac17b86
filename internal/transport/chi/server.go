package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/pricecheck/internal/domain"
	"github.com/kailas-cloud/pricecheck/internal/domain/envelope"
	logpkg "github.com/kailas-cloud/pricecheck/internal/logger"
	compareuc "github.com/kailas-cloud/pricecheck/internal/usecase/compare"
	healthuc "github.com/kailas-cloud/pricecheck/internal/usecase/health"
)

// maxRequestBody caps the compare request body.
const maxRequestBody = 64 << 10

// Comparer runs one comparison.
type Comparer interface {
	Compare(ctx context.Context, in compareuc.Input) (envelope.Envelope, error)
}

// HealthReporter reports component health.
type HealthReporter interface {
	Check(ctx context.Context) healthuc.Report
}

// ProviderLister lists the registered model providers.
type ProviderLister interface {
	Names() []string
	Default() string
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the pricecheck HTTP API.
type Server struct {
	compare       Comparer
	health        HealthReporter
	providers     ProviderLister
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(compare Comparer, health HealthReporter, providers ProviderLister, logger *zap.Logger) *Server {
	s := &Server{
		compare:   compare,
		health:    health,
		providers: providers,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		providerErrorHandler,
		sentinelHandler(domain.ErrMissingCredentials, http.StatusInternalServerError),
		sentinelHandler(domain.ErrUnknownProvider, http.StatusBadRequest),
		sentinelHandler(domain.ErrModelQuotaExceeded, http.StatusTooManyRequests),
		sentinelHandler(domain.ErrSearchFailed, http.StatusBadGateway),
		sentinelHandler(domain.ErrModelFailed, http.StatusBadGateway),
		sentinelHandler(domain.ErrModelNonJSON, http.StatusBadGateway),
		sentinelHandler(domain.ErrNoToolCall, http.StatusBadGateway),
	}
	return s
}

// Compare handles POST /api/v1/compare.
func (s *Server) Compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	env, err := s.compare.Compare(ctx, req.toInput())
	setModelHeaders(w, usage)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	status := http.StatusOK
	if env.Status == envelope.StatusNeedInput {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, env)
}

// ListProviders handles GET /api/v1/providers.
func (s *Server) ListProviders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, providersResponse{
		Default:   s.providers.Default(),
		Providers: s.providers.Names(),
	})
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

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setModelHeaders(w http.ResponseWriter, usage *domain.ModelUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Model-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, details any) {
	writeJSON(w, status, envelope.Error(message, details))
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrMissingCredentials,
		domain.ErrUnknownProvider,
		domain.ErrModelQuotaExceeded,
		domain.ErrSearchFailed,
		domain.ErrModelFailed,
		domain.ErrModelNonJSON,
		domain.ErrNoToolCall,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg, nil)
		return true
	}
}

// providerErrorHandler surfaces the upstream status and truncated body of a hard external failure.
func providerErrorHandler(w http.ResponseWriter, err error, msg string) bool {
	var pe *domain.ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	writeError(w, http.StatusBadGateway, msg, providerErrorDetails{
		Capability: pe.Capability,
		Provider:   pe.Provider,
		StatusCode: pe.StatusCode,
		Body:       pe.Body,
	})
	return true
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := logpkg.FromContext(ctx)
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error", nil)
}
