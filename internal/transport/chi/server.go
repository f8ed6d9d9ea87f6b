package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/assetq/internal/db"
	"github.com/kailas-cloud/assetq/internal/domain"
	"github.com/kailas-cloud/assetq/internal/domain/query/result"
	"github.com/kailas-cloud/assetq/internal/domain/record"
	activityuc "github.com/kailas-cloud/assetq/internal/usecase/activity"
	assetsuc "github.com/kailas-cloud/assetq/internal/usecase/assets"
	certsuc "github.com/kailas-cloud/assetq/internal/usecase/certs"
	healthuc "github.com/kailas-cloud/assetq/internal/usecase/health"
	"github.com/kailas-cloud/assetq/internal/version"
)

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

// Error codes.
const (
	ErrorCodeNotFound          ErrorCode = "not_found"
	ErrorCodeUnauthorized      ErrorCode = "unauthorized"
	ErrorCodeInvalidQuery      ErrorCode = "invalid_query"
	ErrorCodeUnknownSortField  ErrorCode = "unknown_sort_field"
	ErrorCodeUnknownCollection ErrorCode = "unknown_collection"
	ErrorCodeSnapshotNotFound  ErrorCode = "snapshot_not_found"
	ErrorCodeSnapshotCorrupt   ErrorCode = "snapshot_corrupt"
	ErrorCodeStoreUnavailable  ErrorCode = "store_unavailable"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ListResponse is the body of the three list endpoints.
type ListResponse struct {
	Items     []record.Record `json:"items"`
	Total     int             `json:"total"`
	Page      int             `json:"page"`
	PageSize  int             `json:"page_size"`
	Pages     int             `json:"pages"`
	HasMore   bool            `json:"has_more"`
	TookMs    float64         `json:"took_ms"`
	Revision  string          `json:"revision"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the query API over chi.
type Server struct {
	assets        *assetsuc.Service
	activity      *activityuc.Service
	certs         *certsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	assets *assetsuc.Service,
	activity *activityuc.Service,
	certs *certsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		assets:   assets,
		activity: activity,
		certs:    certs,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		invalidParamHandler,
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, ErrorCodeInvalidQuery),
		sentinelHandler(domain.ErrUnknownSortField, http.StatusBadRequest, ErrorCodeUnknownSortField),
		sentinelHandler(domain.ErrUnknownCollection, http.StatusNotFound, ErrorCodeUnknownCollection),
		sentinelHandler(domain.ErrSnapshotNotFound, http.StatusNotFound, ErrorCodeSnapshotNotFound),
		sentinelHandler(domain.ErrSnapshotCorrupt, http.StatusInternalServerError, ErrorCodeSnapshotCorrupt),
		storeErrorHandler,
	}
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/v1/assets/search", s.SearchAssets)
	r.Get("/v1/activity", s.ActivityFeed)
	r.Get("/v1/certs", s.ListCerts)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeNotFound, "route not found")
	})
}

// SearchAssets handles GET /v1/assets/search.
func (s *Server) SearchAssets(w http.ResponseWriter, r *http.Request) {
	req, err := assetsRequest(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	listing, err := s.assets.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(listing))
}

// ActivityFeed handles GET /v1/activity.
func (s *Server) ActivityFeed(w http.ResponseWriter, r *http.Request) {
	req, err := activityRequest(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	listing, err := s.activity.Feed(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(listing))
}

// ListCerts handles GET /v1/certs.
func (s *Server) ListCerts(w http.ResponseWriter, r *http.Request) {
	req, err := certsRequest(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	listing, err := s.certs.List(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(listing))
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
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.Version,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func listResponse(l result.Listing) ListResponse {
	items := l.Page.Items()
	if items == nil {
		items = []record.Record{}
	}
	return ListResponse{
		Items:     items,
		Total:     l.Page.TotalAfterFilter(),
		Page:      l.Page.Index(),
		PageSize:  l.Page.Size(),
		Pages:     l.Page.Pages(),
		HasMore:   l.Page.HasMore(),
		TookMs:    float64(l.Page.Took().Microseconds()) / 1000,
		Revision:  l.Revision,
		FetchedAt: l.FetchedAt,
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

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrUnknownSortField,
		domain.ErrUnknownCollection,
		domain.ErrSnapshotNotFound,
		domain.ErrSnapshotCorrupt,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidParamHandler names the offending parameter. Its message only carries request input.
func invalidParamHandler(w http.ResponseWriter, err error, _ string) bool {
	var ipe *domain.InvalidParamError
	if !errors.As(err, &ipe) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorCodeInvalidQuery, ipe.Error())
	return true
}

// storeErrorHandler reports a failing snapshot store as unavailable.
func storeErrorHandler(w http.ResponseWriter, err error, _ string) bool {
	var dbe *db.Error
	if !errors.As(err, &dbe) {
		return false
	}
	writeError(w, http.StatusServiceUnavailable, ErrorCodeStoreUnavailable, "snapshot store unavailable")
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
