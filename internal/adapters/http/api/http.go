// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/reviewlens/internal/adapters/notify"
	service "github.com/okian/reviewlens/internal/app"
	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/internal/domain/types"
	"github.com/okian/reviewlens/pkg/logger"
)

const defaultMaxUploadBytes int64 = 10 << 20

// Uploader applies or queues review uploads.
type Uploader interface {
	Upload(ctx context.Context, raw []byte) (types.UploadResult, error)
	Submit(ctx context.Context, raw []byte) (types.UploadStatus, error)
	UploadStatus(ctx context.Context, id string) (types.UploadStatus, error)
}

// Reader exposes the dashboard views of the current collection.
type Reader interface {
	Reviews(ctx context.Context) []review.Review
	Dashboard(ctx context.Context, page int) types.Dashboard
	Summary(ctx context.Context) types.Summary
	Ratings(ctx context.Context) []types.RatingBucket
	Locations(ctx context.Context) types.LocationRanking
	Trend(ctx context.Context) []types.TrendPoint
	Words(ctx context.Context, limit int) []types.WordCount
	Recent(ctx context.Context, page int) types.RecentPage
	Notifications(ctx context.Context, limit int) []notify.Notification
	Busy() bool
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Uploader
	Reader
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	reviewsHandler *ReviewsHandler
	uploadsHandler *UploadsHandler
	viewsHandler   *ViewsHandler

	maxUploadBytes int64
	logger         logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxUploadBytes: defaultMaxUploadBytes}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.reviewsHandler = NewReviewsHandler(deps, deps, s.maxUploadBytes, s.logger)
	s.uploadsHandler = NewUploadsHandler(deps, s.maxUploadBytes, s.logger)
	s.viewsHandler = NewViewsHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /reviews", MetricsMiddleware(s.reviewsHandler.HandleList, "reviews"))
	mux.HandleFunc("POST /reviews", MetricsMiddleware(s.reviewsHandler.HandleReplace, "reviews"))
	mux.HandleFunc("POST /uploads", MetricsMiddleware(s.uploadsHandler.HandleSubmit, "uploads"))
	mux.HandleFunc("GET /uploads/{id}", MetricsMiddleware(s.uploadsHandler.HandleStatus, "upload_status"))

	mux.HandleFunc("GET /dashboard", MetricsMiddleware(s.viewsHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("GET /summary", MetricsMiddleware(s.viewsHandler.HandleSummary, "summary"))
	mux.HandleFunc("GET /ratings", MetricsMiddleware(s.viewsHandler.HandleRatings, "ratings"))
	mux.HandleFunc("GET /locations", MetricsMiddleware(s.viewsHandler.HandleLocations, "locations"))
	mux.HandleFunc("GET /trend", MetricsMiddleware(s.viewsHandler.HandleTrend, "trend"))
	mux.HandleFunc("GET /words", MetricsMiddleware(s.viewsHandler.HandleWords, "words"))
	mux.HandleFunc("GET /recent", MetricsMiddleware(s.viewsHandler.HandleRecent, "recent"))
	mux.HandleFunc("GET /notifications", MetricsMiddleware(s.viewsHandler.HandleNotifications, "notifications"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// validationResponse adds the offending position to a validation failure.
type validationResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Index   int    `json:"index"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates upload errors to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		verr   *review.ValidationError
		tooBig *http.MaxBytesError
	)
	switch {
	case errors.As(err, &tooBig):
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", err)
	case errors.Is(err, review.ErrParse):
		writeError(w, http.StatusBadRequest, "parse_error", err)
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, validationResponse{
			Code:    "validation_error",
			Message: verr.Error(),
			Index:   verr.Index,
			Field:   verr.Field,
		})
	case errors.Is(err, service.ErrUploadUnknown):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "canceled", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}

// intQuery reads a positive integer query parameter; missing means def.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, WrapKind("api.query", ErrBadRequest, errors.New("invalid "+name+"; must be a positive integer"))
	}
	return n, nil
}
