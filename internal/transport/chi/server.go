package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bizdex/internal/domain"
	"github.com/kailas-cloud/bizdex/internal/domain/geo"
	domlisting "github.com/kailas-cloud/bizdex/internal/domain/listing"
	"github.com/kailas-cloud/bizdex/internal/domain/search/request"
	"github.com/kailas-cloud/bizdex/internal/domain/search/result"
	"github.com/kailas-cloud/bizdex/internal/logger"
	healthuc "github.com/kailas-cloud/bizdex/internal/usecase/health"
)

// maxBodyBytes bounds POST bodies; a description alone may use 16 KiB.
const maxBodyBytes = 1 << 20

// ListingService is the listing use case consumed by the HTTP layer.
type ListingService interface {
	Create(ctx context.Context, d domlisting.Draft) (domlisting.Listing, error)
	Get(ctx context.Context, id string) (domlisting.Listing, error)
	Search(ctx context.Context, req request.Request) (result.Page, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Pagination holds the page size defaults applied to searches.
type Pagination struct {
	DefaultSize int
	MaxSize     int
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface.
type Server struct {
	listings      ListingService
	health        HealthChecker
	pagination    Pagination
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server. Zero pagination values fall back to the request package limits.
func NewServer(listings ListingService, health HealthChecker, pagination Pagination, logger *zap.Logger) *Server {
	if pagination.MaxSize <= 0 || pagination.MaxSize > request.MaxSize {
		pagination.MaxSize = request.MaxSize
	}
	if pagination.DefaultSize <= 0 || pagination.DefaultSize > pagination.MaxSize {
		pagination.DefaultSize = min(request.DefaultSize, pagination.MaxSize)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		listings:   listings,
		health:     health,
		pagination: pagination,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorResponseCodeListingNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorResponseCodeListingAlreadyExists),
		backendHandler,
	}
	return s
}

// CreateListing handles POST /api/businesses.
func (s *Server) CreateListing(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	l, err := s.listings.Create(r.Context(), draftFromRequest(&req))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/businesses/"+l.ID())
	writeJSON(w, http.StatusCreated, listingToAPI(&l))
}

// GetListing handles GET /api/businesses/{id}.
func (s *Server) GetListing(w http.ResponseWriter, r *http.Request, id string) {
	ctx := logger.With(r.Context(), zap.String("listing_id", id))
	l, err := s.listings.Get(ctx, id)
	if err != nil {
		s.handleDomainError(w, r.WithContext(ctx), err)
		return
	}

	writeJSON(w, http.StatusOK, listingToAPI(&l))
}

// SearchListings handles GET /api/businesses/search.
func (s *Server) SearchListings(w http.ResponseWriter, r *http.Request, params SearchListingsParams) {
	req, err := s.searchRequestFromParams(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	page, err := s.listings.Search(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToAPI(&page))
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

	resp := HealthResponse{
		Status:    string(report.Status),
		Checks:    checks,
		LatencyMs: float64(report.Latency.Microseconds()) / 1000,
	}
	if report.Listings != healthuc.UnknownCount {
		n := report.Listings
		resp.Listings = &n
	}
	writeJSON(w, httpStatus, resp)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// BindErrorHandler answers parameter binding failures with 400 bad_request.
func BindErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	msg := "invalid request"
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) {
		msg = "invalid value for parameter " + pe.ParamName
	}
	writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, msg)
}

func (s *Server) searchRequestFromParams(p SearchListingsParams) (request.Request, error) {
	page := derefInt(p.Page, 0)
	size := derefInt(p.Size, s.pagination.DefaultSize)
	if size > s.pagination.MaxSize {
		return request.Request{}, fmt.Errorf("size must be between 1 and %d", s.pagination.MaxSize)
	}

	var center *geo.Point
	if p.Lat != nil && p.Lon != nil {
		center = &geo.Point{Lat: *p.Lat, Lon: *p.Lon}
	}

	sortByDistance := p.SortByDistance != nil && *p.SortByDistance

	req, err := request.New(derefString(p.Q), center, p.RadiusKm, page, size, sortByDistance)
	if err != nil {
		return request.Request{}, fmt.Errorf("build search request: %w", err)
	}
	return req, nil
}

func draftFromRequest(req *CreateListingRequest) domlisting.Draft {
	d := domlisting.Draft{
		ID:          derefString(req.ID),
		Name:        req.Name,
		Description: derefString(req.Description),
		Address:     derefString(req.Address),
		Phone:       derefString(req.Phone),
		Website:     derefString(req.Website),
		Rating:      req.Rating,
	}
	if req.Categories != nil {
		d.Categories = *req.Categories
	}
	if req.Lat != nil && req.Lon != nil {
		d.Location = &geo.Point{Lat: *req.Lat, Lon: *req.Lon}
	}
	return d
}

func listingToAPI(l *domlisting.Listing) Listing {
	out := Listing{
		ID:          l.ID(),
		Name:        l.Name(),
		Description: l.Description(),
		Categories:  l.Categories(),
		Address:     l.Address(),
		Phone:       l.Phone(),
		Website:     l.Website(),
		Rating:      l.Rating(),
	}
	if out.Categories == nil {
		out.Categories = []string{}
	}
	if loc := l.Location(); loc != nil {
		out.Location = &GeoPoint{Lat: loc.Lat, Lon: loc.Lon}
	}
	return out
}

func pageToAPI(p *result.Page) ListingPage {
	listings := p.Items()
	items := make([]Listing, len(listings))
	for i := range listings {
		items[i] = listingToAPI(&listings[i])
	}
	return ListingPage{
		Items:      items,
		TotalHits:  p.TotalHits(),
		Page:       p.Page(),
		Size:       p.Size(),
		TotalPages: p.TotalPages(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing backend internals.
func safeDomainMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		// validation messages name the offending field
		return err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return domain.ErrNotFound.Error()
	case errors.Is(err, domain.ErrAlreadyExists):
		return domain.ErrAlreadyExists.Error()
	case errors.Is(err, domain.ErrBackendUnavailable):
		return domain.ErrBackendUnavailable.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// backendHandler maps index failures to 503, or 504 when the deadline ran out.
func backendHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrBackendUnavailable) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusGatewayTimeout, ErrorResponseCodeBackendTimeout, "search backend timed out")
		return true
	}
	writeError(w, http.StatusServiceUnavailable, ErrorResponseCodeBackendUnavailable, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.Or(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
