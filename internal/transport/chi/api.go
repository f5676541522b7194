package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ErrorResponseCode is the machine-readable error code in ErrorResponse.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest           ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed     ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized         ErrorResponseCode = "unauthorized"
	ErrorResponseCodeListingNotFound      ErrorResponseCode = "listing_not_found"
	ErrorResponseCodeListingAlreadyExists ErrorResponseCode = "listing_already_exists"
	ErrorResponseCodeRateLimited          ErrorResponseCode = "rate_limited"
	ErrorResponseCodeBackendUnavailable   ErrorResponseCode = "backend_unavailable"
	ErrorResponseCodeBackendTimeout       ErrorResponseCode = "backend_timeout"
	ErrorResponseCodeInternalError        ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// CreateListingRequest is the POST /api/businesses body.
// Location is set only when both Lat and Lon are present.
type CreateListingRequest struct {
	ID          *string   `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Categories  *[]string `json:"categories,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	Website     *string   `json:"website,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	Lat         *float64  `json:"lat,omitempty"`
	Lon         *float64  `json:"lon,omitempty"`
}

// Listing is the public listing representation.
type Listing struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Categories  []string  `json:"categories"`
	Address     string    `json:"address"`
	Location    *GeoPoint `json:"location"`
	Phone       string    `json:"phone"`
	Website     string    `json:"website"`
	Rating      *float64  `json:"rating"`
}

// ListingPage is one page of search results.
type ListingPage struct {
	Items      []Listing `json:"items"`
	TotalHits  int       `json:"total_hits"`
	Page       int       `json:"page"`
	Size       int       `json:"size"`
	TotalPages int       `json:"total_pages"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Listings  *int              `json:"listings,omitempty"`
	LatencyMs float64           `json:"latency_ms"`
}

// SearchListingsParams are the GET /api/businesses/search query parameters.
type SearchListingsParams struct {
	Q              *string  `form:"q,omitempty" json:"q,omitempty"`
	Lat            *float64 `form:"lat,omitempty" json:"lat,omitempty"`
	Lon            *float64 `form:"lon,omitempty" json:"lon,omitempty"`
	RadiusKm       *float64 `form:"radius_km,omitempty" json:"radius_km,omitempty"`
	Page           *int     `form:"page,omitempty" json:"page,omitempty"`
	Size           *int     `form:"size,omitempty" json:"size,omitempty"`
	SortByDistance *bool    `form:"sortByDistance,omitempty" json:"sortByDistance,omitempty"`
}

// ServerInterface is implemented by the API server.
type ServerInterface interface {
	// (POST /api/businesses)
	CreateListing(w http.ResponseWriter, r *http.Request)
	// (GET /api/businesses/search)
	SearchListings(w http.ResponseWriter, r *http.Request, params SearchListingsParams)
	// (GET /api/businesses/{id})
	GetListing(w http.ResponseWriter, r *http.Request, id string)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// InvalidParamFormatError reports a parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ChiServerOptions configures Handler.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	Middlewares      []func(http.Handler) http.Handler
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler mounts si on a router. Routes bind their parameters before calling si.
func Handler(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := serverInterfaceWrapper{
		handler:            si,
		middlewares:        options.Middlewares,
		handlerErrorHandle: options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Post("/api/businesses", wrapper.CreateListing)
		r.Get("/api/businesses/search", wrapper.SearchListings)
		r.Get("/api/businesses/{id}", wrapper.GetListing)
		r.Get("/health", wrapper.HealthCheck)
		r.Get("/metrics", wrapper.Metrics)
	})
	return r
}

type serverInterfaceWrapper struct {
	handler            ServerInterface
	middlewares        []func(http.Handler) http.Handler
	handlerErrorHandle func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *serverInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, h http.Handler) {
	for _, middleware := range siw.middlewares {
		h = middleware(h)
	}
	h.ServeHTTP(w, r)
}

func (siw *serverInterfaceWrapper) CreateListing(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.handler.CreateListing))
}

func (siw *serverInterfaceWrapper) SearchListings(w http.ResponseWriter, r *http.Request) {
	var params SearchListingsParams
	query := r.URL.Query()

	bindings := []struct {
		name string
		dest any
	}{
		{"q", &params.Q},
		{"lat", &params.Lat},
		{"lon", &params.Lon},
		{"radius_km", &params.RadiusKm},
		{"page", &params.Page},
		{"size", &params.Size},
		{"sortByDistance", &params.SortByDistance},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, query, b.dest); err != nil {
			siw.handlerErrorHandle(w, r, &InvalidParamFormatError{ParamName: b.name, Err: err})
			return
		}
	}

	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.handler.SearchListings(w, r, params)
	}))
}

func (siw *serverInterfaceWrapper) GetListing(w http.ResponseWriter, r *http.Request) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.handlerErrorHandle(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return
	}

	siw.serve(w, r, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.handler.GetListing(w, r, id)
	}))
}

func (siw *serverInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.handler.HealthCheck))
}

func (siw *serverInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, http.HandlerFunc(siw.handler.Metrics))
}
