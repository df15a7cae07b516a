package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"job-listings/internal/metrics"
	"job-listings/internal/search"
	"job-listings/internal/storage"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type API struct {
	engine   *search.Engine
	store    *storage.Store
	logger   *zap.Logger
	metrics  *metrics.Collector
	validate *validator.Validate
	// maxLimit is the largest page size a client may request; 0 means no ceiling.
	maxLimit int
}

// DefaultMaxLimit is the page-size ceiling when none is configured.
const DefaultMaxLimit = 100

func NewAPI(engine *search.Engine, store *storage.Store, logger *zap.Logger, collector *metrics.Collector, maxLimit int) *API {
	v := validator.New()
	v.RegisterTagNameFunc(queryFieldName)
	return &API{
		engine:   engine,
		store:    store,
		logger:   logger,
		metrics:  collector,
		validate: v,
		maxLimit: maxLimit,
	}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string `json:"message" example:"No jobs found"`
}

// HealthResponse reports the state of the served job data.
type HealthResponse struct {
	Status   string    `json:"status" example:"healthy"`
	Source   string    `json:"source"`
	Jobs     int       `json:"jobs"`
	Details  int       `json:"details"`
	LoadedAt time.Time `json:"loadedAt"`
	Error    string    `json:"error,omitempty"`
}

// HealthHandler reports whether job data is loaded
// @Summary Health check
// @Description Reports "degraded" when the job data could not be loaded and an empty collection is being served
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	st := a.store.Status()
	resp := HealthResponse{
		Status:   "healthy",
		Source:   st.Source,
		Jobs:     st.Jobs,
		Details:  st.Details,
		LoadedAt: st.LoadedAt,
		Error:    st.Error,
	}
	if st.Degraded {
		resp.Status = "degraded"
	}
	writeJSON(w, http.StatusOK, resp)
}

// ReadyHandler fails until job data has loaded successfully at least once
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /ready [get]
func (a *API) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if !a.store.Status().EverReady {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// badRequestError marks input the boundary refuses before it reaches the engine.
type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

// writeError is the single place engine and boundary errors become statuses.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var bad *badRequestError
	switch {
	case errors.Is(err, search.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case errors.As(err, &bad):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: bad.msg})
	default:
		a.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("requestID", requestID(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
