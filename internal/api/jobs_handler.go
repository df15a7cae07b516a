package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"job-listings/internal/search"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// searchParams is the query string of GET /api/jobs after integer parsing.
// Absent page and limit stay nil and fall back to the engine defaults.
type searchParams struct {
	Q        string `query:"q" validate:"max=200"`
	Location string `query:"location" validate:"max=200"`
	Page     *int   `query:"page" validate:"omitempty,gte=1"`
	Limit    *int   `query:"limit" validate:"omitempty,gte=1"`
}

func (p searchParams) query() search.Query {
	q := search.Query{Q: p.Q, Location: p.Location}
	if p.Page != nil {
		q.Page = *p.Page
	}
	if p.Limit != nil {
		q.Limit = *p.Limit
	}
	return q
}

// SearchJobsHandler lists jobs matching the text and location filters
// @Summary Search jobs
// @Description Case-insensitive substring search. q matches title, company name or location; location matches location only. Both filters are ANDed.
// @Tags jobs
// @Produce json
// @Param q query string false "Text matched against title, company name and location"
// @Param location query string false "Text matched against location"
// @Param page query int false "1-indexed page number" default(1) minimum(1)
// @Param limit query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} search.Result
// @Failure 400 {object} ErrorResponse "page or limit is not a positive integer, or limit is above the configured maximum"
// @Failure 404 {object} ErrorResponse "No jobs found, or page number exceeds available pages"
// @Router /api/jobs [get]
func (a *API) SearchJobsHandler(w http.ResponseWriter, r *http.Request) {
	params, err := a.parseSearchParams(r)
	if err != nil {
		a.writeError(w, r, err)
		return
	}

	query := params.query()
	result, err := a.engine.Search(query)
	if err != nil {
		if a.metrics != nil && errors.Is(err, search.ErrNoJobs) {
			a.metrics.SearchResults.Observe(0)
		}
		a.logger.Debug("search returned no page",
			zap.String("q", query.Q),
			zap.String("location", query.Location),
			zap.Int("page", query.Page),
			zap.Error(err),
		)
		a.writeError(w, r, err)
		return
	}
	if a.metrics != nil {
		a.metrics.SearchResults.Observe(float64(result.Pagination.Total))
	}

	writeJSON(w, http.StatusOK, result)
}

// GetJobHandler returns the full record of one job
// @Summary Get job details
// @Tags jobs
// @Produce json
// @Param jobId path string true "Job identifier"
// @Success 200 {object} storage.JobDetail
// @Failure 404 {object} ErrorResponse "Job not found"
// @Router /api/jobs/{jobId} [get]
func (a *API) GetJobHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "jobId")

	detail, err := a.engine.GetDetail(id)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (a *API) parseSearchParams(r *http.Request) (searchParams, error) {
	values := r.URL.Query()
	params := searchParams{
		Q:        values.Get("q"),
		Location: values.Get("location"),
	}

	var err error
	if params.Page, err = intParam(values.Get("page"), "page"); err != nil {
		return params, err
	}
	if params.Limit, err = intParam(values.Get("limit"), "limit"); err != nil {
		return params, err
	}

	if err := a.validate.Struct(params); err != nil {
		return params, validationError(err)
	}
	if a.maxLimit > 0 && params.Limit != nil && *params.Limit > a.maxLimit {
		return params, &badRequestError{msg: fmt.Sprintf("limit must be at most %d", a.maxLimit)}
	}
	return params, nil
}

// intParam parses an optional integer query parameter; absent is nil.
func intParam(raw, name string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &badRequestError{msg: fmt.Sprintf("%s must be a positive integer", name)}
	}
	return &v, nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &badRequestError{msg: "invalid query parameters"}
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "gte":
		return &badRequestError{msg: fmt.Sprintf("%s must be a positive integer", fe.Field())}
	case "max":
		return &badRequestError{msg: fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())}
	default:
		return &badRequestError{msg: fmt.Sprintf("%s is invalid", fe.Field())}
	}
}

func queryFieldName(fld reflect.StructField) string {
	if name := fld.Tag.Get("query"); name != "" {
		return name
	}
	return fld.Name
}
