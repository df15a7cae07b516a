// Package search filters and paginates job listings and looks up single
// job details. Every operation is a pure read over the records it is given.
package search

import (
	"errors"
	"strings"

	"job-listings/internal/storage"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// ErrNotFound is the parent of every not-found outcome. The wrapped error's
// text is the message shown to clients.
var ErrNotFound = errors.New("not found")

var (
	ErrNoJobs         = notFound("No jobs found")
	ErrPageOutOfRange = notFound("Page number exceeds available pages")
	ErrJobNotFound    = notFound("Job not found")
)

type notFoundError struct{ msg string }

func notFound(msg string) error { return &notFoundError{msg: msg} }

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

// RecordReader is the read contract of the record store.
type RecordReader interface {
	AllSummaries() []storage.JobSummary
	DetailByID(id string) (storage.JobDetail, bool)
}

type Query struct {
	Q        string
	Location string
	Page     int
	Limit    int
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type Result struct {
	Jobs       []storage.JobSummary `json:"jobs"`
	Pagination Pagination           `json:"pagination"`
}

type Engine struct {
	records  RecordReader
	defLimit int
}

type Option func(*Engine)

// WithDefaultLimit sets the page size used when a query has none.
func WithDefaultLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.defLimit = limit
		}
	}
}

func NewEngine(records RecordReader, opts ...Option) *Engine {
	e := &Engine{records: records, defLimit: DefaultLimit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search applies the text filter, then the location filter, then cuts the
// requested page out of the matches. Matches keep their load order.
func (e *Engine) Search(q Query) (Result, error) {
	page, limit := e.normalize(q.Page, q.Limit)

	matches := filter(e.records.AllSummaries(), q.Q, q.Location)
	total := len(matches)
	if total == 0 {
		return Result{}, ErrNoJobs
	}

	totalPages := (total + limit - 1) / limit
	if page > totalPages {
		return Result{}, ErrPageOutOfRange
	}

	start := (page - 1) * limit
	end := min(start+limit, total)

	return Result{
		Jobs: matches[start:end:end],
		Pagination: Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}, nil
}

// GetDetail is an exact id match against the detail records.
func (e *Engine) GetDetail(id string) (storage.JobDetail, error) {
	d, ok := e.records.DetailByID(id)
	if !ok {
		return storage.JobDetail{}, ErrJobNotFound
	}
	return d, nil
}

// normalize substitutes defaults for absent (non-positive) page and limit.
// Positive values are used as given, so the pagination descriptor always
// echoes the request.
func (e *Engine) normalize(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = e.defLimit
	}
	return page, limit
}

func filter(all []storage.JobSummary, q, location string) []storage.JobSummary {
	q = strings.ToLower(strings.TrimSpace(q))
	location = strings.ToLower(strings.TrimSpace(location))

	out := make([]storage.JobSummary, 0, len(all))
	for _, job := range all {
		if q != "" && !matchesText(job, q) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(job.Location), location) {
			continue
		}
		out = append(out, job)
	}
	return out
}

func matchesText(job storage.JobSummary, term string) bool {
	return strings.Contains(strings.ToLower(job.Title), term) ||
		strings.Contains(strings.ToLower(job.Company.Name), term) ||
		strings.Contains(strings.ToLower(job.Location), term)
}
