package storage

import (
	"bytes"
	"encoding/json"
	"time"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

type RemoteOption string

const (
	RemoteOnSite RemoteOption = "on-site"
	RemoteHybrid RemoteOption = "hybrid"
	RemoteRemote RemoteOption = "remote"
)

type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
)

// Company is embedded in every job record; it is not joined at read time.
type Company struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Logo     string `json:"logo,omitempty"`
	Verified bool   `json:"verified"`
}

// JobSummary is the listing-view record returned by search.
type JobSummary struct {
	ID           string       `json:"id" validate:"required"`
	Title        string       `json:"title" validate:"required"`
	Company      Company      `json:"company"`
	Location     string       `json:"location"`
	Type         JobType      `json:"type" validate:"required,oneof=full-time part-time contract internship"`
	RemoteOption RemoteOption `json:"remoteOption" validate:"required,oneof=on-site hybrid remote"`
	PostedAt     time.Time    `json:"postedAt" validate:"required"`
}

// Salary fields are co-required: a detail carries either all four or none.
type Salary struct {
	Min      float64 `json:"min" validate:"gte=0"`
	Max      float64 `json:"max" validate:"gtefield=Min"`
	Currency string  `json:"currency" validate:"required,len=3"`
	Period   string  `json:"period" validate:"required,oneof=hour month year"`
}

// JobDetail is the full record for a single posting.
type JobDetail struct {
	JobSummary

	ExperienceLevel     ExperienceLevel `json:"experienceLevel,omitempty" validate:"omitempty,oneof=entry mid senior"`
	Salary              *Salary         `json:"salary,omitempty" validate:"omitempty"`
	Description         string          `json:"description"`
	Requirements        []string        `json:"requirements"`
	Responsibilities    []string        `json:"responsibilities"`
	Benefits            []string        `json:"benefits"`
	Tags                []string        `json:"tags"`
	ApplicationDeadline *time.Time      `json:"applicationDeadline,omitempty"`
	Applicants          int             `json:"applicants" validate:"gte=0"`
	Featured            bool            `json:"featured"`
	Active              bool            `json:"active"`
}

// companyField accepts the legacy string form of "company" alongside the
// object form. Strings are resolved against the company directory by the loader.
type companyField struct {
	Company
	legacyName string
}

func (c *companyField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.legacyName)
	}
	return json.Unmarshal(data, &c.Company)
}

// rawSummary and rawDetail mirror the on-disk shape before normalization.
type rawSummary struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Company      companyField `json:"company"`
	Location     string       `json:"location"`
	Type         JobType      `json:"type"`
	RemoteOption RemoteOption `json:"remoteOption"`
	PostedAt     time.Time    `json:"postedAt"`
}

type rawDetail struct {
	rawSummary

	ExperienceLevel     ExperienceLevel `json:"experienceLevel"`
	Salary              *rawSalary      `json:"salary"`
	Description         string          `json:"description"`
	Requirements        []string        `json:"requirements"`
	Responsibilities    []string        `json:"responsibilities"`
	Benefits            []string        `json:"benefits"`
	Tags                []string        `json:"tags"`
	ApplicationDeadline *time.Time      `json:"applicationDeadline"`
	Applicants          int             `json:"applicants"`
	Featured            bool            `json:"featured"`
	Active              bool            `json:"active"`
}

// rawSalary uses pointers so a partially filled salary can be told apart
// from a complete one.
type rawSalary struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Currency *string  `json:"currency"`
	Period   *string  `json:"period"`
}
