package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	httpclient "job-listings/pkg/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	JobsFile      = "jobs.json"
	DetailsFile   = "job-details.json"
	CompaniesFile = "companies.json"
)

// Source produces a complete snapshot of the job collections.
type Source interface {
	Load(ctx context.Context) (*Snapshot, error)
	Name() string
}

// FileSource reads the JSON data files either from a local directory or
// from an HTTP base URL serving the same file names.
type FileSource struct {
	dir     string
	baseURL string
	client  *httpclient.Client
	logger  *zap.Logger
}

func NewFileSource(dir string, logger *zap.Logger) *FileSource {
	return &FileSource{dir: dir, logger: logger}
}

// NewRemoteSource fetches the data files from baseURL. Each file is capped
// at maxBytes.
func NewRemoteSource(baseURL string, timeout time.Duration, maxBytes int64, logger *zap.Logger) *FileSource {
	return &FileSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpclient.NewClient(timeout, maxBytes),
		logger:  logger,
	}
}

func (s *FileSource) Name() string {
	if s.baseURL != "" {
		return s.baseURL
	}
	return s.dir
}

// Dir is the watched directory; empty for remote sources.
func (s *FileSource) Dir() string { return s.dir }

func (s *FileSource) Load(ctx context.Context) (*Snapshot, error) {
	var summaries []rawSummary
	if err := s.decode(ctx, JobsFile, &summaries); err != nil {
		return nil, err
	}

	var details []rawDetail
	if err := s.decode(ctx, DetailsFile, &details); err != nil {
		return nil, err
	}

	var companies []Company
	if err := s.decode(ctx, CompaniesFile, &companies); err != nil {
		// The directory only resolves legacy string companies; jobs still load without it.
		s.logger.Warn("company directory unavailable", zap.String("source", s.Name()), zap.Error(err))
		companies = nil
	}

	return buildSnapshot(s.Name(), summaries, details, companies, s.logger), nil
}

func (s *FileSource) decode(ctx context.Context, name string, into interface{}) error {
	data, err := s.read(ctx, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, into); err != nil {
		return errors.Wrapf(err, "failed to parse %s", name)
	}
	return nil
}

func (s *FileSource) read(ctx context.Context, name string) ([]byte, error) {
	if s.baseURL != "" {
		data, err := s.client.Fetch(ctx, s.baseURL+"/"+name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to fetch %s", name)
		}
		return data, nil
	}
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}

// LoadOrEmpty never fails: a source error yields an empty snapshot marked
// Degraded, so the engine keeps answering with its not-found results.
func LoadOrEmpty(ctx context.Context, src Source, logger *zap.Logger) *Snapshot {
	snap, err := src.Load(ctx)
	if err != nil {
		logger.Error("job data could not be loaded, serving an empty collection",
			zap.String("source", src.Name()),
			zap.Error(err),
		)
		return EmptySnapshot(src.Name(), err)
	}
	logger.Info("job data loaded",
		zap.String("source", src.Name()),
		zap.Int("jobs", len(snap.summaries)),
		zap.Int("details", len(snap.details)),
	)
	return snap
}

// buildSnapshot normalizes company shapes, validates every record, and keeps
// the first occurrence of each id in load order.
func buildSnapshot(source string, rawSummaries []rawSummary, rawDetails []rawDetail, companies []Company, logger *zap.Logger) *Snapshot {
	dir := newCompanyDirectory(companies)
	rv := newRecordValidator()
	drops := &dropLogger{logger: logger}

	summaries := make([]JobSummary, 0, len(rawSummaries))
	companyByJob := make(map[string]string, len(rawSummaries))
	for i, raw := range rawSummaries {
		s := raw.toSummary(dir, logger)
		if err := rv.summary(&s); err != nil {
			drops.drop("summary", s.ID, i, err)
			continue
		}
		if _, dup := companyByJob[s.ID]; dup {
			drops.drop("summary", s.ID, i, errors.New("duplicate id"))
			continue
		}
		companyByJob[s.ID] = s.Company.ID
		summaries = append(summaries, s)
	}

	details := make([]JobDetail, 0, len(rawDetails))
	seen := make(map[string]struct{}, len(rawDetails))
	for i, raw := range rawDetails {
		d, err := raw.toDetail(dir, logger)
		if err == nil {
			err = rv.detail(&d)
		}
		if err == nil {
			if _, dup := seen[d.ID]; dup {
				err = errors.New("duplicate id")
			}
		}
		if err == nil {
			if cid, ok := companyByJob[d.ID]; ok && cid != d.Company.ID {
				err = errors.Errorf("company.id %q differs from summary company.id %q", d.Company.ID, cid)
			}
		}
		if err != nil {
			drops.drop("detail", d.ID, i, err)
			continue
		}
		seen[d.ID] = struct{}{}
		details = append(details, d)
	}

	if drops.dropped > 0 {
		logger.Warn("invalid records dropped during load",
			zap.String("source", source),
			zap.Int("dropped", drops.dropped),
		)
	}
	return NewSnapshot(source, summaries, details)
}

type companyDirectory map[string]Company

func newCompanyDirectory(companies []Company) companyDirectory {
	dir := make(companyDirectory, len(companies))
	for _, c := range companies {
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if _, exists := dir[key]; !exists {
			dir[key] = c
		}
	}
	return dir
}

// resolve turns a company field into the object form.
func (d companyDirectory) resolve(f companyField, jobID string, logger *zap.Logger) Company {
	if f.legacyName == "" {
		return f.Company
	}
	if c, ok := d[strings.ToLower(strings.TrimSpace(f.legacyName))]; ok {
		return c
	}
	logger.Warn("company name not in directory, keeping name only",
		zap.String("job", jobID),
		zap.String("company", f.legacyName),
	)
	return Company{Name: f.legacyName}
}

func (r rawSummary) toSummary(dir companyDirectory, logger *zap.Logger) JobSummary {
	return JobSummary{
		ID:           r.ID,
		Title:        r.Title,
		Company:      dir.resolve(r.Company, r.ID, logger),
		Location:     r.Location,
		Type:         r.Type,
		RemoteOption: r.RemoteOption,
		PostedAt:     r.PostedAt,
	}
}

func (r rawDetail) toDetail(dir companyDirectory, logger *zap.Logger) (JobDetail, error) {
	d := JobDetail{
		JobSummary:          r.toSummary(dir, logger),
		ExperienceLevel:     r.ExperienceLevel,
		Description:         r.Description,
		Requirements:        nonNil(r.Requirements),
		Responsibilities:    nonNil(r.Responsibilities),
		Benefits:            nonNil(r.Benefits),
		Tags:                nonNil(r.Tags),
		ApplicationDeadline: r.ApplicationDeadline,
		Applicants:          r.Applicants,
		Featured:            r.Featured,
		Active:              r.Active,
	}
	sal, err := salary(r.Salary)
	if err != nil {
		return d, err
	}
	d.Salary = sal
	return d, nil
}
