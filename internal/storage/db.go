package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/lib/pq" // PostgreSQL driver
	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSQL string

// DB is the relational job source. It satisfies the same read contract as
// the JSON files: Load returns a full snapshot in load order.
type DB struct {
	connection *sql.DB
	logger     *zap.Logger
}

// OpenDB prepares the connection pool without contacting the server, so a
// database that is down at startup can still be retried by later reloads.
func OpenDB(dataSourceName string, logger *zap.Logger) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &DB{connection: db, logger: logger}, nil
}

// NewDB opens the pool and verifies connectivity.
func NewDB(dataSourceName string, logger *zap.Logger) (*DB, error) {
	db, err := OpenDB(dataSourceName, logger)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.connection.PingContext(ctx)
}

func (db *DB) Close() {
	if err := db.connection.Close(); err != nil {
		db.logger.Error("error closing the database connection", zap.Error(err))
	}
}

// GetConnection returns the underlying database connection for advanced queries
func (db *DB) GetConnection() *sql.DB {
	return db.connection
}

func (db *DB) Name() string { return "postgres" }

// EnsureSchema creates the companies and jobs tables if they are missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.connection.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const selectJobs = `
	SELECT j.id, j.listed, j.has_detail, j.title, j.location, j.job_type, j.remote_option, j.posted_at,
	       c.id, c.name, COALESCE(c.logo, ''), c.verified,
	       COALESCE(j.experience_level, ''), j.salary_min, j.salary_max, j.salary_currency, j.salary_period,
	       j.description, j.requirements, j.responsibilities, j.benefits, j.tags,
	       j.application_deadline, j.applicants, j.featured, j.active
	FROM jobs j
	JOIN companies c ON c.id = j.company_id
	ORDER BY j.load_order, j.id`

// Load reads every job row and splits it into the summary and detail
// collections.
func (db *DB) Load(ctx context.Context) (*Snapshot, error) {
	rows, err := db.connection.QueryContext(ctx, selectJobs)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var summaries []JobSummary
	var details []JobDetail
	for rows.Next() {
		var (
			d                  JobDetail
			listed, hasDetail  bool
			salMin, salMax     sql.NullFloat64
			salCur, salPeriod  sql.NullString
			deadline           sql.NullTime
			level, jobType, ro string
		)
		err := rows.Scan(
			&d.ID, &listed, &hasDetail, &d.Title, &d.Location, &jobType, &ro, &d.PostedAt,
			&d.Company.ID, &d.Company.Name, &d.Company.Logo, &d.Company.Verified,
			&level, &salMin, &salMax, &salCur, &salPeriod,
			&d.Description, pq.Array(&d.Requirements), pq.Array(&d.Responsibilities),
			pq.Array(&d.Benefits), pq.Array(&d.Tags),
			&deadline, &d.Applicants, &d.Featured, &d.Active,
		)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		d.Type = JobType(jobType)
		d.RemoteOption = RemoteOption(ro)
		d.ExperienceLevel = ExperienceLevel(level)
		d.PostedAt = d.PostedAt.UTC()
		if salMin.Valid && salMax.Valid && salCur.Valid && salPeriod.Valid {
			d.Salary = &Salary{Min: salMin.Float64, Max: salMax.Float64, Currency: salCur.String, Period: salPeriod.String}
		}
		if deadline.Valid {
			t := deadline.Time.UTC()
			d.ApplicationDeadline = &t
		}

		if listed {
			summaries = append(summaries, d.JobSummary)
		}
		if hasDetail {
			details = append(details, d)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}

	return NewSnapshot(db.Name(), summaries, details), nil
}

// UpsertCompany inserts or refreshes a company row.
func (db *DB) UpsertCompany(ctx context.Context, tx *sql.Tx, c Company) error {
	query := `INSERT INTO companies (id, name, logo, verified)
	          VALUES ($1, $2, NULLIF($3, ''), $4)
	          ON CONFLICT (id) DO UPDATE
	            SET name = EXCLUDED.name,
	                logo = EXCLUDED.logo,
	                verified = EXCLUDED.verified`
	_, err := tx.ExecContext(ctx, query, c.ID, c.Name, c.Logo, c.Verified)
	return err
}

// UpsertJob writes every column of a job row, overwriting a previous
// import of the same id including its listed and has_detail flags.
func (db *DB) UpsertJob(ctx context.Context, tx *sql.Tx, row jobRow) error {
	var (
		level                       string
		salMin, salMax              interface{}
		salCur, salPeriod           interface{}
		description                 string
		reqs, resps, benefits, tags []string
		deadline                    interface{}
		applicants                  int
		featured                    bool
	)
	active := true
	if d := row.Detail; d != nil {
		level = string(d.ExperienceLevel)
		if d.Salary != nil {
			salMin, salMax, salCur, salPeriod = d.Salary.Min, d.Salary.Max, d.Salary.Currency, d.Salary.Period
		}
		description = d.Description
		reqs, resps, benefits, tags = d.Requirements, d.Responsibilities, d.Benefits, d.Tags
		if d.ApplicationDeadline != nil {
			deadline = *d.ApplicationDeadline
		}
		applicants, featured, active = d.Applicants, d.Featured, d.Active
	}

	s := row.Summary
	query := `INSERT INTO jobs (id, load_order, listed, has_detail, title, company_id, location, job_type, remote_option, posted_at,
	                            experience_level, salary_min, salary_max, salary_currency, salary_period,
	                            description, requirements, responsibilities, benefits, tags,
	                            application_deadline, applicants, featured, active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14, $15,
	                  $16, $17, $18, $19, $20, $21, $22, $23, $24)
	          ON CONFLICT (id) DO UPDATE
	            SET load_order = EXCLUDED.load_order,
	                listed = EXCLUDED.listed,
	                has_detail = EXCLUDED.has_detail,
	                title = EXCLUDED.title,
	                company_id = EXCLUDED.company_id,
	                location = EXCLUDED.location,
	                job_type = EXCLUDED.job_type,
	                remote_option = EXCLUDED.remote_option,
	                posted_at = EXCLUDED.posted_at,
	                experience_level = EXCLUDED.experience_level,
	                salary_min = EXCLUDED.salary_min,
	                salary_max = EXCLUDED.salary_max,
	                salary_currency = EXCLUDED.salary_currency,
	                salary_period = EXCLUDED.salary_period,
	                description = EXCLUDED.description,
	                requirements = EXCLUDED.requirements,
	                responsibilities = EXCLUDED.responsibilities,
	                benefits = EXCLUDED.benefits,
	                tags = EXCLUDED.tags,
	                application_deadline = EXCLUDED.application_deadline,
	                applicants = EXCLUDED.applicants,
	                featured = EXCLUDED.featured,
	                active = EXCLUDED.active`
	_, err := tx.ExecContext(ctx, query,
		s.ID, row.Order, row.Listed, row.Detail != nil, s.Title, s.Company.ID, s.Location,
		string(s.Type), string(s.RemoteOption), s.PostedAt,
		level, salMin, salMax, salCur, salPeriod,
		description, pq.Array(nonNil(reqs)), pq.Array(nonNil(resps)),
		pq.Array(nonNil(benefits)), pq.Array(nonNil(tags)),
		deadline, applicants, featured, active,
	)
	return err
}

// PruneJobs deletes job rows whose id is not in keep, then companies no
// job refers to any more.
func (db *DB) PruneJobs(ctx context.Context, tx *sql.Tx, keep []string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM jobs WHERE id <> ALL($1)`, pq.Array(nonNil(keep)))
	if err != nil {
		return 0, err
	}
	pruned, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM companies c WHERE NOT EXISTS (SELECT 1 FROM jobs j WHERE j.company_id = c.id)`); err != nil {
		return 0, err
	}
	return pruned, nil
}

// nonNil keeps list fields as [] in JSON, and as {} rather than NULL for
// pq.Array, which the NOT NULL array columns require.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
