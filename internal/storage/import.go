package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// companyNamespace derives stable ids for companies that arrive without one,
// so repeated imports of the same data map to the same rows.
var companyNamespace = uuid.MustParse("6f1c9f4e-3c55-4d0a-9b7e-2f1f0c2a7d11")

// ImportPlan is a snapshot rearranged for the relational schema.
type ImportPlan struct {
	Companies []Company
	Listings  []JobSummary
	Details   []JobDetail
}

// PlanImport gives every company an id and collects the distinct companies
// in first-seen order.
func PlanImport(snap *Snapshot) ImportPlan {
	plan := ImportPlan{
		Listings: make([]JobSummary, 0, len(snap.summaries)),
		Details:  make([]JobDetail, 0, len(snap.details)),
	}
	seen := make(map[string]struct{})
	addCompany := func(c Company) Company {
		if c.ID == "" {
			c.ID = CompanyIDFor(c.Name)
		}
		if _, ok := seen[c.ID]; !ok {
			seen[c.ID] = struct{}{}
			plan.Companies = append(plan.Companies, c)
		}
		return c
	}

	for _, s := range snap.summaries {
		s.Company = addCompany(s.Company)
		plan.Listings = append(plan.Listings, s)
	}
	for _, d := range snap.details {
		d.Company = addCompany(d.Company)
		plan.Details = append(plan.Details, d)
	}
	return plan
}

// CompanyIDFor is the deterministic id used for a company known only by name.
func CompanyIDFor(name string) string {
	return uuid.NewSHA1(companyNamespace, []byte(strings.ToLower(strings.TrimSpace(name)))).String()
}

// jobRow is one row of the jobs table: the listing and detail of an id
// merged, with its position in load order.
type jobRow struct {
	Order   int
	Listed  bool
	Summary JobSummary
	Detail  *JobDetail
}

// jobRows merges listings and details by id. Listed jobs take their
// listing position; details without a listing follow all listings in
// detail order. Orders are unique and dense from 0.
func jobRows(plan ImportPlan) []jobRow {
	rows := make([]jobRow, 0, len(plan.Listings)+len(plan.Details))
	byID := make(map[string]int, len(plan.Listings))
	for _, s := range plan.Listings {
		if _, dup := byID[s.ID]; dup {
			continue
		}
		byID[s.ID] = len(rows)
		rows = append(rows, jobRow{Order: len(rows), Listed: true, Summary: s})
	}
	for i := range plan.Details {
		d := plan.Details[i]
		if idx, ok := byID[d.ID]; ok {
			if rows[idx].Detail == nil {
				rows[idx].Detail = &d
			}
			continue
		}
		byID[d.ID] = len(rows)
		rows = append(rows, jobRow{Order: len(rows), Summary: d.JobSummary, Detail: &d})
	}
	return rows
}

// rowIDs is the keep list for PruneJobs.
func rowIDs(rows []jobRow) []string {
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.Summary.ID
	}
	return ids
}

// ImportResult counts what an import wrote and removed.
type ImportResult struct {
	Companies int
	Jobs      int
	Pruned    int64
}

// Import makes the tables hold exactly the plan, in one transaction: every
// planned job is upserted with its load order and flags, and jobs absent
// from the plan are deleted.
func (db *DB) Import(ctx context.Context, plan ImportPlan) (ImportResult, error) {
	tx, err := db.connection.BeginTx(ctx, nil)
	if err != nil {
		return ImportResult{}, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, c := range plan.Companies {
		if err := db.UpsertCompany(ctx, tx, c); err != nil {
			return ImportResult{}, fmt.Errorf("upsert company %s: %w", c.ID, err)
		}
	}

	rows := jobRows(plan)
	for _, row := range rows {
		if err := db.UpsertJob(ctx, tx, row); err != nil {
			return ImportResult{}, fmt.Errorf("upsert job %s: %w", row.Summary.ID, err)
		}
	}

	pruned, err := db.PruneJobs(ctx, tx, rowIDs(rows))
	if err != nil {
		return ImportResult{}, fmt.Errorf("prune jobs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("commit import: %w", err)
	}
	return ImportResult{Companies: len(plan.Companies), Jobs: len(rows), Pruned: pruned}, nil
}
