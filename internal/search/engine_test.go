package search

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"job-listings/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var posted = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func job(id, title, company, location string) storage.JobSummary {
	return storage.JobSummary{
		ID:           id,
		Title:        title,
		Company:      storage.Company{ID: "c-" + company, Name: company},
		Location:     location,
		Type:         storage.JobTypeFullTime,
		RemoteOption: storage.RemoteHybrid,
		PostedAt:     posted,
	}
}

func numbered(n int) []storage.JobSummary {
	jobs := make([]storage.JobSummary, n)
	for i := range jobs {
		jobs[i] = job(fmt.Sprintf("job-%02d", i), fmt.Sprintf("Role %d", i), "Acme", "Berlin")
	}
	return jobs
}

func newTestEngine(summaries []storage.JobSummary, details ...storage.JobDetail) *Engine {
	store := storage.NewStore(storage.NewSnapshot("test", summaries, details))
	return NewEngine(store)
}

func sampleJobs() []storage.JobSummary {
	return []storage.JobSummary{
		job("1", "Senior Engineer", "Globex", "Berlin, Germany"),
		job("2", "Product Designer", "Initech", "Remote - Europe"),
		job("3", "Data Analyst", "Engage Labs", "London, UK"),
		job("4", "Backend Engineer", "Umbrella", "Berlin, Germany"),
		job("5", "Office Manager", "Hooli", "Paris, France"),
	}
}

func ids(jobs []storage.JobSummary) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestSearch_NoFiltersReturnsEverythingInLoadOrder(t *testing.T) {
	engine := newTestEngine(sampleJobs())

	result, err := engine.Search(Query{})

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(result.Jobs))
	assert.Equal(t, Pagination{Total: 5, Page: 1, Limit: 10, TotalPages: 1}, result.Pagination)
}

func TestSearch_TextFilterIsCaseInsensitiveSubstring(t *testing.T) {
	engine := newTestEngine(sampleJobs())

	for _, term := range []string{"senior", "ENGINEER", "eng"} {
		t.Run(term, func(t *testing.T) {
			result, err := engine.Search(Query{Q: term})
			require.NoError(t, err)
			assert.Contains(t, ids(result.Jobs), "1")
		})
	}
}

func TestSearch_TextFilterMatchesTitleCompanyOrLocation(t *testing.T) {
	engine := newTestEngine(sampleJobs())

	// "eng" hits two titles, one company name ("Engage Labs") and no locations.
	result, err := engine.Search(Query{Q: "eng"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "4"}, ids(result.Jobs))

	result, err = engine.Search(Query{Q: "paris"})
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, ids(result.Jobs))

	result, err = engine.Search(Query{Q: "hooli"})
	require.NoError(t, err)
	assert.Equal(t, []string{"5"}, ids(result.Jobs))
}

func TestSearch_LocationFilterOnlyLooksAtLocation(t *testing.T) {
	engine := newTestEngine(sampleJobs())

	result, err := engine.Search(Query{Location: "BERLIN"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, ids(result.Jobs))

	// "Engineer" is in titles, never in a location.
	_, err = engine.Search(Query{Location: "engineer"})
	assert.ErrorIs(t, err, ErrNoJobs)
}

func TestSearch_FiltersAreIntersected(t *testing.T) {
	engine := newTestEngine(sampleJobs())

	result, err := engine.Search(Query{Q: "engineer", Location: "berlin"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, ids(result.Jobs))

	_, err = engine.Search(Query{Q: "designer", Location: "berlin"})
	assert.ErrorIs(t, err, ErrNoJobs)
}

func TestSearch_BlankFiltersAreIgnored(t *testing.T) {
	engine := newTestEngine(sampleJobs())

	result, err := engine.Search(Query{Q: "", Location: "   "})
	require.NoError(t, err)
	assert.Equal(t, 5, result.Pagination.Total)
}

func TestSearch_TenRecordsFivePerPage(t *testing.T) {
	all := numbered(10)
	engine := newTestEngine(all)

	page1, err := engine.Search(Query{Page: 1, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, ids(all[0:5]), ids(page1.Jobs))
	assert.Equal(t, Pagination{Total: 10, Page: 1, Limit: 5, TotalPages: 2}, page1.Pagination)

	page2, err := engine.Search(Query{Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, ids(all[5:10]), ids(page2.Jobs))

	_, err = engine.Search(Query{Page: 3, Limit: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
	assert.EqualError(t, err, "Page number exceeds available pages")
}

func TestSearch_PagesReconstructFilteredSequence(t *testing.T) {
	for _, n := range []int{1, 2, 7, 10, 23} {
		for _, limit := range []int{1, 3, 5, 10, 50} {
			t.Run(fmt.Sprintf("n=%d/limit=%d", n, limit), func(t *testing.T) {
				all := numbered(n)
				engine := newTestEngine(all)

				first, err := engine.Search(Query{Page: 1, Limit: limit})
				require.NoError(t, err)
				wantPages := (n + limit - 1) / limit
				assert.Equal(t, wantPages, first.Pagination.TotalPages)

				var joined []storage.JobSummary
				for p := 1; p <= first.Pagination.TotalPages; p++ {
					res, err := engine.Search(Query{Page: p, Limit: limit})
					require.NoError(t, err)
					assert.NotEmpty(t, res.Jobs)
					joined = append(joined, res.Jobs...)
				}
				assert.Equal(t, ids(all), ids(joined))

				_, err = engine.Search(Query{Page: wantPages + 1, Limit: limit})
				assert.ErrorIs(t, err, ErrPageOutOfRange)
			})
		}
	}
}

func TestSearch_EmptyResultIsNoJobsForAnyPage(t *testing.T) {
	engine := newTestEngine(sampleJobs())

	for _, page := range []int{1, 2, 99} {
		_, err := engine.Search(Query{Q: "astronaut", Page: page})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoJobs)
		assert.EqualError(t, err, "No jobs found")
	}
}

func TestSearch_EmptyCollection(t *testing.T) {
	engine := newTestEngine(nil)

	_, err := engine.Search(Query{})
	assert.ErrorIs(t, err, ErrNoJobs)

	_, err = engine.GetDetail("anything")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestSearch_NonPositivePageAndLimitAreNormalized(t *testing.T) {
	engine := newTestEngine(numbered(25))

	result, err := engine.Search(Query{Page: 0, Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, Pagination{Total: 25, Page: 1, Limit: DefaultLimit, TotalPages: 3}, result.Pagination)

	result, err = engine.Search(Query{Page: -4, Limit: -1})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pagination.Page)
	assert.Equal(t, DefaultLimit, result.Pagination.Limit)
}

func TestSearch_LargeLimitIsEchoed(t *testing.T) {
	all := numbered(150)
	engine := newTestEngine(all)

	result, err := engine.Search(Query{Page: 1, Limit: 200})
	require.NoError(t, err)
	assert.Len(t, result.Jobs, 150)
	assert.Equal(t, Pagination{Total: 150, Page: 1, Limit: 200, TotalPages: 1}, result.Pagination)

	result, err = engine.Search(Query{Page: 2, Limit: 101})
	require.NoError(t, err)
	assert.Equal(t, ids(all[101:]), ids(result.Jobs))
	assert.Equal(t, Pagination{Total: 150, Page: 2, Limit: 101, TotalPages: 2}, result.Pagination)
}

func TestSearch_DefaultLimitOption(t *testing.T) {
	engine := NewEngine(storage.NewStore(storage.NewSnapshot("test", numbered(5), nil)), WithDefaultLimit(2))

	result, err := engine.Search(Query{})
	require.NoError(t, err)
	assert.Equal(t, Pagination{Total: 5, Page: 1, Limit: 2, TotalPages: 3}, result.Pagination)

	result, err = engine.Search(Query{Limit: 4})
	require.NoError(t, err)
	assert.Len(t, result.Jobs, 4)

	ignored := NewEngine(storage.NewStore(storage.NewSnapshot("test", numbered(5), nil)), WithDefaultLimit(0))
	result, err = ignored.Search(Query{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, result.Pagination.Limit)
}

func TestSearch_DoesNotModifyStore(t *testing.T) {
	all := numbered(6)
	store := storage.NewStore(storage.NewSnapshot("test", all, nil))
	engine := NewEngine(store)

	result, err := engine.Search(Query{Limit: 2})
	require.NoError(t, err)
	// Appending to a page must not write into the backing collection.
	_ = append(result.Jobs, job("x", "Intruder", "X", "Y"))

	assert.Equal(t, ids(numbered(6)), ids(store.AllSummaries()))
}

func TestSearch_IsIdempotent(t *testing.T) {
	engine := newTestEngine(sampleJobs())
	q := Query{Q: "e", Location: "", Page: 1, Limit: 2}

	first, err1 := engine.Search(q)
	second, err2 := engine.Search(q)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestGetDetail(t *testing.T) {
	deadline := posted.Add(30 * 24 * time.Hour)
	detail := storage.JobDetail{
		JobSummary:          job("abc", "Senior Engineer", "Globex", "Berlin"),
		ExperienceLevel:     storage.ExperienceSenior,
		Salary:              &storage.Salary{Min: 70000, Max: 90000, Currency: "EUR", Period: "year"},
		Description:         "Build things.",
		Requirements:        []string{"Go"},
		Tags:                []string{"backend"},
		ApplicationDeadline: &deadline,
		Applicants:          12,
		Active:              true,
	}
	engine := newTestEngine(nil, detail)

	got, err := engine.GetDetail("abc")
	require.NoError(t, err)
	assert.Equal(t, detail, got)

	again, err := engine.GetDetail("abc")
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = engine.GetDetail("ABC")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Job not found")
}

func TestNotFoundErrorsShareParent(t *testing.T) {
	for _, err := range []error{ErrNoJobs, ErrPageOutOfRange, ErrJobNotFound} {
		assert.True(t, errors.Is(err, ErrNotFound), err.Error())
	}
	assert.False(t, errors.Is(ErrNoJobs, ErrPageOutOfRange))
}

func TestSearch_ConcurrentReadsDuringReplace(t *testing.T) {
	small := numbered(3)
	large := numbered(40)
	store := storage.NewStore(storage.NewSnapshot("a", small, nil))
	engine := NewEngine(store)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				res, err := engine.Search(Query{Limit: 100})
				if err != nil {
					t.Error(err)
					return
				}
				// Either generation, never a mix.
				if total := res.Pagination.Total; total != 3 && total != 40 {
					t.Errorf("observed partial collection of %d jobs", total)
					return
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		if i%2 == 0 {
			store.Replace(storage.NewSnapshot("b", large, nil))
		} else {
			store.Replace(storage.NewSnapshot("a", small, nil))
		}
	}
	close(stop)
	wg.Wait()
}
