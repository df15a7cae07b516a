package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyIDFor_IsStable(t *testing.T) {
	assert.Equal(t, CompanyIDFor("Initech"), CompanyIDFor("  initech "))
	assert.NotEqual(t, CompanyIDFor("Initech"), CompanyIDFor("Initrode"))
	assert.Len(t, CompanyIDFor("Initech"), 36)
}

func TestPlanImport(t *testing.T) {
	globex := Company{ID: "c1", Name: "Globex"}
	nameOnly := Company{Name: "Nobody Inc"}

	a := summary("a")
	a.Company = globex
	b := summary("b")
	b.Company = nameOnly
	c := JobDetail{JobSummary: summary("c")}
	c.Company = nameOnly

	plan := PlanImport(NewSnapshot("test", []JobSummary{a, b}, []JobDetail{c}))

	require.Len(t, plan.Companies, 2)
	assert.Equal(t, globex, plan.Companies[0])
	assert.Equal(t, CompanyIDFor("Nobody Inc"), plan.Companies[1].ID)
	assert.Equal(t, "Nobody Inc", plan.Companies[1].Name)

	require.Len(t, plan.Listings, 2)
	assert.Equal(t, []string{"a", "b"}, []string{plan.Listings[0].ID, plan.Listings[1].ID})
	assert.Equal(t, plan.Companies[1].ID, plan.Listings[1].Company.ID)

	require.Len(t, plan.Details, 1)
	assert.Equal(t, plan.Companies[1].ID, plan.Details[0].Company.ID)

	// Planning twice yields the same ids.
	again := PlanImport(NewSnapshot("test", []JobSummary{a, b}, []JobDetail{c}))
	assert.Equal(t, plan, again)
}

func detailFor(id string) JobDetail {
	return JobDetail{JobSummary: summary(id), Description: "about " + id}
}

func TestJobRows_MergesByIDInLoadOrder(t *testing.T) {
	plan := ImportPlan{
		Listings: []JobSummary{summary("b"), summary("a"), summary("c")},
		Details:  []JobDetail{detailFor("x"), detailFor("a"), detailFor("y")},
	}

	rows := jobRows(plan)

	require.Len(t, rows, 5)
	var got []string
	for i, row := range rows {
		assert.Equal(t, i, row.Order, "orders are dense and unique")
		got = append(got, row.Summary.ID)
	}
	assert.Equal(t, []string{"b", "a", "c", "x", "y"}, got)

	// Listed with a detail.
	assert.True(t, rows[1].Listed)
	require.NotNil(t, rows[1].Detail)
	assert.Equal(t, "about a", rows[1].Detail.Description)
	// Listed without a detail.
	assert.True(t, rows[0].Listed)
	assert.Nil(t, rows[0].Detail)
	// Detail-only rows are unlisted and come after every listing.
	assert.False(t, rows[3].Listed)
	require.NotNil(t, rows[3].Detail)
	assert.Equal(t, "x", rows[3].Detail.ID)
}

func TestJobRows_ReorderedDataGetsFreshOrders(t *testing.T) {
	before := jobRows(ImportPlan{Listings: []JobSummary{summary("a"), summary("b"), summary("c")}})
	after := jobRows(ImportPlan{Listings: []JobSummary{summary("c"), summary("a")}})

	assert.Equal(t, "a", before[0].Summary.ID)
	require.Len(t, after, 2)
	assert.Equal(t, "c", after[0].Summary.ID)
	assert.Equal(t, 0, after[0].Order)
	assert.Equal(t, "a", after[1].Summary.ID)
	assert.Equal(t, 1, after[1].Order)
	// "b" is not kept, so the import deletes its row.
	assert.Equal(t, []string{"a", "b", "c"}, rowIDs(before))
	assert.Equal(t, []string{"c", "a"}, rowIDs(after))
	assert.Empty(t, rowIDs(jobRows(ImportPlan{})))
}

func TestJobRows_DetailIsDroppedFromListingWhenRemoved(t *testing.T) {
	withDetail := jobRows(ImportPlan{
		Listings: []JobSummary{summary("a")},
		Details:  []JobDetail{detailFor("a")},
	})
	withoutDetail := jobRows(ImportPlan{Listings: []JobSummary{summary("a")}})

	require.NotNil(t, withDetail[0].Detail)
	assert.Nil(t, withoutDetail[0].Detail)
	assert.True(t, withoutDetail[0].Listed)
}

func TestJobRows_FirstDuplicateWins(t *testing.T) {
	second := summary("a")
	second.Title = "later"
	first := detailFor("a")
	again := detailFor("a")
	again.Description = "later"

	rows := jobRows(ImportPlan{
		Listings: []JobSummary{summary("a"), second},
		Details:  []JobDetail{first, again},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, "Role a", rows[0].Summary.Title)
	assert.Equal(t, "about a", rows[0].Detail.Description)
}
