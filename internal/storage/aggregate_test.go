package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisits_NoDoubleCounting(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	// One url with visit_count 5 and three visit rows: the domain total
	// must reflect the count once, not three times.
	seedURL(t, store, 1, "https://example.com/a", "", 5, 0)
	seedVisit(t, store, 1, 1, 1700000000)
	seedVisit(t, store, 2, 1, 1700000100)
	seedVisit(t, store, 3, 1, 1700000200)

	domains, total, err := store.Visits(ctx, VisitQuery{})
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, "example.com", domains[0].Domain)
	assert.Equal(t, int64(5), domains[0].Count)
	assert.Equal(t, int64(5), total)
}

func TestVisits_GroupsByStemmedDomain(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedURL(t, store, 1, "https://www.example.com/a", "", 2, 0)
	seedURL(t, store, 2, "https://example.com/b", "", 3, 0)
	seedURL(t, store, 3, "https://other.org/", "", 1, 0)
	seedVisit(t, store, 1, 1, 1700000000)
	seedVisit(t, store, 2, 2, 1700000100)
	seedVisit(t, store, 3, 3, 1700000200)

	domains, total, err := store.Visits(ctx, VisitQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	require.Len(t, domains, 2)

	// Descending by count: example.com (5) before other.org (1).
	assert.Equal(t, "example.com", domains[0].Domain)
	assert.Equal(t, int64(5), domains[0].Count)
	assert.InDelta(t, 83.33, domains[0].Percent, 0.01)
	assert.Equal(t, "other.org", domains[1].Domain)
	assert.InDelta(t, 16.67, domains[1].Percent, 0.01)
}

func TestVisits_TopAndBottomN(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	counts := map[string]int64{"a.com": 10, "b.com": 5, "c.com": 1}
	id := int64(1)
	for domain, count := range counts {
		seedURL(t, store, id, "https://"+domain+"/", "", count, 0)
		seedVisit(t, store, id, id, 1700000000)
		id++
	}

	top, _, err := store.Visits(ctx, VisitQuery{Limit: 1})
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "a.com", top[0].Domain)

	bottom, _, err := store.Visits(ctx, VisitQuery{Limit: 1, Ascending: true})
	require.NoError(t, err)
	require.Len(t, bottom, 1)
	assert.Equal(t, "c.com", bottom[0].Domain)
}

func TestVisits_DateRangeFilter(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	inside := day.Add(12 * time.Hour)
	outside := day.AddDate(0, 0, 3)

	seedURL(t, store, 1, "https://in.example.com/", "", 1, 0)
	seedURL(t, store, 2, "https://out.example.com/", "", 1, 0)
	seedVisit(t, store, 1, 1, float64(inside.Unix()))
	seedVisit(t, store, 2, 2, float64(outside.Unix()))

	domains, _, err := store.Visits(ctx, VisitQuery{Start: day, End: day.AddDate(0, 0, 1)})
	require.NoError(t, err)
	require.Len(t, domains, 1)
	assert.Equal(t, "in.example.com", domains[0].Domain)
}

func TestSelectDomains(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedURL(t, store, 1, "https://www.example.com/a", "", 2, 0)
	seedURL(t, store, 2, "https://example.com/b", "", 3, 0)
	seedURL(t, store, 3, "https://other.org/", "", 7, 0)

	byName, err := store.SelectDomains(ctx, SortDomains, "", true)
	require.NoError(t, err)
	require.Len(t, byName, 2)
	assert.Equal(t, "example.com", byName[0].Domain)
	assert.ElementsMatch(t, []int64{1, 2}, byName[0].IDs)
	assert.Equal(t, int64(5), byName[0].Count)
	assert.Equal(t, "other.org", byName[1].Domain)

	byCount, err := store.SelectDomains(ctx, SortFrequency, "", true)
	require.NoError(t, err)
	assert.Equal(t, "other.org", byCount[0].Domain)
}

func TestSelectDomains_SubstringFilterAndRaw(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedURL(t, store, 1, "https://example.com/news", "", 1, 0)
	seedURL(t, store, 2, "https://example.com/mail", "", 1, 0)

	filtered, err := store.SelectDomains(ctx, SortDomains, "news", true)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, []int64{1}, filtered[0].IDs)

	raw, err := store.SelectDomains(ctx, SortDomains, "", false)
	require.NoError(t, err)
	assert.Len(t, raw, 2, "raw grouping keeps urls distinct")
}

func TestEntries_SortOrders(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedURL(t, store, 1, "https://a.example.com/", "", 1, 0)
	seedURL(t, store, 2, "https://b.example.com/", "", 9, 0)
	seedVisit(t, store, 1, 1, 1700000200)
	seedVisit(t, store, 2, 2, 1700000100)

	byDate, err := store.Entries(ctx, SortDate, "")
	require.NoError(t, err)
	require.Len(t, byDate, 2)
	assert.Equal(t, int64(1), byDate[0].URLID, "newest first")
	assert.NotEmpty(t, byDate[0].Date)

	byDomain, err := store.Entries(ctx, SortDomains, "")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example.com/", byDomain[0].URL)

	byFreq, err := store.Entries(ctx, SortFrequency, "")
	require.NoError(t, err)
	assert.Equal(t, int64(9), byFreq[0].VisitCount)
}

// A url with a percent-encoded query term yields the decoded term with
// occurrence count 1 and the stemmed domain it occurred on.
func TestSearchTerms_DecodesTerm(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedURL(t, store, 1, "https://search.example.com/?q=hello+world", "", 1, 0)

	terms, err := store.SearchTerms(ctx, SortKeywords, "")
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "hello world", terms[0].Term)
	assert.Equal(t, 1, terms[0].Count)
	assert.Equal(t, []int64{1}, terms[0].IDs)
	assert.Equal(t, []string{"search.example.com"}, terms[0].Domains)
}

func TestSearchTerms_AggregatesAcrossDomains(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	seedURL(t, store, 1, "https://search.example.com/?q=golang", "", 1, 0)
	seedURL(t, store, 2, "https://other.org/results?search=golang", "", 1, 0)
	seedURL(t, store, 3, "https://plain.example.com/no-query-here", "", 1, 0)

	terms, err := store.SearchTerms(ctx, SortFrequency, "")
	require.NoError(t, err)
	require.Len(t, terms, 1)
	assert.Equal(t, "golang", terms[0].Term)
	assert.Equal(t, 2, terms[0].Count)
	assert.ElementsMatch(t, []int64{1, 2}, terms[0].IDs)
	assert.ElementsMatch(t, []string{"search.example.com", "other.org"}, terms[0].Domains)
}
