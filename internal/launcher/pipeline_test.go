package launcher

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeanpaul/launchpad/internal/catalog"
	"github.com/jeanpaul/launchpad/internal/store"
)

func sampleAgents() []catalog.AgentRecord {
	return []catalog.AgentRecord{
		{Name: "reviewer", Description: "Reviews Go code", Author: "Ada", Version: "1.2.0",
			Tags: []string{"code", "review"}, Capabilities: []string{"read"}, State: catalog.StateLoaded},
		{Name: "scribe", Description: "Writes documentation", Author: "Grace", Version: "0.9.0",
			Tags: []string{"docs"}, Capabilities: []string{"read", "write"}, State: catalog.StateDiscovered},
		{Name: "Builder", Description: "Builds and ships", Author: "ada lovelace", Version: "2.0.0",
			Tags: []string{"code", "ci"}, Capabilities: []string{"read", "write", "exec"}, State: catalog.StateRunning},
		{Name: "tester", Description: "Runs test suites", Author: "Linus", Version: "1.2.0",
			Tags: []string{"code", "ci"}, Capabilities: []string{"exec"}, State: catalog.StateFailed},
	}
}

func sampleRecords(t *testing.T) []*DisplayRecord {
	t.Helper()
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	stats := map[string]*store.AgentStats{
		"reviewer": {TotalLaunches: 4, SuccessfulLaunches: 3, LastLaunch: &t2},
		"tester":   {TotalLaunches: 4, SuccessfulLaunches: 1, LastLaunch: &t1},
		"scribe":   {TotalLaunches: 1, SuccessfulLaunches: 1},
	}
	return Build(sampleAgents(), store.NewFavorites("scribe", "tester"), stats)
}

func names(records []*DisplayRecord, idx []int) []string {
	out := make([]string, len(idx))
	for i, j := range idx {
		out[i] = records[j].Agent.Name
	}
	return out
}

func TestFilterSort_EmptyQueryKeepsCatalogOrder(t *testing.T) {
	recs := sampleRecords(t)
	assert.Equal(t, []int{0, 1, 2, 3}, FilterSort(recs, Query{}))
	assert.Equal(t, []int{0, 1, 2, 3}, FilterSort(recs, Query{Ascending: true}))
}

func TestFilterSort_SearchIsSubsetAndCaseInsensitive(t *testing.T) {
	recs := sampleRecords(t)
	all := FilterSort(recs, Query{})

	for _, q := range []string{"ada", "CODE", "writes", "b", "zzz"} {
		got := FilterSort(recs, Query{Search: q})
		for _, i := range got {
			assert.Contains(t, all, i)
			a := recs[i].Agent
			hay := strings.ToLower(a.Name + "\x00" + a.Description + "\x00" + a.Author)
			assert.Contains(t, hay, strings.ToLower(q), "query %q matched %s", q, a.Name)
		}
	}

	assert.Equal(t, []string{"reviewer", "Builder"}, names(recs, FilterSort(recs, Query{Search: "ADA"})))
	assert.Empty(t, FilterSort(recs, Query{Search: "zzz"}))
}

func TestFilterSort_TagsAndCapabilitiesAreConjunctive(t *testing.T) {
	recs := sampleRecords(t)

	assert.Equal(t, []string{"reviewer", "Builder", "tester"}, names(recs, FilterSort(recs, Query{Tags: []string{"code"}})))
	assert.Equal(t, []string{"Builder", "tester"}, names(recs, FilterSort(recs, Query{Tags: []string{"code", "ci"}})))
	assert.Equal(t, []string{"scribe", "Builder"}, names(recs, FilterSort(recs, Query{Capabilities: []string{"read", "write"}})))
	assert.Equal(t, []string{"Builder"}, names(recs, FilterSort(recs, Query{Tags: []string{"ci"}, Capabilities: []string{"write"}})))
}

func TestFilterSort_FavoritesOnly(t *testing.T) {
	recs := sampleRecords(t)
	assert.Equal(t, []string{"scribe", "tester"}, names(recs, FilterSort(recs, Query{FavoritesOnly: true})))
	assert.Equal(t, []string{"tester"}, names(recs, FilterSort(recs, Query{FavoritesOnly: true, Tags: []string{"ci"}})))
}

func TestFilterSort_SortFields(t *testing.T) {
	recs := sampleRecords(t)
	tests := []struct {
		field SortField
		want  []string
	}{
		// Byte order puts upper case first.
		{SortByName, []string{"Builder", "reviewer", "scribe", "tester"}},
		{SortByAuthor, []string{"Ada", "Grace", "Linus", "ada lovelace"}},
		// reviewer and tester tie on 1.2.0 and keep catalog order.
		{SortByVersion, []string{"scribe", "reviewer", "tester", "Builder"}},
		// Builder has never been used and sorts as zero.
		{SortByLastUsed, []string{"scribe", "Builder", "tester", "reviewer"}},
		{SortByUsageCount, []string{"Builder", "scribe", "reviewer", "tester"}},
		{SortByPerformance, []string{"Builder", "tester", "reviewer", "scribe"}},
	}
	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			got := names(recs, FilterSort(recs, Query{SortBy: tt.field, Ascending: true}))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterSort_DescendingReversesAbsentTies(t *testing.T) {
	recs := sampleRecords(t)
	for _, f := range []SortField{SortByName, SortByAuthor, SortByPerformance} {
		asc := FilterSort(recs, Query{SortBy: f, Ascending: true})
		desc := FilterSort(recs, Query{SortBy: f, Ascending: false})
		rev := slices.Clone(asc)
		slices.Reverse(rev)
		assert.Equal(t, rev, desc, f.String())
	}
}

func TestFilterSort_StableOnTies(t *testing.T) {
	recs := sampleRecords(t)
	// reviewer and tester tie on usage count (4) in both directions.
	asc := names(recs, FilterSort(recs, Query{SortBy: SortByUsageCount, Ascending: true}))
	desc := names(recs, FilterSort(recs, Query{SortBy: SortByUsageCount, Ascending: false}))
	assert.Equal(t, []string{"reviewer", "tester"}, asc[2:])
	assert.Equal(t, []string{"reviewer", "tester"}, desc[:2])

	once := FilterSort(recs, Query{SortBy: SortByVersion, Ascending: true})
	sorted := make([]*DisplayRecord, len(once))
	for i, j := range once {
		sorted[i] = recs[j]
	}
	again := FilterSort(sorted, Query{SortBy: SortByVersion, Ascending: true})
	assert.Equal(t, []int{0, 1, 2, 3}, again)
}

func TestFilterSort_DoesNotReorderInput(t *testing.T) {
	recs := sampleRecords(t)
	before := slices.Clone(recs)
	FilterSort(recs, Query{SortBy: SortByName, Ascending: true})
	assert.Equal(t, before, recs)
}

func TestParseSortField(t *testing.T) {
	for _, f := range []SortField{SortByCatalog, SortByName, SortByAuthor, SortByVersion, SortByLastUsed, SortByUsageCount, SortByPerformance} {
		got, err := ParseSortField(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	got, err := ParseSortField("usage-count")
	require.NoError(t, err)
	assert.Equal(t, SortByUsageCount, got)

	_, err = ParseSortField("colour")
	assert.Error(t, err)
	assert.Equal(t, SortByCatalog, SortByPerformance.Next())
}
