package launcher

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortField selects the comparator used by FilterSort.
type SortField int

const (
	// SortByCatalog keeps catalog order in both directions.
	SortByCatalog SortField = iota
	SortByName
	SortByAuthor
	SortByVersion
	SortByLastUsed
	SortByUsageCount
	SortByPerformance
)

var sortFieldNames = []string{"catalog", "name", "author", "version", "last_used", "usage_count", "performance"}

func (f SortField) String() string {
	if int(f) >= 0 && int(f) < len(sortFieldNames) {
		return sortFieldNames[f]
	}
	return "unknown"
}

// Next cycles through the sort fields.
func (f SortField) Next() SortField {
	return SortField((int(f) + 1) % len(sortFieldNames))
}

// ParseSortField accepts the names printed by String.
func ParseSortField(s string) (SortField, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch norm {
	case "", "catalog", "none":
		return SortByCatalog, nil
	case "lastused", "last_used":
		return SortByLastUsed, nil
	case "usage", "usagecount", "usage_count":
		return SortByUsageCount, nil
	case "score", "performance", "performancescore", "performance_score":
		return SortByPerformance, nil
	}
	for i, n := range sortFieldNames {
		if n == norm {
			return SortField(i), nil
		}
	}
	return SortByCatalog, fmt.Errorf("unknown sort field %q", s)
}

// Query is the filter and sort configuration applied to the display list.
type Query struct {
	Search        string
	Tags          []string
	Capabilities  []string
	FavoritesOnly bool
	SortBy        SortField
	Ascending     bool
}

// Active reports whether any filter clause is in effect.
func (q Query) Active() bool {
	return q.Search != "" || len(q.Tags) > 0 || len(q.Capabilities) > 0 || q.FavoritesOnly
}

// FilterSort returns the indices of the records matching q, ordered by q's
// sort field. records itself is never reordered. The sort is stable so ties
// keep catalog order in either direction.
func FilterSort(records []*DisplayRecord, q Query) []int {
	needle := strings.ToLower(q.Search)
	idx := make([]int, 0, len(records))
	for i, r := range records {
		if matches(r, needle, q) {
			idx = append(idx, i)
		}
	}

	compare := comparator(q.SortBy)
	slices.SortStableFunc(idx, func(a, b int) int {
		if q.Ascending {
			return compare(records[a], records[b])
		}
		return compare(records[b], records[a])
	})
	return idx
}

func matches(r *DisplayRecord, needle string, q Query) bool {
	a := r.Agent
	if needle != "" &&
		!strings.Contains(strings.ToLower(a.Name), needle) &&
		!strings.Contains(strings.ToLower(a.Description), needle) &&
		!strings.Contains(strings.ToLower(a.Author), needle) {
		return false
	}
	for _, tag := range q.Tags {
		if !a.HasTag(tag) {
			return false
		}
	}
	for _, c := range q.Capabilities {
		if !a.HasCapability(c) {
			return false
		}
	}
	return !q.FavoritesOnly || r.IsFavorite
}

func comparator(f SortField) func(a, b *DisplayRecord) int {
	switch f {
	case SortByAuthor:
		return func(a, b *DisplayRecord) int { return strings.Compare(a.Agent.Author, b.Agent.Author) }
	case SortByVersion:
		return func(a, b *DisplayRecord) int { return strings.Compare(a.Agent.Version, b.Agent.Version) }
	case SortByLastUsed:
		return func(a, b *DisplayRecord) int { return cmp.Compare(lastUsedNanos(a), lastUsedNanos(b)) }
	case SortByUsageCount:
		return func(a, b *DisplayRecord) int { return cmp.Compare(a.UsageCount, b.UsageCount) }
	case SortByPerformance:
		return func(a, b *DisplayRecord) int { return cmp.Compare(a.PerformanceScore, b.PerformanceScore) }
	case SortByName:
		return func(a, b *DisplayRecord) int { return strings.Compare(a.Agent.Name, b.Agent.Name) }
	default:
		return func(a, b *DisplayRecord) int { return 0 }
	}
}

func lastUsedNanos(d *DisplayRecord) int64 {
	if d.LastUsed == nil {
		return 0
	}
	return d.LastUsed.UnixNano()
}
