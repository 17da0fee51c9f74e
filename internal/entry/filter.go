// AngelaMos | 2026
// filter.go

package entry

import (
	"strings"
	"time"
)

// Filter narrows a fetched entry set. The zero value is the identity
// filter: a blank term and zero time bounds leave the set untouched.
type Filter struct {
	Term string
	From time.Time
	To   time.Time
}

// ApplyFilter runs f's predicates as a logical AND over entries. The
// input slice is never mutated; callers re-run from the base set when
// filter parameters change.
func ApplyFilter(entries []Entry, f Filter) []Entry {
	entries = FilterText(entries, f.Term)
	entries = FilterDateRange(entries, f.From, f.To)
	return entries
}

// FilterText keeps entries whose name, mobile or address contains term,
// compared case-insensitively. Mobile is matched as stored. A blank
// term returns the input unchanged.
func FilterText(entries []Entry, term string) []Entry {
	term = strings.TrimSpace(term)
	if term == "" {
		return entries
	}

	needle := strings.ToLower(term)

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if containsFold(e.Name, needle) ||
			containsFold(e.Mobile, needle) ||
			containsFold(e.Address, needle) {
			out = append(out, e)
		}
	}

	return out
}

// FilterDateRange keeps entries whose dateAdded falls within the
// inclusive calendar-date bounds. A zero bound is unbounded on that
// side; with both bounds zero the input is returned unchanged. Entries
// whose dateAdded does not parse never match a bounded range.
func FilterDateRange(entries []Entry, from, to time.Time) []Entry {
	if from.IsZero() && to.IsZero() {
		return entries
	}

	var fromDay, toDay time.Time
	if !from.IsZero() {
		fromDay = calendarDate(from)
	}
	if !to.IsZero() {
		toDay = calendarDate(to)
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		added, ok := parseEntryDate(e.DateAdded)
		if !ok {
			continue
		}

		day := calendarDate(added)
		if !fromDay.IsZero() && day.Before(fromDay) {
			continue
		}
		if !toDay.IsZero() && day.After(toDay) {
			continue
		}

		out = append(out, e)
	}

	return out
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}

// parseEntryDate accepts the two date shapes entries carry: a full
// RFC 3339 timestamp or a bare calendar date.
func parseEntryDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}

	return time.Time{}, false
}

// calendarDate truncates t to midnight UTC of its calendar date so
// range comparisons work at day granularity.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
