// AngelaMos | 2026
// filter_test.go

package entry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func filterIDs(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterText(t *testing.T) {
	entries := []Entry{
		{ID: "1", Name: "John Smith", Mobile: "5551234567", Address: "12 Oak Lane"},
		{ID: "2", Name: "Jane Doe", Mobile: "5559876543", Address: "99 Elm St"},
		{ID: "3", Name: "Ana Gomez", Mobile: "15550001111", Address: "4 Smithfield Road"},
	}

	tests := []struct {
		name string
		term string
		want []string
	}{
		{name: "blank term is identity", term: "", want: []string{"1", "2", "3"}},
		{name: "whitespace term is identity", term: "   ", want: []string{"1", "2", "3"}},
		{name: "matches name case-insensitively", term: "SMITH", want: []string{"1", "3"}},
		{name: "matches stored mobile digits", term: "987", want: []string{"2"}},
		{name: "matches address", term: "oak", want: []string{"1"}},
		{name: "no hits", term: "zzz", want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterText(entries, tc.term)
			assert.Equal(t, tc.want, filterIDs(got))
		})
	}
}

func TestFilterDateRange(t *testing.T) {
	entries := []Entry{
		{ID: "jan1", DateAdded: "2024-01-01T09:30:00Z"},
		{ID: "jan31", DateAdded: "2024-01-31T23:59:59Z"},
		{ID: "feb1", DateAdded: "2024-02-01"},
		{ID: "bad", DateAdded: "not-a-date"},
	}

	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name     string
		from, to time.Time
		want     []string
	}{
		{
			name: "no bounds is identity",
			want: []string{"jan1", "jan31", "feb1", "bad"},
		},
		{
			name: "inclusive month window",
			from: day(2024, time.January, 1),
			to:   day(2024, time.January, 31),
			want: []string{"jan1", "jan31"},
		},
		{
			name: "from bound only",
			from: day(2024, time.February, 1),
			want: []string{"feb1"},
		},
		{
			name: "to bound only",
			to:   day(2024, time.January, 1),
			want: []string{"jan1"},
		},
		{
			name: "bound with time of day compares at day granularity",
			from: time.Date(2024, time.January, 31, 22, 0, 0, 0, time.UTC),
			to:   day(2024, time.January, 31),
			want: []string{"jan31"},
		},
		{
			name: "window before every entry",
			from: day(2020, time.January, 1),
			to:   day(2020, time.December, 31),
			want: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterDateRange(entries, tc.from, tc.to)
			assert.Equal(t, tc.want, filterIDs(got))
		})
	}
}

func TestApplyFilter(t *testing.T) {
	entries := []Entry{
		{ID: "smith-jan", Name: "John Smith", Mobile: "5551234567", Address: "1 Main St", DateAdded: "2024-01-10T00:00:00Z"},
		{ID: "smith-feb", Name: "Mary Smith", Mobile: "5552223333", Address: "2 Main St", DateAdded: "2024-02-10T00:00:00Z"},
		{ID: "doe-jan", Name: "Jane Doe", Mobile: "5554445555", Address: "3 Main St", DateAdded: "2024-01-15T00:00:00Z"},
	}

	t.Run("zero filter is identity", func(t *testing.T) {
		got := ApplyFilter(entries, Filter{})
		assert.Equal(t, []string{"smith-jan", "smith-feb", "doe-jan"}, filterIDs(got))
	})

	t.Run("predicates combine as AND", func(t *testing.T) {
		f := Filter{
			Term: "smith",
			From: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC),
		}

		got := ApplyFilter(entries, f)
		assert.Equal(t, []string{"smith-jan"}, filterIDs(got))
	})

	t.Run("input slice is never reordered or truncated", func(t *testing.T) {
		ApplyFilter(entries, Filter{Term: "smith"})
		assert.Equal(t, []string{"smith-jan", "smith-feb", "doe-jan"}, filterIDs(entries))
	})
}
