// AngelaMos | 2026
// entity.go

package entry

import (
	"crypto/rand"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Entry is a contact record. The struct doubles as the persisted JSON
// value and the wire shape, so field tags are the public contract.
// Dates are kept as the strings they were written with; DateModified
// stays empty until the first update.
type Entry struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	Address      string `json:"address"`
	DateAdded    string `json:"dateAdded"`
	DateModified string `json:"dateModified,omitempty"`
	UserID       string `json:"userId"`
}

// NewEntryID builds an entry id from the current unix-millisecond
// timestamp and a short random suffix.
func NewEntryID() string {
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)

	var suffix [4]byte
	if _, err := rand.Read(suffix[:]); err != nil {
		return millis
	}

	return millis + "-" + hex.EncodeToString(suffix[:])
}

// ValidID reports whether a client-supplied id is usable as a storage
// key segment. Keys embed the id after a colon separator, so ids are
// restricted to a conservative character set.
func ValidID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}

	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}

	return true
}

// NormalizeMobile strips every non-digit rune from raw input.
func NormalizeMobile(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// SortNewestFirst orders entries by dateAdded descending with id
// descending as the tiebreak, so repeated fetches render identically.
// Entries whose dateAdded does not parse sort after all dated ones.
func SortNewestFirst(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		ti, iok := parseEntryDate(entries[i].DateAdded)
		tj, jok := parseEntryDate(entries[j].DateAdded)

		switch {
		case iok && jok && !ti.Equal(tj):
			return ti.After(tj)
		case iok != jok:
			return iok
		default:
			return entries[i].ID > entries[j].ID
		}
	})
}
