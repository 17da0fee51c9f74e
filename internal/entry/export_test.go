// AngelaMos | 2026
// export_test.go

package entry

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	t.Run("empty set is header only", func(t *testing.T) {
		got := ExportCSV(nil)
		assert.Equal(t, "Name,Mobile No,Address,Date Added\r\n", string(got))
	})

	t.Run("quotes name and address, leaves mobile bare", func(t *testing.T) {
		entries := []Entry{{
			Name:      `A "B"`,
			Mobile:    "5551234567",
			Address:   "1 Main St",
			DateAdded: "2024-01-01",
		}}

		want := "Name,Mobile No,Address,Date Added\r\n" +
			`"A ""B""",5551234567,"1 Main St",1/1/2024` + "\r\n"
		assert.Equal(t, want, string(ExportCSV(entries)))
	})

	t.Run("commas survive inside quoted fields", func(t *testing.T) {
		entries := []Entry{{
			Name:      "Doe, John",
			Mobile:    "15550001111",
			Address:   "Flat 2, 9 Kings Rd",
			DateAdded: "2024-11-30T08:15:00Z",
		}}

		want := "Name,Mobile No,Address,Date Added\r\n" +
			`"Doe, John",15550001111,"Flat 2, 9 Kings Rd",11/30/2024` + "\r\n"
		assert.Equal(t, want, string(ExportCSV(entries)))
	})

	t.Run("dates render without leading zeros", func(t *testing.T) {
		entries := []Entry{
			{Name: "A", Mobile: "5550000001", Address: "1 St", DateAdded: "2024-03-07T12:00:00Z"},
			{Name: "B", Mobile: "5550000002", Address: "2 St", DateAdded: "2023-12-09"},
		}

		want := "Name,Mobile No,Address,Date Added\r\n" +
			`"A",5550000001,"1 St",3/7/2024` + "\r\n" +
			`"B",5550000002,"2 St",12/9/2023` + "\r\n"
		assert.Equal(t, want, string(ExportCSV(entries)))
	})

	t.Run("row order follows input order", func(t *testing.T) {
		entries := []Entry{
			{Name: "First", Mobile: "5550000001", Address: "1 St", DateAdded: "2024-01-02"},
			{Name: "Second", Mobile: "5550000002", Address: "2 St", DateAdded: "2024-01-01"},
		}

		got := string(ExportCSV(entries))
		first := `"First",5550000001,"1 St",1/2/2024`
		second := `"Second",5550000002,"2 St",1/1/2024`
		require.Contains(t, got, first)
		require.Contains(t, got, second)
		assert.Less(
			t,
			bytes.Index([]byte(got), []byte(first)),
			bytes.Index([]byte(got), []byte(second)),
		)
	})

	t.Run("unparseable date passes through raw", func(t *testing.T) {
		entries := []Entry{{
			Name:      "Legacy",
			Mobile:    "5550000003",
			Address:   "3 St",
			DateAdded: "unset",
		}}

		want := "Name,Mobile No,Address,Date Added\r\n" +
			`"Legacy",5550000003,"3 St",unset` + "\r\n"
		assert.Equal(t, want, string(ExportCSV(entries)))
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	err := WriteCSV(&buf, []Entry{{
		Name:      "Ana",
		Mobile:    "5559998888",
		Address:   "7 Hill Rd",
		DateAdded: "2024-06-05T09:00:00Z",
	}})
	require.NoError(t, err)

	assert.Equal(
		t,
		"Name,Mobile No,Address,Date Added\r\n"+
			`"Ana",5559998888,"7 Hill Rd",6/5/2024`+"\r\n",
		buf.String(),
	)
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2024, time.March, 7, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "entries-2024-03-07.csv", ExportFilename(ts))
}
