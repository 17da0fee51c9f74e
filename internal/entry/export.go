// AngelaMos | 2026
// export.go

package entry

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const csvHeader = "Name,Mobile No,Address,Date Added"

// WriteCSV serializes entries in the export format. Name and address
// are always quoted with embedded quotes doubled, mobile stays bare
// (persisted mobiles are digits only), and dates render as M/D/YYYY
// without leading zeros. Rows end with CRLF per RFC 4180.
func WriteCSV(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(csvHeader + "\r\n"); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, e := range entries {
		row := quoteCSV(e.Name) + "," +
			e.Mobile + "," +
			quoteCSV(e.Address) + "," +
			exportDate(e.DateAdded)

		if _, err := bw.WriteString(row + "\r\n"); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return nil
}

// ExportCSV renders entries as an in-memory CSV document.
func ExportCSV(entries []Entry) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes cannot fail
	_ = WriteCSV(&buf, entries)
	return buf.Bytes()
}

// ExportFilename returns the attachment name for an export taken at t.
func ExportFilename(t time.Time) string {
	return "entries-" + t.Format(time.DateOnly) + ".csv"
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// exportDate renders 2024-01-01 as 1/1/2024. DateAdded is validated at
// create time, so the raw passthrough only triggers for records written
// outside the API.
func exportDate(dateAdded string) string {
	t, ok := parseEntryDate(dateAdded)
	if !ok {
		return dateAdded
	}

	return strconv.Itoa(int(t.Month())) + "/" +
		strconv.Itoa(t.Day()) + "/" +
		strconv.Itoa(t.Year())
}
