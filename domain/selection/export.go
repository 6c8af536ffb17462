package selection

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// ExportHeader is the header row of an exported list
var ExportHeader = []string{"College", "Branch", "Cutoff"}

// ContentType of an exported list
const ContentType = "text/csv; charset=utf-8"

// WriteCSV writes entries, in the given order, as CSV
func WriteCSV(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.College, e.Branch, e.Cutoff.String()}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export renders the rank-sorted list as CSV. An empty list produces no
// artifact.
func (s *Session) Export() ([]byte, error) {
	sorted, err := s.Show()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sorted); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportFilename names a download after the day it was made
func ExportFilename(day time.Time) string {
	return fmt.Sprintf("selected_colleges_%s.csv", day.Format("2006-01-02"))
}
