package excel

// RawRowData represents a row of raw Excel data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents the complete Excel dataset
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Records returns the rows as plain maps keyed by header
func (d *ExcelData) Records() []map[string]string {
	records := make([]map[string]string, len(d.Rows))
	for i, row := range d.Rows {
		records[i] = row
	}
	return records
}
