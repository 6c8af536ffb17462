package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cutoffrank/internal"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// Format is the encoding of a tabular source
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat picks the format from the source name, falling back to the
// content type and finally to xlsx
func DetectFormat(name, contentType string) Format {
	name = strings.ToLower(name)
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	}
	if strings.HasPrefix(strings.ToLower(contentType), "text/csv") {
		return FormatCSV
	}
	return FormatXLSX
}

// DataReader handles reading Excel and CSV content
type DataReader struct {
	format Format
	sheet  string // empty means the first sheet
}

// NewDataReader creates a reader for one format. sheet only applies to xlsx.
func NewDataReader(format Format, sheet string) *DataReader {
	return &DataReader{format: format, sheet: sheet}
}

// ReadData reads tabular content into structured format
func (r *DataReader) ReadData(content []byte) (*ExcelData, error) {
	internal.DefaultLogger.Debug("[DataReader] Starting to read %s content (%d bytes)", r.format, len(content))

	switch r.format {
	case FormatCSV:
		return r.readCSVData(content)
	case FormatXLSX:
		return r.readExcelData(content)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.format)
	}
}

// readExcelData reads the configured sheet of a workbook
func (r *DataReader) readExcelData(content []byte) (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel file has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	internal.DefaultLogger.Debug("[DataReader] Sheet %q read in %.2fms (%d rows)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData(content []byte) (*ExcelData, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV file: %w", err)
		}
		rows = append(rows, record)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}

	return r.processRows(rows)
}

// cleanCell trims surrounding whitespace and composes the text to NFC, so
// names typed with combining marks match their precomposed spelling
func cleanCell(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = cleanCell(header)
	}

	var dataRows []RawRowData
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowData := make(RawRowData)
		blank := true

		for j, cell := range row {
			if j < len(headers) && headers[j] != "" {
				value := cleanCell(cell)
				rowData[headers[j]] = value
				if value != "" {
					blank = false
				}
			}
		}

		if !blank {
			dataRows = append(dataRows, rowData)
		}
	}

	if len(dataRows) == 0 {
		return nil, fmt.Errorf("%s file has a header row but no data", strings.ToUpper(string(r.format)))
	}

	internal.DefaultLogger.Debug("[DataReader] %s content processed (%d columns, %d rows)",
		strings.ToUpper(string(r.format)), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}
