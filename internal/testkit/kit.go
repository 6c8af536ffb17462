// Package testkit provides cutoff table fixtures shared by package tests.
package testkit

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"cutoffrank/domain/cutoff"
	"cutoffrank/internal/config"

	"github.com/xuri/excelize/v2"
)

// Fixture college names
const (
	RVCE = "RV College of Engineering"
	BMS  = "BMS College of Engineering"
	PES  = "PES University"

	CSE  = "Computer Science"
	ECE  = "Electronics"
	MECH = "Mechanical"
)

// Headers mirrors the source workbook, including the stray whitespace and the
// lower-case "Branch code" header seen in the wild.
func Headers() []string {
	return []string{"College Code", " College Name ", "Branch", "Branch code", "Place", "1G", "GM ", "SCG"}
}

// Records returns the raw data rows matching Headers
func Records() [][]string {
	return [][]string{
		{"E001", RVCE, CSE, "CS", "Bengaluru", "450", "300", "2100"},
		{"E001", RVCE, ECE, "EC", "Bengaluru", "1200", "900", "5000"},
		{"E002", BMS, CSE, "CS", "Bengaluru", "1500", "1100", "--"},
		{"E002", BMS, MECH, "ME", "Bengaluru", "9000", "8000", "20000"},
		{"E003", PES, CSE, "CS", "", "800", "600", "3000"},
	}
}

// Categories are the category columns of the fixture after trimming
func Categories() []string {
	return []string{"1G", "GM", "SCG"}
}

// CSV renders the fixture as CSV bytes
func CSV(tb testing.TB) []byte {
	tb.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Headers()); err != nil {
		tb.Fatalf("write csv header: %v", err)
	}
	if err := w.WriteAll(Records()); err != nil {
		tb.Fatalf("write csv rows: %v", err)
	}
	return buf.Bytes()
}

// XLSX renders the fixture as a workbook with a single sheet
func XLSX(tb testing.TB, sheet string) []byte {
	tb.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "" && sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			tb.Fatalf("rename sheet: %v", err)
		}
	} else {
		sheet = "Sheet1"
	}

	rows := append([][]string{Headers()}, Records()...)
	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			tb.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &values); err != nil {
			tb.Fatalf("write row %d: %v", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		tb.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// Dataset builds the fixture dataset with the default identifying columns
func Dataset(tb testing.TB) *cutoff.Dataset {
	tb.Helper()

	headers := Headers()
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	var records []map[string]string
	for _, row := range Records() {
		record := make(map[string]string, len(row))
		for j, v := range row {
			record[headers[j]] = v
		}
		records = append(records, record)
	}

	ds, err := cutoff.NewDataset(cutoff.NewSchema(config.DefaultIdentifyingColumns), headers, records)
	if err != nil {
		tb.Fatalf("build fixture dataset: %v", err)
	}
	return ds
}
