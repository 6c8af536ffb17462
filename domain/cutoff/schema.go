package cutoff

import (
	"strings"

	"cutoffrank/domain/core"
)

// Identifying column names
const (
	ColumnCollegeCode = "College Code"
	ColumnCollegeName = "College Name"
	ColumnBranch      = "Branch"
	ColumnBranchCode  = "Branch Code"
	ColumnPlace       = "Place"
)

// Schema separates identifying columns from category columns. Every column
// that is not identifying is a category.
type Schema struct {
	identifying []string
}

// NewSchema builds a schema from the configured identifying columns
func NewSchema(identifying []string) Schema {
	cols := make([]string, 0, len(identifying))
	for _, col := range identifying {
		if col = strings.TrimSpace(col); col != "" {
			cols = append(cols, col)
		}
	}
	return Schema{identifying: cols}
}

// IsIdentifying reports whether header names an identifying column.
// Matching ignores case so "Branch code" and "Branch Code" are the same column.
func (s Schema) IsIdentifying(header string) bool {
	for _, col := range s.identifying {
		if strings.EqualFold(col, header) {
			return true
		}
	}
	return false
}

// resolve maps the canonical column names to the headers actually present
type columnMap map[string]string

func (s Schema) resolve(headers []string) (columnMap, []string, error) {
	cols := make(columnMap)
	for _, canonical := range []string{ColumnCollegeCode, ColumnCollegeName, ColumnBranch, ColumnBranchCode, ColumnPlace} {
		for _, header := range headers {
			if strings.EqualFold(header, canonical) {
				cols[canonical] = header
				break
			}
		}
	}

	for _, required := range []string{ColumnCollegeName, ColumnBranch} {
		if _, ok := cols[required]; !ok {
			return nil, nil, core.NewSchemaError("missing column " + required)
		}
		if !s.IsIdentifying(required) {
			return nil, nil, core.NewSchemaError(required + " must be an identifying column")
		}
	}

	var categories []string
	seen := make(map[string]bool)
	for _, header := range headers {
		if header == "" || s.IsIdentifying(header) || seen[header] {
			continue
		}
		seen[header] = true
		categories = append(categories, header)
	}
	if len(categories) == 0 {
		return nil, nil, core.NewSchemaError("no category columns")
	}

	return cols, categories, nil
}
