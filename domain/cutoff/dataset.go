package cutoff

import (
	"strings"

	"cutoffrank/domain/core"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Row is one record of the source table. Rows are immutable once loaded.
type Row struct {
	CollegeCode string
	CollegeName string
	Branch      string
	BranchCode  string
	Place       string
	cutoffs     map[string]Rank
}

// Cutoff returns the rank for a category, if the cell held a number
func (r Row) Cutoff(category string) (Rank, bool) {
	rank, ok := r.cutoffs[category]
	return rank, ok
}

type rowKey struct {
	college string
	branch  string
}

// Dataset is the loaded, read-only table plus its derived lookups. It is
// safe for concurrent use because nothing mutates it after NewDataset.
type Dataset struct {
	rows       []Row
	categories []string
	colleges   []string
	branches   map[string][]string
	index      map[rowKey]int
}

// NewDataset builds a dataset from trimmed headers and header-keyed records
func NewDataset(schema Schema, headers []string, records []map[string]string) (*Dataset, error) {
	cols, categories, err := schema.resolve(headers)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		categories: categories,
		branches:   make(map[string][]string),
		index:      make(map[rowKey]int),
	}

	branchSets := make(map[string]map[string]bool)
	for _, record := range records {
		row := Row{
			CollegeCode: cell(record, cols[ColumnCollegeCode]),
			CollegeName: cell(record, cols[ColumnCollegeName]),
			Branch:      cell(record, cols[ColumnBranch]),
			BranchCode:  cell(record, cols[ColumnBranchCode]),
			Place:       cell(record, cols[ColumnPlace]),
			cutoffs:     make(map[string]Rank),
		}
		if row.CollegeName == "" && row.Branch == "" {
			continue
		}
		for _, category := range categories {
			if rank, ok := ParseRank(record[category]); ok {
				row.cutoffs[category] = rank
			}
		}

		key := rowKey{college: row.CollegeName, branch: row.Branch}
		if _, dup := ds.index[key]; !dup {
			ds.index[key] = len(ds.rows)
		}
		ds.rows = append(ds.rows, row)

		if row.CollegeName == "" {
			continue
		}
		if branchSets[row.CollegeName] == nil {
			branchSets[row.CollegeName] = make(map[string]bool)
			ds.colleges = append(ds.colleges, row.CollegeName)
		}
		if row.Branch != "" && !branchSets[row.CollegeName][row.Branch] {
			branchSets[row.CollegeName][row.Branch] = true
			ds.branches[row.CollegeName] = append(ds.branches[row.CollegeName], row.Branch)
		}
	}

	collator := collate.New(language.English)
	collator.SortStrings(ds.colleges)
	for _, list := range ds.branches {
		collator.SortStrings(list)
	}

	return ds, nil
}

func cell(record map[string]string, header string) string {
	if header == "" {
		return ""
	}
	return strings.TrimSpace(record[header])
}

// Len returns the number of rows
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Rows returns a copy of the rows in source order
func (d *Dataset) Rows() []Row {
	return append([]Row(nil), d.rows...)
}

// Categories returns the selectable category columns in source order
func (d *Dataset) Categories() []string {
	return append([]string(nil), d.categories...)
}

// HasCategory reports whether category is one of the category columns
func (d *Dataset) HasCategory(category string) bool {
	for _, c := range d.categories {
		if c == category {
			return true
		}
	}
	return false
}

// Colleges returns the sorted unique college names
func (d *Dataset) Colleges() []string {
	return append([]string(nil), d.colleges...)
}

// Branches returns the sorted unique branches offered by a college; an
// unknown college has none.
func (d *Dataset) Branches(college string) []string {
	return append([]string(nil), d.branches[college]...)
}

// Find returns the first row for (college, branch)
func (d *Dataset) Find(college, branch string) (Row, bool) {
	i, ok := d.index[rowKey{college: college, branch: branch}]
	if !ok {
		return Row{}, false
	}
	return d.rows[i], true
}

// Cutoff looks up the rank for a (category, college, branch) triple
func (d *Dataset) Cutoff(category, college, branch string) (Rank, error) {
	if category == "" || college == "" || branch == "" {
		return 0, core.ErrIncompletePicks
	}
	if !d.HasCategory(category) {
		return 0, core.ErrUnknownCategory
	}
	row, ok := d.Find(college, branch)
	if !ok {
		return 0, core.NewRowNotFoundError(college, branch, category)
	}
	rank, ok := row.Cutoff(category)
	if !ok {
		return 0, core.NewCutoffMissingError(college, branch, category)
	}
	return rank, nil
}
