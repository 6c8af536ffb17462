package cutoff

import (
	"math"
	"strconv"
	"strings"
)

// Rank is a cutoff rank: the last admission rank that qualified for a seat.
// Lower is more competitive.
type Rank float64

// String renders the shortest exact decimal form, so whole ranks print
// without a fractional part.
func (r Rank) String() string {
	return strconv.FormatFloat(float64(r), 'f', -1, 64)
}

// ParseRank reads a spreadsheet cell. Blank cells and placeholders such as
// "--" or "NA" have no rank.
func ParseRank(cell string) (Rank, bool) {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if cell == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return Rank(value), true
}
