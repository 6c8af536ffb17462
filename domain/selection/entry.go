package selection

import (
	"sort"

	"cutoffrank/domain/cutoff"
)

// Entry is one accumulated (college, branch, cutoff rank) selection
type Entry struct {
	College string      `json:"college"`
	Branch  string      `json:"branch"`
	Cutoff  cutoff.Rank `json:"cutoff"`
}

// SortedByRank returns a copy of entries ordered by ascending cutoff rank.
// Ties keep their original relative order.
func SortedByRank(entries []Entry) []Entry {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Cutoff < sorted[j].Cutoff
	})
	return sorted
}
