package cutoff

import (
	"fmt"

	"cutoffrank/domain/core"

	"github.com/montanaflynn/stats"
)

// Summary describes the spread of cutoff ranks within one category
type Summary struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Min      Rank    `json:"min"`
	Max      Rank    `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
}

// Summary computes count, min, max, mean and median over every row with a
// numeric value for category
func (d *Dataset) Summary(category string) (Summary, error) {
	if !d.HasCategory(category) {
		return Summary{}, fmt.Errorf("%w %q", core.ErrUnknownCategory, category)
	}

	data := make(stats.Float64Data, 0, len(d.rows))
	for _, row := range d.rows {
		if rank, ok := row.Cutoff(category); ok {
			data = append(data, float64(rank))
		}
	}
	if len(data) == 0 {
		return Summary{}, fmt.Errorf("%w: no ranks under %s", core.ErrNotFound, category)
	}

	min, err := data.Min()
	if err != nil {
		return Summary{}, err
	}
	max, err := data.Max()
	if err != nil {
		return Summary{}, err
	}
	mean, err := data.Mean()
	if err != nil {
		return Summary{}, err
	}
	median, err := data.Median()
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Category: category,
		Count:    len(data),
		Min:      Rank(min),
		Max:      Rank(max),
		Mean:     mean,
		Median:   median,
	}, nil
}
