package dataset

import (
	"github.com/montanaflynn/stats"
)

// Summary describes the numeric values of one column.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Summarize computes a Summary over the parsed numbers of column. It reports
// false when the column is missing or holds no numbers.
func (d *Dataset) Summarize(column string) (Summary, bool) {
	_, idx, ok := d.Schema().Lookup(column)
	if !ok {
		return Summary{}, false
	}
	data := make(stats.Float64Data, 0, d.Len())
	for _, r := range d.records {
		if c := r.Cell(idx); c.IsNum {
			data = append(data, c.Num)
		}
	}
	if len(data) == 0 {
		return Summary{}, false
	}

	// stats only errors on empty input, which is ruled out above.
	lo, _ := stats.Min(data)
	hi, _ := stats.Max(data)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	return Summary{
		Count:  len(data),
		Min:    lo,
		Max:    hi,
		Mean:   mean,
		Median: median,
	}, true
}
