package sampler

import (
	"github.com/sg47/optspace/pkg/utils"
)

// BatchStats summarizes the rejection effort of one sampling batch. High
// attempt percentiles against a generous budget mean the feasible region is
// small relative to the box volume and plain rejection is near its limit.
type BatchStats struct {
	Points         int     // accepted points
	Budget         int     // configured per-point attempt budget
	TotalAttempts  int     // draws across the whole batch
	MaxAttempts    int     // worst single point
	MeanAttempts   float64 // average per accepted point
	P50Attempts    float64
	P95Attempts    float64
	P99Attempts    float64
	AcceptanceRate float64 // Points / TotalAttempts
}

func newBatchStats(attempts []int, budget int) *BatchStats {
	bs := &BatchStats{Points: len(attempts), Budget: budget}
	if len(attempts) == 0 {
		return bs
	}
	vals := make([]float64, len(attempts))
	for i, a := range attempts {
		vals[i] = float64(a)
		bs.TotalAttempts += a
		if a > bs.MaxAttempts {
			bs.MaxAttempts = a
		}
	}
	bs.MeanAttempts = utils.Mean(vals)
	bs.P50Attempts = utils.P50(vals)
	bs.P95Attempts = utils.P95(vals)
	bs.P99Attempts = utils.P99(vals)
	bs.AcceptanceRate = float64(bs.Points) / float64(bs.TotalAttempts)
	return bs
}
