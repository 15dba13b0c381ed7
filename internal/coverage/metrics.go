package coverage

import (
	"math"

	"github.com/genomewalker/reviewflow/internal/depth"
	"github.com/genomewalker/reviewflow/pkg/tables"
)

// Default cutoffs for the conservative pass call.
const (
	DefaultBreadthCutoff  = 5.0
	DefaultEvennessCutoff = 0.5
)

// Cutoffs holds the thresholds a target must clear to be called
// conservatively covered.
type Cutoffs struct {
	// Breadth is the minimum breadth_pct (0-100).
	Breadth float64

	// Evenness is the minimum coverage evenness (0-1).
	Evenness float64
}

// DefaultCutoffs returns the standard conservative cutoffs.
func DefaultCutoffs() Cutoffs {
	return Cutoffs{Breadth: DefaultBreadthCutoff, Evenness: DefaultEvennessCutoff}
}

// Summarize computes the coverage metrics for one target.
//
//	breadth_pct = 100 * positions with depth > 0 / total positions
//	mean_depth  = arithmetic mean of all depths, zeros included
//	evenness    = 1 - pstdev/mean, clamped to [0, 1]; 0 when mean <= 0
//
// A target with no usable records scores zero on all three metrics.
// Both cutoff comparisons are inclusive.
func Summarize(target string, recs []depth.Record, cut Cutoffs) tables.CoverageSummary {
	s := tables.CoverageSummary{Target: target}

	if len(recs) > 0 {
		var sum float64
		covered := 0
		for _, r := range recs {
			sum += r.Depth
			if r.Depth > 0 {
				covered++
			}
		}
		n := float64(len(recs))
		s.BreadthPct = 100 * float64(covered) / n
		s.MeanDepth = sum / n

		if s.MeanDepth > 0 {
			s.Evenness = clamp01(1 - pstdev(recs, s.MeanDepth)/s.MeanDepth)
		}
	}

	s.PassConservative = s.Evenness >= cut.Evenness && s.BreadthPct >= cut.Breadth
	return s
}

// pstdev is the population standard deviation of the depths around mean.
// A single record has zero spread.
func pstdev(recs []depth.Record, mean float64) float64 {
	if len(recs) < 2 {
		return 0
	}
	var ss float64
	for _, r := range recs {
		d := r.Depth - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(recs)))
}

// clamp01 restricts v to the range [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
