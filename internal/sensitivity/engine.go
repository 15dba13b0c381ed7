package sensitivity

import (
	"github.com/genomewalker/reviewflow/pkg/tables"
)

// Default filter settings for the sensitivity evaluation.
const (
	DefaultEvalue     = 1e-5
	DefaultConsPident = 30.0
	DefaultConsQcov   = 50.0
)

// DefaultBits returns the standard bit-score thresholds.
func DefaultBits() []int { return []int{20, 35, 50} }

// Config holds the filter settings for one evaluation.
type Config struct {
	// Bits are the bit-score thresholds to evaluate, in caller order.
	// The summary table carries one row per threshold.
	Bits []int

	// Evalue is the e-value cutoff applied at every threshold.
	Evalue float64

	// ConsPident and ConsQcov are the conservative subset cutoffs:
	// minimum percent identity and minimum query coverage.
	ConsPident float64
	ConsQcov   float64
}

// DefaultConfig returns the standard evaluation settings.
func DefaultConfig() Config {
	return Config{
		Bits:       DefaultBits(),
		Evalue:     DefaultEvalue,
		ConsPident: DefaultConsPident,
		ConsQcov:   DefaultConsQcov,
	}
}

// Summarize computes one summary row per declared bit-score threshold,
// in declared order. Every threshold filters the full hit set
// independently (evalue <= cutoff and bits >= threshold); the
// conservative subset additionally requires pident >= ConsPident and
// qcov >= ConsQcov. All comparisons are inclusive.
func Summarize(hits []tables.Hit, cfg Config) []tables.ThresholdSummary {
	out := make([]tables.ThresholdSummary, 0, len(cfg.Bits))
	for _, b := range cfg.Bits {
		row := tables.ThresholdSummary{
			ThresholdBits: b,
			EvalueCutoff:  cfg.Evalue,
		}
		queries := make(map[string]struct{})
		consQueries := make(map[string]struct{})
		for _, h := range hits {
			if h.Evalue > cfg.Evalue || h.Bits < float64(b) {
				continue
			}
			row.HitsTotal++
			queries[h.Query] = struct{}{}
			if h.Pident >= cfg.ConsPident && h.Qcov >= cfg.ConsQcov {
				row.HitsConservative++
				consQueries[h.Query] = struct{}{}
			}
		}
		row.UniqueQueriesTotal = len(queries)
		row.UniqueQueriesConservative = len(consQueries)
		out = append(out, row)
	}
	return out
}

// Detail flags every hit under every declared filter, preserving input
// order. The e-value cutoff gates all other flags: a hit failing it
// passes nothing.
func Detail(hits []tables.Hit, cfg Config) []tables.DetailedHit {
	out := make([]tables.DetailedHit, 0, len(hits))
	for _, h := range hits {
		d := tables.DetailedHit{
			Hit:        h,
			PassEvalue: h.Evalue <= cfg.Evalue,
			PassBits:   make([]bool, len(cfg.Bits)),
		}
		for i, b := range cfg.Bits {
			d.PassBits[i] = d.PassEvalue && h.Bits >= float64(b)
		}
		d.PassConservative = d.PassEvalue && h.Pident >= cfg.ConsPident && h.Qcov >= cfg.ConsQcov
		out = append(out, d)
	}
	return out
}
