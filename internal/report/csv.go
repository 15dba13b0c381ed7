package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/genomewalker/reviewflow/pkg/tables"
)

// Fixed file names of the sensitivity tables, matching the published
// supplementary material.
const (
	SummaryFileName  = "Table_Sx_sensitivity.csv"
	DetailedFileName = "Table_Sx_detailed.csv"
)

// coverageHeader is the column layout of the coverage table.
var coverageHeader = []string{
	"target", "breadth_pct", "mean_depth", "cov_evenness", "pass_conservative",
}

// summaryHeader is the column layout of the sensitivity summary table.
var summaryHeader = []string{
	"threshold_bits", "evalue_cutoff",
	"n_hits_total", "n_unique_queries_total",
	"n_hits_conservative", "n_unique_queries_conservative",
}

// WriteCoverage renders the per-target coverage table and commits it to
// path. Metric columns carry exactly three decimals; the pass flag is
// 0 or 1. An empty row set still writes the header.
func WriteCoverage(path string, rows []tables.CoverageSummary) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(coverageHeader); err != nil {
		return fmt.Errorf("report: render coverage header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			r.Target,
			fixed3(r.BreadthPct),
			fixed3(r.MeanDepth),
			fixed3(r.Evenness),
			passFlag(r.PassConservative),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("report: render coverage row %q: %w", r.Target, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("report: render coverage table: %w", err)
	}
	return WriteAtomic(path, buf.Bytes())
}

// WriteSensitivitySummary renders the per-threshold summary table and
// commits it to path, one row per declared threshold in declared order.
func WriteSensitivitySummary(path string, rows []tables.ThresholdSummary) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(summaryHeader); err != nil {
		return fmt.Errorf("report: render summary header: %w", err)
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.ThresholdBits),
			gfloat(r.EvalueCutoff),
			strconv.Itoa(r.HitsTotal),
			strconv.Itoa(r.UniqueQueriesTotal),
			strconv.Itoa(r.HitsConservative),
			strconv.Itoa(r.UniqueQueriesConservative),
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("report: render summary row %d: %w", r.ThresholdBits, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("report: render summary table: %w", err)
	}
	return WriteAtomic(path, buf.Bytes())
}

// WriteSensitivityDetailed renders the per-hit detailed table and
// commits it to path. bits supplies the declared thresholds for the
// pass_bits_<B> column names; every row must carry one flag per
// threshold.
func WriteSensitivityDetailed(path string, rows []tables.DetailedHit, bits []int) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(detailedHeader(bits)); err != nil {
		return fmt.Errorf("report: render detailed header: %w", err)
	}
	for i, r := range rows {
		if len(r.PassBits) != len(bits) {
			return fmt.Errorf("report: detailed row %d has %d threshold flags, want %d",
				i, len(r.PassBits), len(bits))
		}
		rec := []string{
			r.Query,
			r.Target,
			gfloat(r.Evalue),
			gfloat(r.Bits),
			gfloat(r.Pident),
			strconv.Itoa(r.AlnLen),
			gfloat(r.Qcov),
			gfloat(r.Tcov),
			strconv.FormatBool(r.PassEvalue),
		}
		for _, pass := range r.PassBits {
			rec = append(rec, strconv.FormatBool(pass))
		}
		rec = append(rec, strconv.FormatBool(r.PassConservative))
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("report: render detailed row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("report: render detailed table: %w", err)
	}
	return WriteAtomic(path, buf.Bytes())
}

// detailedHeader builds the detailed table header for the declared
// thresholds, in declared order.
func detailedHeader(bits []int) []string {
	h := []string{
		"query", "target", "evalue", "bits", "pident", "alnlen", "qcov", "tcov",
		"pass_evalue",
	}
	for _, b := range bits {
		h = append(h, fmt.Sprintf("pass_bits_%d", b))
	}
	return append(h, "pass_conservative")
}

// fixed3 formats v with exactly three decimal places.
func fixed3(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// gfloat formats v compactly, keeping scientific notation for small
// e-values (1e-06 renders as 1e-06, 40 as 40).
func gfloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// passFlag renders a pass call as the 0/1 used in the published tables.
func passFlag(pass bool) string {
	if pass {
		return "1"
	}
	return "0"
}
