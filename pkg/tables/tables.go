package tables

// Hit is one alignment hit parsed from a homology search result TSV
// (query, target, evalue, bits, pident, alnlen, qcov, tcov).
type Hit struct {
	// Query and Target are the sequence identifiers exactly as they
	// appear in the input.
	Query  string
	Target string

	// Evalue is the alignment expectation value.
	Evalue float64

	// Bits is the alignment bit score.
	Bits float64

	// Pident is the percent sequence identity over the alignment (0-100).
	Pident float64

	// AlnLen is the alignment length in residues.
	AlnLen int

	// Qcov and Tcov are the query and target coverage values as reported
	// by the search tool.
	Qcov float64
	Tcov float64
}

// CoverageSummary is one row of the per-target coverage table.
type CoverageSummary struct {
	// Target is the identifier derived from the depth file name.
	Target string

	// BreadthPct is the percentage of positions with depth > 0 (0-100).
	BreadthPct float64

	// MeanDepth is the arithmetic mean depth, zero positions included.
	MeanDepth float64

	// Evenness is 1 - pstdev/mean clamped to [0, 1], and 0 when the
	// mean depth is not positive.
	Evenness float64

	// PassConservative reports whether the target clears both the
	// evenness and breadth cutoffs.
	PassConservative bool
}

// ThresholdSummary is one row of the sensitivity summary table: hit and
// unique-query counts after filtering at a single bit-score threshold.
type ThresholdSummary struct {
	// ThresholdBits is the bit-score threshold this row was computed at.
	ThresholdBits int

	// EvalueCutoff is the e-value cutoff applied alongside the threshold.
	EvalueCutoff float64

	// HitsTotal and UniqueQueriesTotal count hits passing the e-value
	// and bit-score filters.
	HitsTotal          int
	UniqueQueriesTotal int

	// HitsConservative and UniqueQueriesConservative count the subset
	// that also clears the conservative identity and query-coverage
	// cutoffs.
	HitsConservative          int
	UniqueQueriesConservative int
}

// DetailedHit is one row of the per-hit detailed table: the parsed hit
// plus its flag under every declared filter.
type DetailedHit struct {
	Hit

	// PassEvalue reports whether the hit clears the e-value cutoff.
	PassEvalue bool

	// PassBits holds one flag per declared bit-score threshold, in
	// declared order. A flag is true only when PassEvalue is also true.
	PassBits []bool

	// PassConservative reports whether the hit clears the e-value cutoff
	// plus the conservative identity and query-coverage cutoffs.
	PassConservative bool
}
