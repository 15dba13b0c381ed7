// Package coverage derives per-target coverage statistics from depth
// records.
//
// Summarize is a pure function producing breadth of coverage, mean depth,
// and a coverage evenness index in [0, 1], plus a conservative pass call
// made against configurable breadth and evenness cutoffs. Evenness is
// 1 - pstdev/mean: perfectly uniform coverage scores 1, coverage as
// dispersed as its mean scores 0.
package coverage
