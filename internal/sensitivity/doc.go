// Package sensitivity evaluates homology search hits against a grid of
// bit-score thresholds.
//
// Summarize produces per-threshold hit and unique-query counts, each
// threshold filtering the full hit set independently. Detail flags every
// input hit under every declared filter for row-level inspection. Both
// are pure functions over the parsed hits.
package sensitivity
