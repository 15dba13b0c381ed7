// Package depth reads per-base depth files in the samtools depth layout:
// one line per reference position, with whitespace-separated position and
// depth columns. Each <target_id>.depth file in an input directory maps
// to one target.
//
// The reader is tolerant: blank lines, short lines, and lines whose
// numeric fields do not parse are skipped and counted, never errors.
// Depth files stitched together across pipeline runs routinely carry
// stray headers or truncated tails, and a single bad line should not
// sink a whole batch.
package depth
