// Package hits reads tab-separated homology search results in the
// query, target, evalue, bits, pident, alnlen, qcov, tcov column layout
// (MMseqs2 convertalis and BLAST outfmt-6 variants). Empty lines and
// rows whose first field starts with '#' are skipped.
//
// Unlike the depth reader, this one is strict: a short row or an
// unparseable number aborts the whole run with a MalformedInputError
// naming the file and line. A malformed hit row means the upstream
// search output itself is suspect, and no tables are produced from it.
package hits
