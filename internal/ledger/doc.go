// Package ledger records one provenance row per reviewflow invocation
// in a local SQLite database: what ran, over which inputs, what it
// wrote, and how it ended. The ledger answers "which run produced this
// table" long after the logs are gone.
//
// The ledger is advisory. RecordRun never fails the pipeline: open or
// insert problems are logged as warnings and the tables stand on their
// own.
package ledger
