// Package runmetrics renders a run's counters in the Prometheus text
// exposition format, for scraping through the node_exporter textfile
// collector. One gauge family per counter, every series labeled with
// the tool that produced it.
//
// Render is pure. WriteTextfile commits the bytes atomically and, like
// the run ledger, only warns on failure: metrics are advisory and never
// fail a run.
package runmetrics
