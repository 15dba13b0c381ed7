// Package coverageapp wires the reviewflow-coverage command line to the
// depth reader, the coverage metrics, and the report writer. It owns
// the process exit codes and, with --watch, the rebuild loop.
package coverageapp
