// Package sensitivityapp wires the reviewflow-sensitivity command line
// to the hits reader, the threshold engine, and the report writer. It
// owns the process exit codes.
package sensitivityapp
