// Package tables defines the shared row types of every table reviewflow
// emits. These are the canonical in-memory representations of the
// supplementary tables, separate from their CSV rendering.
package tables
