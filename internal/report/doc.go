// Package report renders and writes the reviewflow output tables.
//
// Every writer renders the complete file in memory first and commits it
// with WriteAtomic (temp file plus rename inside the destination
// directory). Readers of the output directory never observe a partial
// table, and a failed run leaves any previous table untouched.
package report
