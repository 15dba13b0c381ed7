// Package version pins the release string stamped into --version output.
package version

// Version is the reviewflow release.
const Version = "0.3.1"
