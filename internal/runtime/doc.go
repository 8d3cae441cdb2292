// Package runtime runs external processes for nodebridge: the npm installer,
// the node binary, and shell command lines. NodeRuntime is the execution
// facade: it probes for node on every call and runs a caller-supplied Go
// fallback when node is missing.
package runtime
