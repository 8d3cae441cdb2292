// Package cli defines the Cobra command tree for the nodebridge CLI. Each file
// registers one top-level command with the root command. Commands delegate to
// the internal packages and only handle flags, output formatting and wiring.
package cli
