// Package config manages user-level settings stored at ~/.nodebridge/config.yaml
// and NODEBRIDGE_* environment variables, and turns them into the
// bridge.Settings every run is built from.
package config
