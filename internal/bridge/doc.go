// Package bridge holds the process-wide settings shared by the installer,
// the consent negotiator and the execution facade, including the module
// path registry that maps an npm package name to its directory on disk.
//
// A Settings value is built once (usually by the config package) and passed
// to each component at construction time.
package bridge
