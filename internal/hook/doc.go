// Package hook is the install/update lifecycle entry point. A host package
// manager (or the nodebridge CLI acting for it) hands over its vendor
// directory, its root extra settings and an IO capability; Install then
// aggregates npm requirements, negotiates consent and runs npm.
package hook
