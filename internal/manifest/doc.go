// Package manifest reads npm requirements declared in the extra block of
// package manifests (composer.json by default) and aggregates them across an
// installed dependency tree.
//
// A vendor directory is walked two levels deep (namespace, then package), and
// the project manifest one level above it is merged last. Manifests that are
// missing, unreadable, malformed, or fail schema validation contribute
// nothing; the walk never aborts on a single bad manifest.
package manifest
