// Package platform provides cross-platform filesystem helpers. On Unix
// systems permission changes are applied directly; on Windows they are
// no-ops because the permission bits are not supported.
package platform
