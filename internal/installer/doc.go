// Package installer drives npm to install the approved requirements into the
// nodebridge prefix. Each run issues one `npm install` naming every package
// and retries up to the configured budget. A run only counts as successful
// when npm's output carries no error marker and every requested package
// directory exists afterwards.
package installer
