package installer

import (
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/nodebridge-labs/nodebridge/internal/bridge"
	"github.com/nodebridge-labs/nodebridge/internal/manifest"
	"github.com/nodebridge-labs/nodebridge/internal/runtime"
)

// errorMarkers are the prefixes npm uses for fatal log lines. npm 10 moved
// from "npm ERR!" to "npm error".
var errorMarkers = []string{"npm ERR!", "npm error"}

// Driver installs requirements with npm.
type Driver struct {
	Settings *bridge.Settings
	Runner   runtime.Runner
	// Exists reports whether a path is present on disk. Defaults to os.Stat.
	Exists func(path string) bool
	Logger *log.Logger
}

// New returns a Driver running npm through runner.
func New(settings *bridge.Settings, runner runtime.Runner, logger *log.Logger) *Driver {
	return &Driver{Settings: settings, Runner: runner, Logger: logger}
}

// Install runs npm until every requirement is installed or the retry budget
// is spent. onFound, when non-nil, is called once per package with its
// display spec before npm first runs. An empty set succeeds immediately.
func (d *Driver) Install(ctx context.Context, reqs *manifest.Requirements, onFound func(spec string)) bool {
	if reqs.Len() == 0 {
		return true
	}

	var args []string
	for _, req := range reqs.Items() {
		if onFound != nil {
			onFound(Spec(req))
		}
		args = append(args, req.Name+"@"+Constraint(req))
	}
	names := reqs.Names()

	cmdArgs := append([]string{
		"install", "--force", "--loglevel=error",
		"--prefix", d.Settings.PrefixPath,
	}, args...)

	retries := d.Settings.Retries()
	for attempt := 1; attempt <= retries; attempt++ {
		d.logger().Debug("running npm install", "attempt", attempt, "of", retries, "packages", len(names))

		out, err := d.Runner.Run(ctx, d.npmPath(), cmdArgs...)
		if err != nil {
			d.logger().Warn("npm install could not run", "attempt", attempt, "error", err)
			continue
		}
		if hasErrorMarker(out.Combined) {
			d.logger().Warn("npm install reported errors", "attempt", attempt, "exit_code", out.ExitCode)
			continue
		}
		if !d.IsInstalled(names...) {
			d.logger().Warn("npm install finished but packages are missing", "attempt", attempt)
			continue
		}
		return true
	}
	return false
}

// IsInstalled reports whether every named package resolves to an existing
// path. It is true for an empty list.
func (d *Driver) IsInstalled(names ...string) bool {
	exists := d.Exists
	if exists == nil {
		exists = pathExists
	}
	for _, name := range names {
		if !exists(d.Settings.ModulePath(name)) {
			return false
		}
	}
	return true
}

// Spec formats a requirement as name@"constraint" for display.
func Spec(req manifest.Requirement) string {
	return req.Name + "@" + strconv.Quote(Constraint(req))
}

// Constraint returns the version constraint handed to npm. Constraints that
// parse as semver ranges are rewritten in npm's syntax (comma-separated
// conditions become space-separated); npm tags, URLs and other forms pass
// through unchanged.
func Constraint(req manifest.Requirement) string {
	raw := strings.TrimSpace(req.Constraint())
	if raw == manifest.Wildcard || raw == "" {
		return manifest.Wildcard
	}
	c, err := semver.NewConstraint(raw)
	if err != nil {
		return raw
	}
	return c.String()
}

func (d *Driver) npmPath() string {
	if d.Settings.NpmPath == "" {
		return bridge.DefaultNpmPath
	}
	return d.Settings.NpmPath
}

func (d *Driver) logger() *log.Logger {
	if d.Logger == nil {
		return log.New(io.Discard)
	}
	return d.Logger
}

func hasErrorMarker(output string) bool {
	for _, marker := range errorMarkers {
		if strings.Contains(output, marker) {
			return true
		}
	}
	return false
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
