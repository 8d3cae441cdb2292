package hook

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodebridge-labs/nodebridge/internal/bridge"
	"github.com/nodebridge-labs/nodebridge/internal/consent"
	"github.com/nodebridge-labs/nodebridge/internal/installer"
	"github.com/nodebridge-labs/nodebridge/internal/manifest"
	"github.com/nodebridge-labs/nodebridge/internal/runtime"
)

type fakeIO struct {
	interactive bool
	answer      string
	confirm     map[string]bool

	lines  []string
	errors []string
}

func (f *fakeIO) IsInteractive() bool        { return f.interactive }
func (f *fakeIO) Ask(string) (string, error) { return f.answer, nil }
func (f *fakeIO) Write(msg string)           { f.lines = append(f.lines, msg) }
func (f *fakeIO) WriteError(msg string)      { f.errors = append(f.errors, msg) }

func (f *fakeIO) AskConfirmation(q string, def bool) bool {
	for pkg, ok := range f.confirm {
		if strings.Contains(q, "["+pkg+"]") {
			return ok
		}
	}
	return def
}

// npmRunner pretends to be npm: it creates a directory under node_modules
// for every name@constraint argument unless fail is set.
type npmRunner struct {
	settings *bridge.Settings
	fail     bool
	calls    [][]string
}

func (r *npmRunner) Run(_ context.Context, _ string, args ...string) (*runtime.Output, error) {
	r.calls = append(r.calls, args)
	if r.fail {
		return &runtime.Output{ExitCode: 1, Combined: "npm ERR! code E404\n"}, nil
	}
	for _, arg := range args {
		if i := strings.LastIndex(arg, "@"); i > 0 {
			if err := os.MkdirAll(r.settings.ModulePath(arg[:i]), 0755); err != nil {
				return nil, err
			}
		}
	}
	return &runtime.Output{}, nil
}

func (r *npmRunner) RunShell(context.Context, string) (*runtime.Output, error) {
	return &runtime.Output{}, nil
}

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "composer.json"), []byte(content), 0644))
}

type fixture struct {
	vendor   string
	settings *bridge.Settings
	runner   *npmRunner
	io       *fakeIO
	store    *consent.MemoryStore
}

func newFixture(t *testing.T, rootManifest string) *fixture {
	t.Helper()
	project := t.TempDir()
	vendor := filepath.Join(project, "vendor")
	writeManifest(t, project, rootManifest)
	require.NoError(t, os.MkdirAll(vendor, 0755))

	settings := bridge.NewSettings(filepath.Join(project, "npm"))
	settings.SetMaxInstallRetry(2)
	return &fixture{
		vendor:   vendor,
		settings: settings,
		runner:   &npmRunner{settings: settings},
		io:       &fakeIO{},
		store:    &consent.MemoryStore{},
	}
}

func (f *fixture) run(t *testing.T, extra map[string]any) {
	t.Helper()
	event := &Event{VendorDir: f.vendor, Extra: extra, IO: f.io}
	memory := consent.NewMemory(f.store, "", nil)
	memory.Getenv = func(string) string { return "" }
	deps := &Deps{
		Settings:   f.settings,
		Aggregator: manifest.NewAggregator(f.settings.ManifestFile, nil),
		Negotiator: consent.NewNegotiator(f.io, memory, nil),
		Installer:  installer.New(f.settings, f.runner, nil),
	}
	Install(context.Background(), event, deps)
}

func TestInstall_NoBlockWarns(t *testing.T) {
	f := newFixture(t, `{"name": "acme/app"}`)

	f.run(t, nil)

	require.Len(t, f.io.lines, 1)
	assert.Contains(t, f.io.lines[0], "Warning: in order to use nodebridge, you should add a 'npm' setting")
	assert.Empty(t, f.runner.calls)
}

func TestInstall_EmptyBlockReportsNothingFound(t *testing.T) {
	f := newFixture(t, `{"extra": {"npm": {}}}`)

	f.run(t, map[string]any{"npm": map[string]any{}})

	assert.Equal(t, []string{"No packages found."}, f.io.lines)
	assert.Empty(t, f.runner.calls)
}

func TestInstall_AggregatesTreeAndInstalls(t *testing.T) {
	f := newFixture(t, `{"extra": {"npm": {"stylus": "^0.54"}}}`)
	writeManifest(t, filepath.Join(f.vendor, "acme", "css"), `{"extra": {"npm": ["less"]}}`)

	f.run(t, map[string]any{"npm": map[string]any{"stylus": "^0.54"}})

	assert.Equal(t, []string{
		`Package added to be installed/updated with npm: less@"*"`,
		`Package added to be installed/updated with npm: stylus@"^0.54"`,
		"Packages installed.",
	}, f.io.lines)
	require.Len(t, f.runner.calls, 1)
	args := f.runner.calls[0]
	assert.Equal(t, []string{"less@*", "stylus@^0.54"}, args[len(args)-2:])
	assert.Empty(t, f.io.errors)
}

func TestInstall_HostExtraWithVendorOutsideProject(t *testing.T) {
	f := newFixture(t, `{"name": "acme/app"}`)
	f.vendor = filepath.Join(t.TempDir(), "libs")
	writeManifest(t, filepath.Join(f.vendor, "acme", "css"), `{"extra": {"npm": {"less": "^3"}}}`)

	f.run(t, map[string]any{"npm": map[string]any{"less": "^4", "stylus": "*"}})

	require.Len(t, f.runner.calls, 1)
	args := f.runner.calls[0]
	assert.Equal(t, []string{"less@^4", "stylus@*"}, args[len(args)-2:])
	assert.Contains(t, f.io.lines, "Packages installed.")
}

func TestInstall_InvalidHostBlockKeepsTree(t *testing.T) {
	f := newFixture(t, `{"name": "acme/app"}`)
	writeManifest(t, filepath.Join(f.vendor, "acme", "css"), `{"extra": {"npm": ["less"]}}`)

	f.run(t, map[string]any{"npm": 42})

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, "less@*", f.runner.calls[0][len(f.runner.calls[0])-1])
}

func TestInstall_FailureReportsTries(t *testing.T) {
	f := newFixture(t, `{"extra": {"npm": ["less"]}}`)
	f.runner.fail = true

	f.run(t, map[string]any{"npm": []any{"less"}})

	assert.Len(t, f.runner.calls, 2)
	assert.Equal(t, []string{"Installation failed after 2 tries."}, f.io.errors)
	assert.NotContains(t, f.io.lines, "Packages installed.")
}

func TestInstall_DeclinedConfirmationIsFiltered(t *testing.T) {
	f := newFixture(t, `{"extra": {"npm": ["less", "stylus"]}}`)
	f.io.interactive = true
	f.io.answer = "m"
	f.io.confirm = map[string]bool{"stylus": false}

	f.run(t, map[string]any{
		"npm":         []any{"less", "stylus"},
		"npm-confirm": map[string]any{"stylus": "Needed for .styl files."},
	})

	require.Len(t, f.runner.calls, 1)
	args := f.runner.calls[0]
	assert.Equal(t, "less@*", args[len(args)-1])
	assert.NotContains(t, strings.Join(args, " "), "stylus")

	stored, ok, err := f.store.Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "m", stored)
}

func TestInstall_EverythingDeclinedSkipsNpm(t *testing.T) {
	f := newFixture(t, `{"extra": {"npm": ["stylus"], "npm-confirm": {"stylus": "optional"}}}`)
	f.io.interactive = true
	f.io.answer = "n"

	f.run(t, nil)

	assert.Empty(t, f.runner.calls)
	assert.Empty(t, f.io.lines)
}

func TestInstall_NonInteractiveIgnoresConfirmations(t *testing.T) {
	f := newFixture(t, `{"extra": {"npm": ["stylus"], "npm-confirm": {"stylus": "optional"}}}`)

	f.run(t, nil)

	require.Len(t, f.runner.calls, 1)
	assert.Contains(t, f.io.lines, "Packages installed.")
	_, ok, _ := f.store.Get()
	assert.False(t, ok)
}

func TestNewDeps(t *testing.T) {
	settings := bridge.NewSettings(t.TempDir())
	deps := NewDeps(settings, &Event{IO: &fakeIO{}}, nil)

	assert.Same(t, settings, deps.Settings)
	assert.NotNil(t, deps.Aggregator)
	assert.NotNil(t, deps.Negotiator)
	assert.NotNil(t, deps.Installer)
}
