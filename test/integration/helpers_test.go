//go:build integration

package integration_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"

	"github.com/nodebridge-labs/nodebridge/internal/bridge"
	"github.com/nodebridge-labs/nodebridge/internal/hook"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	ProjectDir string // project root holding composer.json
	VendorDir  string // ProjectDir/vendor
	PrefixDir  string // npm --prefix
	Settings   *bridge.Settings
}

// setupTestEnv creates an isolated project with an empty vendor directory and
// settings rooted at a private npm prefix.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	project := t.TempDir()
	env := &testEnv{
		ProjectDir: project,
		VendorDir:  filepath.Join(project, "vendor"),
		PrefixDir:  filepath.Join(project, "npm"),
	}
	if err := os.MkdirAll(env.VendorDir, 0755); err != nil {
		t.Fatalf("creating vendor dir: %v", err)
	}
	env.Settings = bridge.NewSettings(env.PrefixDir)
	env.Settings.AnswerEnv = "NODEBRIDGE_ANSWER"
	t.Setenv("NODEBRIDGE_ANSWER", "")
	return env
}

// requireNode skips the test when node is not on PATH.
func requireNode(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("node not found in PATH")
	}
}

// requireShell skips the test on platforms without /bin/sh.
func requireShell(t *testing.T) {
	t.Helper()
	if goruntime.GOOS == "windows" {
		t.Skip("fake npm scripts need /bin/sh")
	}
}

// writePackage creates a composer.json at vendorDir/<name>/composer.json.
func writePackage(t *testing.T, vendorDir, name, content string) {
	t.Helper()
	writeFile(t, filepath.Join(vendorDir, name, "composer.json"), content)
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// writeExecutable writes an executable script.
func writeExecutable(t *testing.T, path, content string) {
	t.Helper()
	writeFile(t, path, content)
	if err := os.Chmod(path, 0755); err != nil {
		t.Fatalf("chmod %s: %v", path, err)
	}
}

// captureIO is a non-interactive hook IO with inspectable output.
type captureIO struct {
	*hook.TerminalIO
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newCaptureIO() *captureIO {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return &captureIO{
		TerminalIO: hook.NewTerminalIO(strings.NewReader(""), out, errOut, false),
		out:        out,
		errOut:     errOut,
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
