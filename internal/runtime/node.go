package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nodebridge-labs/nodebridge/internal/bridge"
)

// Errors returned by NodeRuntime when a script cannot run.
var (
	// ErrNodeMissing means node is not installed and no fallback was given.
	ErrNodeMissing = errors.New("please install node.js or provide a Go fallback")
	// ErrInvalidFallback means the fallback given is not a callable function.
	ErrInvalidFallback = errors.New("the fallback provided is not callable")
	// ErrScriptNotFound means a module script does not exist on disk.
	ErrScriptNotFound = errors.New("script not found in module path")
)

// FallbackFunc runs in place of node. It receives the script argument the
// node call would have received.
type FallbackFunc func(script string) (string, error)

// NodeRuntime runs scripts through node, or through a fallback when node is
// unavailable. Node presence is probed on every call.
type NodeRuntime struct {
	Settings *bridge.Settings
	Runner   Runner
	Logger   *log.Logger
}

// NewNodeRuntime returns a NodeRuntime using an ExecRunner whose environment
// exposes the installed modules to node through NODE_PATH.
func NewNodeRuntime(settings *bridge.Settings, logger *log.Logger) *NodeRuntime {
	return &NodeRuntime{
		Settings: settings,
		Runner:   &ExecRunner{Env: buildNodeEnv(settings)},
		Logger:   logger,
	}
}

// NodePath returns the node binary in use.
func (n *NodeRuntime) NodePath() string {
	if n.Settings.NodePath == "" {
		return bridge.DefaultNodePath
	}
	return n.Settings.NodePath
}

// SetNodePath changes the node binary.
func (n *NodeRuntime) SetNodePath(path string) *NodeRuntime {
	n.Settings.NodePath = path
	return n
}

// IsNodeInstalled reports whether `node --version` answers with a version
// string starting with "v".
func (n *NodeRuntime) IsNodeInstalled(ctx context.Context) bool {
	out, err := n.Runner.Run(ctx, n.NodePath(), "--version")
	if err != nil {
		n.logger().Debug("node probe failed", "node", n.NodePath(), "error", err)
		return false
	}
	return strings.HasPrefix(out.Combined, "v")
}

// Exec runs script as a shell command line when node is installed, and
// fallback(script) otherwise.
func (n *NodeRuntime) Exec(ctx context.Context, script string, fallback any) (string, error) {
	return n.execOrFallback(ctx, script, fallback, false)
}

// NodeExec runs `node <script>` when node is installed, and fallback(script)
// otherwise. script may carry arguments after the file name.
func (n *NodeRuntime) NodeExec(ctx context.Context, script string, fallback any) (string, error) {
	return n.execOrFallback(ctx, script, fallback, true)
}

// ExecModuleScript runs script from the directory of module with args,
// through node or the fallback.
func (n *NodeRuntime) ExecModuleScript(ctx context.Context, module, script string, args []string, fallback any) (string, error) {
	path, err := n.ModuleScript(module, script)
	if err != nil {
		return "", err
	}

	parts := []string{path}
	for _, arg := range args {
		q, err := Quote(arg)
		if err != nil {
			return "", err
		}
		parts = append(parts, q)
	}
	return n.NodeExec(ctx, strings.Join(parts, " "), fallback)
}

// ModuleScript resolves script inside module and returns its absolute path,
// shell-quoted.
func (n *NodeRuntime) ModuleScript(module, script string) (string, error) {
	dir := n.Settings.ModulePath(module)
	path := filepath.Join(dir, script)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s in %s", ErrScriptNotFound, script, dir)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return Quote(abs)
}

func (n *NodeRuntime) execOrFallback(ctx context.Context, script string, fallback any, withNode bool) (string, error) {
	if n.IsNodeInstalled(ctx) {
		return n.shellExec(ctx, script, withNode)
	}

	fn, err := asFallback(fallback)
	if err != nil {
		return "", err
	}
	n.logger().Debug("node unavailable, using fallback", "script", script)
	return fn(script)
}

func (n *NodeRuntime) shellExec(ctx context.Context, script string, withNode bool) (string, error) {
	line := script
	if withNode {
		node, err := Quote(n.NodePath())
		if err != nil {
			return "", err
		}
		line = node + " " + script
	}

	out, err := n.Runner.RunShell(ctx, line)
	if err != nil {
		return "", fmt.Errorf("executing %q: %w", line, err)
	}
	if out.ExitCode != 0 {
		n.logger().Debug("script exited with non-zero status", "line", line, "exit_code", out.ExitCode)
	}
	return out.Combined, nil
}

// asFallback converts the supported fallback shapes to a FallbackFunc.
func asFallback(fallback any) (FallbackFunc, error) {
	switch fn := fallback.(type) {
	case nil:
		return nil, ErrNodeMissing
	case FallbackFunc:
		if fn == nil {
			return nil, ErrNodeMissing
		}
		return fn, nil
	case func(string) (string, error):
		if fn == nil {
			return nil, ErrNodeMissing
		}
		return fn, nil
	case func(string) string:
		if fn == nil {
			return nil, ErrNodeMissing
		}
		return func(script string) (string, error) { return fn(script), nil }, nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidFallback, fallback)
	}
}

func (n *NodeRuntime) logger() *log.Logger {
	if n.Logger == nil {
		return log.New(io.Discard)
	}
	return n.Logger
}

// buildNodeEnv returns the current environment with NODE_PATH pointing at
// the installed modules, ahead of any inherited value.
func buildNodeEnv(settings *bridge.Settings) []string {
	env := os.Environ()
	nodePath := settings.NodeModules()
	if inherited := os.Getenv("NODE_PATH"); inherited != "" {
		nodePath += string(os.PathListSeparator) + inherited
	}
	return setEnv(env, "NODE_PATH", nodePath)
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
