package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// NodeVersion probes node and parses its version.
func (n *NodeRuntime) NodeVersion(ctx context.Context) (*semver.Version, error) {
	out, err := n.Runner.Run(ctx, n.NodePath(), "--version")
	if err != nil {
		return nil, fmt.Errorf("probing %s: %w", n.NodePath(), err)
	}
	return ParseNodeVersion(out.Combined)
}

// ParseNodeVersion parses `node --version` output such as "v20.11.1\n".
func ParseNodeVersion(output string) (*semver.Version, error) {
	raw := strings.TrimSpace(output)
	if !strings.HasPrefix(raw, "v") {
		return nil, fmt.Errorf("unrecognized node version output %q", raw)
	}
	v, err := semver.NewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return nil, fmt.Errorf("parsing node version %q: %w", raw, err)
	}
	return v, nil
}

// SatisfiesConstraint reports whether version matches the semver constraint.
// An empty constraint matches everything.
func SatisfiesConstraint(version *semver.Version, constraint string) (bool, error) {
	if strings.TrimSpace(constraint) == "" {
		return true, nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	return c.Check(version), nil
}
