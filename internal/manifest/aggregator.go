package manifest

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
)

// Aggregator merges requirement blocks across a vendor tree.
type Aggregator struct {
	// FileName is the manifest file looked up in each package directory.
	FileName string
	// Logger receives debug lines for skipped manifests. Nil discards them.
	Logger *log.Logger
}

// NewAggregator returns an Aggregator reading fileName manifests.
func NewAggregator(fileName string, logger *log.Logger) *Aggregator {
	return &Aggregator{FileName: fileName, Logger: logger}
}

// Aggregate returns the requirements declared under extra.<key> by every
// package in vendorDir, then by the project manifest in the parent of
// vendorDir. An empty key means "npm".
func (a *Aggregator) Aggregate(vendorDir, key string) *Requirements {
	if key == "" {
		key = "npm"
	}
	reqs := &Requirements{}
	for _, dir := range a.manifestDirs(vendorDir) {
		path := manifestPath(dir, a.FileName)
		found, err := ReadRequirements(path, key)
		if err != nil {
			a.skip(path, err)
			continue
		}
		reqs.Merge(found)
	}
	return reqs
}

// AggregateConfirmations collects extra.<key> confirmation blocks over the
// same directories as Aggregate, in the same order.
func (a *Aggregator) AggregateConfirmations(vendorDir, key string) *Confirmations {
	confirm := &Confirmations{}
	for _, dir := range a.manifestDirs(vendorDir) {
		path := manifestPath(dir, a.FileName)
		found, err := ReadConfirmations(path, key)
		if err != nil {
			a.skip(path, err)
			continue
		}
		confirm.Merge(found)
	}
	return confirm
}

// manifestDirs lists vendorDir/<namespace>/<package> directories in name
// order followed by the project root.
func (a *Aggregator) manifestDirs(vendorDir string) []string {
	// Dir("a/vendor/") is "a/vendor", not the project root.
	vendorDir = filepath.Clean(vendorDir)
	var dirs []string
	for _, namespace := range subdirs(vendorDir) {
		dirs = append(dirs, subdirs(namespace)...)
	}
	return append(dirs, filepath.Dir(vendorDir))
}

// skip logs a manifest that contributes nothing. A block failing the schema
// is dropped whole, so it is reported at warn level with the offending
// locations.
func (a *Aggregator) skip(path string, err error) {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return
	case errors.Is(err, ErrInvalidBlock):
		a.logger().Warn("ignoring invalid npm block", "path", path, "error", err)
	default:
		a.logger().Debug("skipping manifest", "path", path, "error", err)
	}
}

func (a *Aggregator) logger() *log.Logger {
	if a.Logger == nil {
		return log.New(io.Discard)
	}
	return a.Logger
}

// subdirs returns the directories directly under dir. Symlinked directories
// are followed. An unreadable dir yields nothing.
func subdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}
