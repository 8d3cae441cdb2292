package bridge

import (
	"path/filepath"
)

// Default values applied by NewSettings.
const (
	DefaultNodePath        = "node"
	DefaultNpmPath         = "npm"
	DefaultMaxInstallRetry = 3
	DefaultManifestFile    = "composer.json"
	DefaultManifestKey     = "npm"
	DefaultConfirmKey      = "npm-confirm"
	DefaultChoiceFile      = "npm-confirm-reminded-choice.txt"

	// NodeModulesDir is the directory npm creates under the install prefix.
	NodeModulesDir = "node_modules"
)

// Settings is the configuration shared by every component of a run.
// It is not safe for concurrent mutation.
type Settings struct {
	// NodePath is the node binary used for probing and script execution.
	NodePath string
	// NpmPath is the npm binary used by the installer.
	NpmPath string
	// PrefixPath is passed to npm as --prefix; packages land in
	// PrefixPath/node_modules.
	PrefixPath string
	// MaxInstallRetry bounds the number of npm invocations per install.
	MaxInstallRetry int
	// ChoiceFile stores the remembered global confirmation answer.
	ChoiceFile string
	// AnswerEnv names the environment variable that overrides the
	// remembered answer without persisting it.
	AnswerEnv string
	// ManifestFile is the per-package manifest file name.
	ManifestFile string
	// ManifestKey is the extra.<key> block holding npm requirements.
	ManifestKey string
	// ConfirmKey is the extra.<key> block holding confirmation messages.
	ConfirmKey string

	modulePaths map[string]string
}

// NewSettings returns Settings with defaults rooted at prefix. The choice
// file is stored inside prefix.
func NewSettings(prefix string) *Settings {
	return &Settings{
		NodePath:        DefaultNodePath,
		NpmPath:         DefaultNpmPath,
		PrefixPath:      prefix,
		MaxInstallRetry: DefaultMaxInstallRetry,
		ChoiceFile:      filepath.Join(prefix, DefaultChoiceFile),
		ManifestFile:    DefaultManifestFile,
		ManifestKey:     DefaultManifestKey,
		ConfirmKey:      DefaultConfirmKey,
		modulePaths:     make(map[string]string),
	}
}

// SetMaxInstallRetry sets how many times npm install is attempted.
func (s *Settings) SetMaxInstallRetry(count int) {
	s.MaxInstallRetry = count
}

// Retries returns MaxInstallRetry, never less than one.
func (s *Settings) Retries() int {
	if s.MaxInstallRetry < 1 {
		return 1
	}
	return s.MaxInstallRetry
}
