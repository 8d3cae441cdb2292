package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/nodebridge-labs/nodebridge/internal/bridge"
	"github.com/nodebridge-labs/nodebridge/internal/branding"
)

const (
	fileName = "config"
	fileType = "yaml"

	// keyDelimiter separates nesting levels inside viper. npm package names
	// contain dots, so viper's default "." cannot be used for module_paths.
	keyDelimiter = "::"
)

var v = newViper()

func newViper() *viper.Viper {
	return viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
}

// Recognized configuration keys.
const (
	KeyNodePath        = "node_path"
	KeyNpmPath         = "npm_path"
	KeyPrefix          = "prefix"
	KeyMaxInstallRetry = "max_install_retry"
	KeyManifestFile    = "manifest_file"
	KeyManifestKey     = "manifest_key"
	KeyConfirmKey      = "confirm_key"
	KeyModulePaths     = "module_paths"
	KeyNodeConstraint  = "node_constraint"
)

// Keys lists every recognized key, sorted.
func Keys() []string {
	keys := []string{
		KeyNodePath, KeyNpmPath, KeyPrefix, KeyMaxInstallRetry,
		KeyManifestFile, KeyManifestKey, KeyConfirmKey, KeyModulePaths,
		KeyNodeConstraint,
	}
	sort.Strings(keys)
	return keys
}

// Dir returns the path to the nodebridge config directory (~/.nodebridge/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.nodebridge/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load (re)initializes Viper to read from the config file and environment.
// Values set before are discarded.
func Load() {
	v = newViper()
	v.SetConfigFile(FilePath())
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = v.ReadInConfig()
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return v.GetString(storageKey(key))
}

// Set writes a config key-value pair and saves the config file. A
// module_paths entry is addressed as "module_paths.<package>".
func Set(key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	v.Set(storageKey(key), value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Settings builds the run settings from the loaded configuration. Unset
// keys keep the bridge defaults; the prefix defaults to Dir().
func Settings() *bridge.Settings {
	prefix := v.GetString(KeyPrefix)
	if prefix == "" {
		prefix = Dir()
	}
	s := bridge.NewSettings(prefix)
	s.AnswerEnv = branding.EnvVar("ANSWER")

	setString(&s.NodePath, KeyNodePath)
	setString(&s.NpmPath, KeyNpmPath)
	setString(&s.ManifestFile, KeyManifestFile)
	setString(&s.ManifestKey, KeyManifestKey)
	setString(&s.ConfirmKey, KeyConfirmKey)

	if v.IsSet(KeyMaxInstallRetry) {
		s.SetMaxInstallRetry(v.GetInt(KeyMaxInstallRetry))
	}
	for module, path := range v.GetStringMapString(KeyModulePaths) {
		s.SetModulePath(module, path)
	}
	return s
}

// NodeConstraint returns the node version range doctor checks against, or
// "" when none is configured.
func NodeConstraint() string {
	return v.GetString(KeyNodeConstraint)
}

func setString(dst *string, key string) {
	if value := v.GetString(key); value != "" {
		*dst = value
	}
}

// storageKey maps "module_paths.<package>" to the nested viper key. The
// package name is kept whole even when it contains dots.
func storageKey(key string) string {
	if module, ok := strings.CutPrefix(key, KeyModulePaths+"."); ok {
		return KeyModulePaths + keyDelimiter + module
	}
	return key
}

// validateKey accepts the plain keys and module_paths.<package> where the
// package name survives a write and reload unchanged. Viper lower-cases keys,
// so names with upper-case letters are refused rather than silently renamed.
func validateKey(key string) error {
	module, ok := strings.CutPrefix(key, KeyModulePaths+".")
	if !ok {
		for _, k := range Keys() {
			if k == key && k != KeyModulePaths {
				return nil
			}
		}
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	switch {
	case module == "":
		return fmt.Errorf("config key %q is missing a package name", key)
	case strings.Contains(module, keyDelimiter):
		return fmt.Errorf("package name %q must not contain %q", module, keyDelimiter)
	case strings.ToLower(module) != module:
		return fmt.Errorf("package name %q must be lower-case", module)
	case strings.TrimSpace(module) != module:
		return fmt.Errorf("package name %q must not start or end with spaces", module)
	}
	return nil
}
