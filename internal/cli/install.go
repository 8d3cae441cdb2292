package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nodebridge-labs/nodebridge/internal/hook"
	"github.com/nodebridge-labs/nodebridge/internal/manifest"
)

var (
	installVendorDir     string
	installNoInteraction bool
	installKey           string
	installRetries       int
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the npm packages declared by installed dependencies",
	Long: `Walk the vendor directory two levels deep, collect the npm requirements declared
in extra.npm of every manifest plus the project manifest, ask for the packages
listed in extra.npm-confirm, and run npm install with retries.

Meant to be called from the host's post-install and post-update scripts.
An npm failure is reported but does not fail the command.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installVendorDir, "vendor-dir", "vendor", "Directory the host installed dependencies into")
	installCmd.Flags().BoolVarP(&installNoInteraction, "no-interaction", "n", false, "Never prompt; install every declared package")
	installCmd.Flags().StringVar(&installKey, "key", "", "Extra key holding npm requirements (default from config)")
	installCmd.Flags().IntVar(&installRetries, "retries", 0, "Maximum npm install attempts (default from config)")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	settings := settingsFromConfig()
	if installKey != "" {
		settings.ManifestKey = installKey
	}
	if installRetries > 0 {
		settings.SetMaxInstallRetry(installRetries)
	}

	vendorDir, err := filepath.Abs(installVendorDir)
	if err != nil {
		return fmt.Errorf("resolving vendor directory: %w", err)
	}

	rootManifest := filepath.Join(filepath.Dir(vendorDir), settings.ManifestFile)
	extra, err := rootExtra(rootManifest)
	if err != nil {
		// The dependencies' requirements are still installed.
		logger.Warn("ignoring project manifest", "path", rootManifest, "error", err)
		extra = nil
	}

	in := cmd.InOrStdin()
	interactive := !installNoInteraction && hook.DetectInteractive(in)
	event := &hook.Event{
		VendorDir: vendorDir,
		Extra:     extra,
		IO:        hook.NewTerminalIO(in, cmd.OutOrStdout(), cmd.ErrOrStderr(), interactive),
	}

	logger.Debug("installing npm requirements", "vendor_dir", vendorDir, "prefix", settings.PrefixPath, "interactive", interactive)
	hook.Install(cmd.Context(), event, hook.NewDeps(settings, event, logger))
	return nil
}

// rootExtra decodes the extra block of the project manifest the way a host
// would hand it over. A missing manifest yields a nil map.
func rootExtra(path string) (map[string]any, error) {
	f, err := manifest.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Debug("no project manifest", "path", path)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	extra := make(map[string]any, len(f.Extra))
	for key, raw := range f.Extra {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decoding extra.%s of %s: %w", key, path, err)
		}
		extra[key] = v
	}
	return extra, nil
}
