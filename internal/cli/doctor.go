package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nodebridge-labs/nodebridge/internal/bridge"
	"github.com/nodebridge-labs/nodebridge/internal/config"
	"github.com/nodebridge-labs/nodebridge/internal/manifest"
	"github.com/nodebridge-labs/nodebridge/internal/runtime"
)

var (
	checkRuntime  bool
	checkPrefix   bool
	checkManifest string
)

func init() {
	doctorCmd.Flags().BoolVar(&checkRuntime, "check-runtime", false, "Verify node and npm are available")
	doctorCmd.Flags().BoolVar(&checkPrefix, "check-prefix", false, "Verify the npm prefix and installed modules")
	doctorCmd.Flags().StringVar(&checkManifest, "check-manifest", "", "Validate the npm blocks of a manifest file at the given path")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the node toolchain and npm prefix",
	Long:  `Run diagnostic checks on node, npm, the install prefix and project manifests.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := settingsFromConfig()
		out := cmd.OutOrStdout()

		// If no specific flag, run all checks.
		if !checkRuntime && !checkPrefix && checkManifest == "" {
			runRuntimeCheck(cmd.Context(), out, settings, config.NodeConstraint())
			runPrefixCheck(out, settings)
			path := settings.ManifestFile
			if _, err := os.Stat(path); err == nil {
				if err := runManifestCheck(out, settings, path); err != nil {
					fmt.Fprintf(out, "[WARN] Manifest check failed: %v\n", err)
				}
			}
			return nil
		}

		if checkRuntime {
			runRuntimeCheck(cmd.Context(), out, settings, config.NodeConstraint())
		}
		if checkPrefix {
			runPrefixCheck(out, settings)
		}
		if checkManifest != "" {
			if err := runManifestCheck(out, settings, checkManifest); err != nil {
				return err
			}
		}
		return nil
	},
}

func runRuntimeCheck(ctx context.Context, w io.Writer, settings *bridge.Settings, constraint string) {
	fmt.Fprintln(w, "Runtime check:")

	nr := newNodeRuntime(settings)
	version, err := nr.NodeVersion(ctx)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] node (%s) not usable: %v\n", nr.NodePath(), err)
		fmt.Fprintln(w, "         Scripts will use their Go fallback.")
	} else {
		fmt.Fprintf(w, "  [ OK ] node v%s (%s)\n", version, nr.NodePath())
		if ok, err := runtime.SatisfiesConstraint(version, constraint); err != nil {
			fmt.Fprintf(w, "  [WARN] %s: %v\n", config.KeyNodeConstraint, err)
		} else if !ok {
			fmt.Fprintf(w, "  [WARN] node v%s does not satisfy %q\n", version, constraint)
		}
	}

	checkBinary(w, settings.NpmPath)
}

func checkBinary(w io.Writer, name string) {
	path, err := exec.LookPath(name)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s not found\n", name)
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s found at %s\n", name, path)
}

func runPrefixCheck(w io.Writer, settings *bridge.Settings) {
	fmt.Fprintln(w, "Prefix check:")

	modules := settings.NodeModules()
	entries, err := os.ReadDir(modules)
	if err != nil {
		fmt.Fprintf(w, "  [MISS] %s: nothing installed yet\n", modules)
	} else {
		fmt.Fprintf(w, "  [ OK ] %s (%d entries)\n", modules, len(entries))
	}

	for module, path := range settings.ModulePaths() {
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(w, "  [FAIL] %s: override %s does not exist\n", module, path)
			continue
		}
		fmt.Fprintf(w, "  [ OK ] %s: override %s\n", module, path)
	}

	choice, ok, err := newMemory(settings).Store.Get()
	switch {
	case err != nil:
		fmt.Fprintf(w, "  [WARN] %s: %v\n", filepath.Base(settings.ChoiceFile), err)
	case ok:
		fmt.Fprintf(w, "  [INFO] Remembered answer for optional packages: %q\n", choice)
	default:
		fmt.Fprintln(w, "  [INFO] No remembered answer for optional packages")
	}
}

func runManifestCheck(w io.Writer, settings *bridge.Settings, path string) error {
	fmt.Fprintf(w, "Manifest validation: %s\n", path)

	reqs, err := manifest.ReadRequirements(path, settings.ManifestKey)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}
	fmt.Fprintf(w, "  [ OK ] extra.%s: %d package(s)\n", settings.ManifestKey, reqs.Len())

	confirm, err := manifest.ReadConfirmations(path, settings.ConfirmKey)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}
	fmt.Fprintf(w, "  [ OK ] extra.%s: %d package(s)\n", settings.ConfirmKey, confirm.Len())
	return nil
}
