package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nodebridge-labs/nodebridge/internal/branding"
	"github.com/nodebridge-labs/nodebridge/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
	logger  = log.New(io.Discard)
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` installs the npm packages declared in the extra section of every
dependency manifest and runs node scripts with a Go-side fallback.

Hosts call "` + branding.CLIName() + ` install" from their post-install and post-update scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		logger = newLogger(cmd.ErrOrStderr(), verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log diagnostic details to stderr")
}

// newLogger returns the diagnostic logger. Only warnings are shown unless
// verbose is set.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{Prefix: branding.CLIName()})
	l.SetLevel(log.WarnLevel)
	if verbose {
		l.SetLevel(log.DebugLevel)
	}
	return l
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
