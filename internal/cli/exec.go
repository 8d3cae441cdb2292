package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nodebridge-labs/nodebridge/internal/runtime"
)

var execNode bool

var execCmd = &cobra.Command{
	Use:   "exec <script>...",
	Short: "Run a command line when node is installed, or print a fallback",
	Long: `Run the given command line when node is installed. With --node the line is
passed to the node binary, e.g. "exec --node app.js --minify".

When node is missing, the --fallback text is printed instead; without a
fallback the command fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nr := nodeRuntimeFor(cmd)
		script := strings.Join(args, " ")

		run := nr.Exec
		if execNode {
			run = nr.NodeExec
		}
		out, err := run(cmd.Context(), script, fallbackFunc(cmd))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	execCmd.Flags().BoolVar(&execNode, "node", false, "Run the script with the node binary")
	execCmd.Flags().String("fallback", "", "Text printed when node is not installed")
	execCmd.Flags().String("node-path", "", "Node binary to use instead of the configured one")
	execCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(execCmd)
}

// nodeRuntimeFor returns the runtime for cmd, honoring its --node-path flag.
func nodeRuntimeFor(cmd *cobra.Command) *runtime.NodeRuntime {
	nr := newNodeRuntime(settingsFromConfig())
	if path, _ := cmd.Flags().GetString("node-path"); path != "" {
		nr.SetNodePath(path)
	}
	return nr
}

// fallbackFunc builds the fallback from the --fallback flag of cmd. It
// returns nil when the flag was not given so the runtime reports the missing
// node.
func fallbackFunc(cmd *cobra.Command) runtime.FallbackFunc {
	if !cmd.Flags().Changed("fallback") {
		return nil
	}
	text, _ := cmd.Flags().GetString("fallback")
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return func(script string) (string, error) {
		logger.Debug("node missing, printing fallback", "script", script)
		return text, nil
	}
}
