package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	moduleRunCmd.Flags().String("fallback", "", "Text printed when node is not installed")
	moduleRunCmd.Flags().String("node-path", "", "Node binary to use instead of the configured one")
	moduleRunCmd.Flags().SetInterspersed(false)
	moduleCmd.AddCommand(modulePathCmd)
	moduleCmd.AddCommand(moduleRunCmd)
	rootCmd.AddCommand(moduleCmd)
}

var moduleCmd = &cobra.Command{
	Use:   "module",
	Short: "Locate installed npm modules and run their scripts",
}

var modulePathCmd = &cobra.Command{
	Use:   "path <module>",
	Short: "Print where a module is expected to be installed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), settingsFromConfig().ModulePath(args[0]))
		return nil
	},
}

var moduleRunCmd = &cobra.Command{
	Use:   "run <module> <script> [args...]",
	Short: "Run a script shipped by an installed module with node",
	Long: `Run <script>, resolved inside the module directory, with node. Arguments are
shell-quoted before being passed on.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		nr := nodeRuntimeFor(cmd)
		out, err := nr.ExecModuleScript(cmd.Context(), args[0], args[1], args[2:], fallbackFunc(cmd))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}
