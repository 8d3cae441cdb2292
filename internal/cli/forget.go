package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forgetChoiceCmd = &cobra.Command{
	Use:   "forget-choice",
	Short: "Forget the remembered answer to the optional packages question",
	Long: `Delete the remembered Y/N/M answer so the next interactive install asks again.
The answer is stored in the npm prefix directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := settingsFromConfig()
		if err := newMemory(settings).Reset(); err != nil {
			return fmt.Errorf("forgetting choice: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Forgot remembered choice (%s).\n", settings.ChoiceFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(forgetChoiceCmd)
}
