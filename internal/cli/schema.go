package cli

import (
	"github.com/spf13/cobra"
	"stepkit/internal/adapter/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of a workflow step",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), schema.StepSchema())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
