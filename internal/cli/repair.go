package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"stepkit/internal/domain"
	"stepkit/internal/port"
)

var repairCmd = &cobra.Command{
	Use:   "repair [file]",
	Short: "Repair a single step JSON candidate",
	Long: `Run a JSON candidate through strict parsing, heuristic repair and schema
coercion, and print the first result that succeeds.

Examples:
  echo '{"name": "load",}' | stepkit repair`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRepair,
}

func init() {
	rootCmd.AddCommand(repairCmd)
}

type repairOutput struct {
	Tier       string            `json:"tier"`
	Normalized bool              `json:"normalized"`
	Value      map[string]any    `json:"value,omitempty"`
	Step       domain.StepRecord `json:"step"`
	Notes      []string          `json:"notes,omitempty"`
}

func newRepairOutput(result port.RepairResult) repairOutput {
	out := repairOutput{
		Tier:       result.Tier.String(),
		Normalized: result.Normalized,
		Value:      result.Value,
		Step:       result.Step,
	}
	for _, n := range result.Notes {
		out.Notes = append(out.Notes, n.Error())
	}
	return out
}

func runRepair(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	result, err := newExtractor().Repair(text)
	if err != nil {
		return fmt.Errorf("repair failed: %w", err)
	}
	return writeJSON(cmd.OutOrStdout(), newRepairOutput(result))
}
