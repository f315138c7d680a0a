package cli

import (
	"github.com/spf13/cobra"
	"stepkit/internal/domain"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Coerce a step object into the canonical step shape",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

type normalizeOutput struct {
	Step      domain.StepRecord `json:"step"`
	Found     []string          `json:"found"`
	Defaulted []string          `json:"defaulted"`
	Notes     []string          `json:"notes,omitempty"`
}

func runNormalize(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	step, report := newExtractor().Normalize([]byte(text))
	out := normalizeOutput{
		Step:      step,
		Found:     report.Found,
		Defaulted: report.Defaulted,
	}
	for _, n := range report.Notes {
		out.Notes = append(out.Notes, n.Error())
	}
	return writeJSON(cmd.OutOrStdout(), out)
}
