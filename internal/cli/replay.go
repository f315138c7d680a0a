package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"stepkit/internal/usecase"
)

var (
	replayFile  string
	replayDiffs bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [id]",
	Short: "Replay a transcript line by line and check segmentation stability",
	Long: `Re-segment every line prefix of a transcript, counting snapshots and
revisions of chunks that were already followed by others.

Examples:
  stepkit replay 3f2c9a1e-...
  stepkit replay --file session.log --diffs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().StringVarP(&replayFile, "file", "f", "", "replay a file instead of a stored transcript")
	replayCmd.Flags().BoolVar(&replayDiffs, "diffs", false, "print a diff for every change between snapshots")
}

type replayOutput struct {
	Snapshots  int      `json:"snapshots"`
	Revisions  int      `json:"revisions"`
	Idempotent bool     `json:"idempotent"`
	Chunks     int      `json:"chunks"`
	Diffs      []string `json:"diffs,omitempty"`
}

func runReplay(cmd *cobra.Command, args []string) error {
	content, err := replayContent(args)
	if err != nil {
		return err
	}

	report := usecase.Replay(newExtractor().Segmenter(), content, usecase.ReplayOptions{Diffs: replayDiffs})

	w := cmd.OutOrStdout()
	if !textOutput() {
		return writeJSON(w, replayOutput{
			Snapshots:  report.Snapshots,
			Revisions:  report.Revisions,
			Idempotent: report.Idempotent,
			Chunks:     len(report.Final),
			Diffs:      report.Diffs,
		})
	}

	for i, d := range report.Diffs {
		fmt.Fprintf(w, "--- change %d ---\n%s\n", i+1, d)
	}
	fmt.Fprintf(w, "Snapshots:  %d\n", report.Snapshots)
	fmt.Fprintf(w, "Revisions:  %d\n", report.Revisions)
	fmt.Fprintf(w, "Idempotent: %v\n", report.Idempotent)
	fmt.Fprintf(w, "Chunks:     %d\n", len(report.Final))
	return nil
}

func replayContent(args []string) (string, error) {
	if replayFile != "" {
		data, err := os.ReadFile(replayFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(data), nil
	}
	if len(args) == 0 {
		return "", fmt.Errorf("a transcript id or --file is required")
	}

	st, err := openStore()
	if err != nil {
		return "", err
	}
	defer st.Close()

	t, err := st.GetTranscript(args[0])
	if err != nil {
		return "", err
	}
	return t.Content, nil
}
