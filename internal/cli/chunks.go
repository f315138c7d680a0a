package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"stepkit/internal/domain"
)

var chunksCmd = &cobra.Command{
	Use:   "chunks [file]",
	Short: "Split assistant output into text and step chunks",
	Long: `Split an assistant message into an ordered list of text and JSON step
chunks. Reads stdin when no file is given.

Examples:
  stepkit chunks reply.txt
  cat reply.txt | stepkit chunks`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChunks,
}

func init() {
	rootCmd.AddCommand(chunksCmd)
}

func runChunks(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	chunks := newExtractor().Chunks(text)
	if textOutput() {
		printChunks(cmd.OutOrStdout(), chunks)
		return nil
	}
	if chunks == nil {
		chunks = []domain.AssistantChunk{}
	}
	return writeJSON(cmd.OutOrStdout(), chunks)
}

func printChunks(w io.Writer, chunks []domain.AssistantChunk) {
	for i, c := range chunks {
		switch c.Kind {
		case domain.ChunkJSON:
			fmt.Fprintf(w, "--- [%d] step %s (%s.%s, %s) ---\n", i+1, c.Step.Name, c.Step.Service, c.Step.Method, c.Tier)
			fmt.Fprintln(w, c.Step.Goal)
		default:
			fmt.Fprintf(w, "--- [%d] text ---\n", i+1)
			fmt.Fprintln(w, c.Text)
		}
	}
}
