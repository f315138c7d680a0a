package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var docCmd = &cobra.Command{
	Use:   "doc [file]",
	Short: "Parse a structured workflow document",
	Long: `Parse a document with ### Goal, ### Inputs, ### Outputs and ### Plan
sections followed by JSON step objects.

Examples:
  stepkit doc workflow.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDoc,
}

func init() {
	rootCmd.AddCommand(docCmd)
}

func runDoc(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	doc := newExtractor().Document(text)
	if !textOutput() {
		return writeJSON(cmd.OutOrStdout(), doc)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Goal:    %s\n", doc.Markdown.Goal)
	fmt.Fprintf(w, "Inputs:  %s\n", doc.Markdown.Inputs)
	fmt.Fprintf(w, "Outputs: %s\n", doc.Markdown.Outputs)
	fmt.Fprintln(w, "Plan:")
	for i, entry := range doc.Markdown.Plan {
		fmt.Fprintf(w, "  %d. %s\n", i+1, entry)
	}
	fmt.Fprintf(w, "Steps: %d\n", len(doc.Steps))
	for i, s := range doc.Steps {
		fmt.Fprintf(w, "  %d. %s (%s.%s) %s\n", i+1, s.Name, s.Service, s.Method, s.Goal)
	}
	return nil
}
