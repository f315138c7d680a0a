package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Manage imported transcripts",
}

var transcriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported transcripts",
	Args:  cobra.NoArgs,
	RunE:  runTranscriptsList,
}

var transcriptsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a transcript's content",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscriptsShow,
}

var transcriptsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscriptsDelete,
}

func init() {
	rootCmd.AddCommand(transcriptsCmd)
	transcriptsCmd.AddCommand(transcriptsListCmd, transcriptsShowCmd, transcriptsDeleteCmd)
}

type transcriptSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Imported string `json:"imported_at"`
	Bytes    int    `json:"bytes"`
}

func runTranscriptsList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	list, err := st.ListTranscripts()
	if err != nil {
		return fmt.Errorf("failed to list transcripts: %w", err)
	}

	w := cmd.OutOrStdout()
	if textOutput() {
		if len(list) == 0 {
			fmt.Fprintln(w, "No transcripts imported.")
			return nil
		}
		for _, t := range list {
			fmt.Fprintf(w, "%s  %s  %s\n", t.ID, t.ImportedAt.Format("2006-01-02 15:04"), t.Name)
		}
		return nil
	}

	out := make([]transcriptSummary, 0, len(list))
	for _, t := range list {
		out = append(out, transcriptSummary{
			ID:       t.ID,
			Name:     t.Name,
			Imported: t.ImportedAt.UTC().Format("2006-01-02T15:04:05Z"),
			Bytes:    len(t.Content),
		})
	}
	return writeJSON(w, out)
}

func runTranscriptsShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	t, err := st.GetTranscript(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), t.Content)
	return nil
}

func runTranscriptsDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteTranscript(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
