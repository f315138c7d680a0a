package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"stepkit/internal/adapter/source"
	"stepkit/internal/usecase"
)

var (
	followEvery   int
	followRetries int
	followBackoff time.Duration
)

var followCmd = &cobra.Command{
	Use:   "follow [file]",
	Short: "Re-segment a growing stream and print each change",
	Long: `Read a stream line by line, re-segment everything read so far and print
the chunk list whenever it changes. Reads stdin when no file is given.

Examples:
  model-cli --stream | stepkit follow
  stepkit follow --every 5 session.log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFollow,
}

func init() {
	rootCmd.AddCommand(followCmd)
	followCmd.Flags().IntVar(&followEvery, "every", 0, "re-segment after this many lines (default from config)")
	followCmd.Flags().IntVar(&followRetries, "max-retries", -1, "consecutive read errors tolerated (default from config)")
	followCmd.Flags().DurationVar(&followBackoff, "backoff", 100*time.Millisecond, "wait between read retries")
}

func runFollow(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	opts := usecase.FollowOptions{
		Every:      cfg.Follow.Every,
		MaxRetries: cfg.Follow.MaxRetries,
		Backoff:    followBackoff,
	}
	if followEvery > 0 {
		opts.Every = followEvery
	}
	if followRetries >= 0 {
		opts.MaxRetries = followRetries
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := cmd.OutOrStdout()
	_, err := usecase.Follow(ctx, source.NewLineSource(r), newExtractor().Segmenter(), opts, func(u usecase.Update) error {
		if textOutput() {
			fmt.Fprintf(w, "=== line %d ===\n", u.Lines)
			printChunks(w, u.Chunks)
			return nil
		}
		return writeJSON(w, followOutput{Lines: u.Lines, Final: u.Final, Chunks: u.Chunks})
	})
	if err != nil && ctx.Err() == context.Canceled {
		logger.Info("follow interrupted")
		return nil
	}
	return err
}

type followOutput struct {
	Lines  int  `json:"lines"`
	Final  bool `json:"final"`
	Chunks any  `json:"chunks"`
}
