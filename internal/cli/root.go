package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"stepkit/config"
	"stepkit/internal/adapter/store"
	"stepkit/internal/logging"
	"stepkit/internal/usecase"
)

var (
	cfgFile  string
	cfg      *config.Config
	rootDir  string
	logLevel string
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stepkit",
	Short: "Extract workflow steps from streamed model output",
	Long: `stepkit splits assistant output into text and JSON step chunks, parses
structured workflow documents, and repairs malformed step JSON.

Example usage:
  stepkit chunks reply.txt          # Split a reply into text and step chunks
  stepkit doc workflow.md           # Parse Goal/Inputs/Outputs/Plan and steps
  cat partial.json | stepkit repair # Repair a single step candidate
  model-cli | stepkit follow        # Re-segment a live stream as it grows`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.ApplyEnv(rootDir); err != nil {
			return fmt.Errorf("failed to apply environment: %w", err)
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		logger = logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./stepkit.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "root directory (default is current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func GetRootDir() string {
	return rootDir
}

func newExtractor() *usecase.Extractor {
	return usecase.NewExtractor(cfg, logger)
}

func openStore() (*store.BoltStore, error) {
	if err := cfg.EnsureStoreDir(rootDir); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	st, err := store.NewBoltStore(cfg.StorePath(rootDir))
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript store: %w", err)
	}
	return st, nil
}

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	var (
		data []byte
		err  error
	)
	if cfg == nil || cfg.Output.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func textOutput() bool {
	return cfg != nil && cfg.Output.Format == "text"
}
