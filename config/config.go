package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for stepkit.
type Config struct {
	Segment SegmentConfig `yaml:"segment"`
	Repair  RepairConfig  `yaml:"repair"`
	Cache   CacheConfig   `yaml:"cache"`
	Follow  FollowConfig  `yaml:"follow"`
	Import  ImportConfig  `yaml:"import"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
}

// SegmentConfig controls how buffers are split into sections.
type SegmentConfig struct {
	StringAwareBraces bool `yaml:"string_aware_braces"`
	TruncationClose   bool `yaml:"truncation_close"`   // Close braces of a step cut off at end of input
	PlanContinuations bool `yaml:"plan_continuations"` // Fold indented lines into the previous plan entry
}

// RepairConfig selects the repair tiers that run after strict parsing.
type RepairConfig struct {
	Heuristic bool `yaml:"heuristic"`
	Coerce    bool `yaml:"coerce"`
}

// CacheConfig holds segmentation cache configuration.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	MaxEntries int           `yaml:"max_entries"`
	TTL        time.Duration `yaml:"ttl"`
}

// FollowConfig holds configuration for following a live stream.
type FollowConfig struct {
	Every      int `yaml:"every"`       // Re-segment after this many lines
	MaxRetries int `yaml:"max_retries"` // Consecutive transient read errors tolerated
}

// ImportConfig holds transcript import patterns.
type ImportConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
	MaxBytes int64    `yaml:"max_bytes"` // Larger files are skipped; 0 disables the limit
}

// StoreConfig holds transcript store configuration.
type StoreConfig struct {
	Path string `yaml:"path"` // Relative paths resolve against the root directory
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// OutputConfig holds CLI output configuration.
type OutputConfig struct {
	Format string `yaml:"format"` // "json" or "text"
	Indent bool   `yaml:"indent"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Segment: SegmentConfig{
			StringAwareBraces: false,
			TruncationClose:   true,
			PlanContinuations: true,
		},
		Repair: RepairConfig{
			Heuristic: true,
			Coerce:    true,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 128,
			TTL:        5 * time.Minute,
		},
		Follow: FollowConfig{
			Every:      1,
			MaxRetries: 3,
		},
		Import: ImportConfig{
			Includes: []string{"**/*.txt", "**/*.md", "**/*.log", "**/*.jsonl"},
			Excludes: []string{"**/.git/**", "**/node_modules/**", "**/.stepkit/**"},
			MaxBytes: 8 << 20,
		},
		Store: StoreConfig{
			Path: filepath.Join(".stepkit", "transcripts.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Format: "json",
			Indent: true,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for stepkit.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "stepkit.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".stepkit", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays STEPKIT_* variables, reading dir/.env first when it
// exists. Variables already set in the environment win over the file.
func (c *Config) ApplyEnv(dir string) error {
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			return err
		}
	}

	if v := strings.TrimSpace(os.Getenv("STEPKIT_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("STEPKIT_LOG_FORMAT")); v != "" {
		c.Logging.Format = v
	}
	if v := strings.TrimSpace(os.Getenv("STEPKIT_STORE")); v != "" {
		c.Store.Path = v
	}
	if v := strings.TrimSpace(os.Getenv("STEPKIT_STRING_AWARE_BRACES")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.Segment.StringAwareBraces = b
	}
	return nil
}

// StorePath returns the transcript database path for a root directory.
func (c *Config) StorePath(dir string) string {
	if filepath.IsAbs(c.Store.Path) {
		return c.Store.Path
	}
	return filepath.Join(dir, c.Store.Path)
}

// EnsureStoreDir ensures the directory holding the store exists.
func (c *Config) EnsureStoreDir(dir string) error {
	return os.MkdirAll(filepath.Dir(c.StorePath(dir)), 0755)
}
