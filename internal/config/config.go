package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all adforge configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Reasoning engine (text generation)
	Engine EngineConfig `yaml:"engine"`

	// Image synthesis
	Imagen ImagenConfig `yaml:"imagen"`

	// Artifact output
	Output OutputConfig `yaml:"output"`

	// Batch execution
	Batch BatchConfig `yaml:"batch"`

	// Brief watch mode
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig configures the text reasoning engine.
type EngineConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// ImagenConfig configures the image synthesis service.
type ImagenConfig struct {
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
	// Disabled skips image synthesis entirely; the pipeline still runs
	// and the report carries the unavailability notice.
	Disabled bool `yaml:"disabled"`
}

// OutputConfig configures where run artifacts land.
type OutputConfig struct {
	Dir        string `yaml:"dir"`
	SaveReport bool   `yaml:"save_report"`
}

// BatchConfig configures concurrent brief processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// WatchConfig configures brief watch mode.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// LoggingConfig configures categorized file logging.
// The logging package reads the same section independently to avoid
// a circular import.
type LoggingConfig struct {
	Level      string          `yaml:"level"` // debug, info, warn, error
	DebugMode  bool            `yaml:"debug_mode"`
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "adforge",
		Version: "0.3.0",

		Engine: EngineConfig{
			Model:   "gemini-2.5-flash",
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Timeout: "120s",
		},

		Imagen: ImagenConfig{
			Model:   "imagen-4.0-generate-preview-06-06",
			Timeout: "180s",
		},

		Output: OutputConfig{
			Dir:        "output",
			SaveReport: true,
		},

		Batch: BatchConfig{
			Concurrency: 3,
		},

		Watch: WatchConfig{
			Debounce: "500ms",
		},

		Logging: LoggingConfig{
			Level:     "info",
			DebugMode: false,
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
// GEMINI_API_KEY takes precedence over GOOGLE_API_KEY.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.Engine.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Engine.APIKey = key
	}

	if dir := os.Getenv("ADFORGE_OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
	if model := os.Getenv("ADFORGE_TEXT_MODEL"); model != "" {
		c.Engine.Model = model
	}
	if model := os.Getenv("ADFORGE_IMAGE_MODEL"); model != "" {
		c.Imagen.Model = model
	}
	if url := os.Getenv("ADFORGE_BASE_URL"); url != "" {
		c.Engine.BaseURL = url
	}
}

// GetEngineTimeout returns the reasoning engine timeout as a duration.
func (c *Config) GetEngineTimeout() time.Duration {
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// GetSynthesisTimeout returns the image synthesis timeout as a duration.
func (c *Config) GetSynthesisTimeout() time.Duration {
	d, err := time.ParseDuration(c.Imagen.Timeout)
	if err != nil {
		return 180 * time.Second
	}
	return d
}

// GetWatchDebounce returns the watch debounce interval as a duration.
func (c *Config) GetWatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// Validate validates the configuration.
// A missing API key is not a validation error: the pipeline runs without
// one and reports the image stage as unavailable.
func (c *Config) Validate() error {
	if c.Engine.Model == "" {
		return fmt.Errorf("engine model not configured")
	}
	if c.Imagen.Model == "" {
		return fmt.Errorf("imagen model not configured")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output directory not configured")
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch concurrency must be >= 1, got %d", c.Batch.Concurrency)
	}
	return nil
}

// DefaultPath returns the default path to .adforge/config.yaml,
// anchored at the workspace root.
func DefaultPath() string {
	root, err := FindWorkspaceRoot()
	if err != nil {
		return filepath.Join(".adforge", "config.yaml")
	}
	return filepath.Join(root, ".adforge", "config.yaml")
}

// FindWorkspaceRoot walks up from the current directory looking for a
// .adforge directory, falling back to the nearest go.mod, then to the
// current directory itself.
func FindWorkspaceRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	originalDir := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, ".adforge")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return originalDir, nil
}
