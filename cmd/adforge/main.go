package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"adforge/internal/config"
	"adforge/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string
	outputDir  string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "adforge",
	Short: "adforge - AI marketing campaign generator",
	Long: `adforge turns a three-field campaign brief (product, audience,
differentiator) into a complete marketing campaign: market strategy,
five taglines with psychological justifications, a visual brief, a
generated campaign image, and a final executive report.

The pipeline runs five fixed stages in order. Text stages never halt a
run: a failed stage leaves an explanatory placeholder and the report
still lands. Image generation requires GEMINI_API_KEY (or
GOOGLE_API_KEY); without it the campaign completes image-free.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zapConfig := zap.NewProductionConfig()
		zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if verbose {
			zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// Category file logging is a silent no-op unless the workspace
		// config enables debug mode.
		if root, rootErr := config.FindWorkspaceRoot(); rootErr == nil {
			if initErr := logging.Initialize(root); initErr != nil {
				logger.Warn("File logging unavailable", zap.Error(initErr))
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// versionCmd prints the adforge version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the adforge version",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.DefaultConfig()
		fmt.Printf("%s %s\n", cfg.Name, cfg.Version)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .adforge/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "Output directory for artifacts (default: from config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(artifactsCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig loads the effective configuration, honoring the --config
// and --output flags.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if outputDir != "" {
		cfg.Output.Dir = outputDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
