// Package cli implements the sercha-learn command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-learn/internal/app"
	"github.com/custodia-labs/sercha-learn/internal/logger"
)

var version = "dev"

var (
	configPath string
	verbose    bool
	jsonOutput bool
)

// newApp builds the application. Tests replace it to inject fakes.
var newApp = app.New

var rootCmd = &cobra.Command{
	Use:   "sercha-learn",
	Short: "Gather videos and papers for a learning topic",
	Long: `Sercha Learn finds videos and research papers for a topic, indexes them
locally and lets you search what you have gathered by meaning.

Providers fall back to broader queries and secondary catalogs when the
primary one returns nothing or fails.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.sercha-learn/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// loadConfig loads .env from the working directory and then the config file.
func loadConfig() (file.Config, error) {
	if err := file.LoadDotEnv(".env"); err != nil {
		return file.Config{}, err
	}
	cfg, err := file.Load(configPath)
	if err != nil {
		return file.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// resolvedConfigPath returns the --config value or the default path.
func resolvedConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return file.DefaultPath()
}

// withApp loads configuration, builds the application and runs fn with it.
func withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck
	return fn(a)
}
