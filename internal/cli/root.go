package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinglabs/companion/internal/config"
	"github.com/tinglabs/companion/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	configDir    string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "Terminal front end for the companion goal assistant",
	Long: `Companion drives the staged goal-onboarding conversation against the
companion backend: it tracks the conversation stage, executes the native
actions the assistant requests (alarms, calendar, health data), and walks
permission prompts before any side effect runs.`,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("companion version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".",
		"directory containing .companion/config.yaml")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"override the configured log level (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads configuration from the --config-dir and applies the
// --log-level override to the process-wide logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	level := cfg.LogLevel
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logging.SetLevel(logging.ParseLevel(level))
	return cfg, nil
}
