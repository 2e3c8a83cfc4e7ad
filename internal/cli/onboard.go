package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tinglabs/companion/internal/api"
	"github.com/tinglabs/companion/internal/calendar"
	"github.com/tinglabs/companion/internal/config"
	"github.com/tinglabs/companion/internal/conversation"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Run the goal-onboarding conversation",
	Long: `Runs the staged goal-onboarding conversation in the terminal.

The assistant clarifies your goal, helps you define it, then splits it
into milestones and tasks. Type /skip to skip onboarding, /quit to exit.`,
	Args: cobra.NoArgs,
	RunE: runOnboard,
}

func init() {
	rootCmd.AddCommand(onboardCmd)
}

func runOnboard(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := newClient(cfg)

	store, err := calendar.NewSQLite(cfg.Calendar.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open calendar store: %w", err)
	}
	defer store.Close()

	sess := newSession(cfg, client, store, conversation.ModeOnboarding, os.Stdin, os.Stdout)
	return sess.run(cmd.Context())
}

// newClient builds the backend client from config.
func newClient(cfg *config.Config) api.Client {
	opts := []api.Option{
		api.WithTimeout(time.Duration(cfg.API.TimeoutSeconds) * time.Second),
	}
	if cfg.API.Token != "" {
		opts = append(opts, api.WithAuthToken(cfg.API.Token))
	}
	return api.NewHTTPClient(cfg.API.BaseURL, opts...)
}
