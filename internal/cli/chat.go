package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinglabs/companion/internal/api"
	"github.com/tinglabs/companion/internal/calendar"
	"github.com/tinglabs/companion/internal/conversation"
	"github.com/tinglabs/companion/internal/logging"
)

// fallbackGreeting is shown when the greeting fetch fails. The chat
// surface must open regardless of backend hiccups.
const fallbackGreeting = "你好！有什么我可以帮你的吗？"

var chatHistoryLimit int

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the companion",
	Long: `Opens the chat surface: fetches your personalized greeting and recent
history, then hands over to the interactive conversation loop. Native
actions requested by the assistant run locally, behind permission
prompts.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().IntVar(&chatHistoryLimit, "history", 20, "number of history messages to show")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := newClient(cfg)
	ctx := cmd.Context()

	printChatOpening(ctx, client, cfg.User.ID, chatHistoryLimit, os.Stdout)

	store, err := calendar.NewSQLite(cfg.Calendar.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open calendar store: %w", err)
	}
	defer store.Close()

	sess := newSession(cfg, client, store, conversation.ModeChat, os.Stdin, os.Stdout)
	sess.seedGreeting = false
	return sess.run(ctx)
}

// printChatOpening renders the greeting and recent history. Fetch
// failures never abort the surface: the greeting falls back to a canned
// line and a failed initial history load is simply omitted.
func printChatOpening(ctx context.Context, client api.Client, userID, historyLimit int, out io.Writer) {
	greeting, err := client.FetchGreeting(ctx, userID)
	if err != nil {
		logging.Warn("greeting fetch failed, using fallback", "err", err)
		fmt.Fprintf(out, "伙伴: %s\n", fallbackGreeting)
	} else {
		fmt.Fprintf(out, "伙伴: %s\n", greeting.Greeting)
	}

	if historyLimit <= 0 {
		return
	}
	history, err := client.FetchHistory(ctx, userID, historyLimit, 0)
	if err != nil {
		logging.Warn("initial history fetch failed", "err", err)
		return
	}
	// Pages arrive newest first; replay them oldest first.
	for i := len(history.Messages) - 1; i >= 0; i-- {
		m := history.Messages[i]
		fmt.Fprintf(out, "[%s] %s: %s\n", m.CreatedAt, m.Role, m.Content)
	}
	if history.HasMore {
		fmt.Fprintln(out, "(更早的消息已省略)")
	}
}
