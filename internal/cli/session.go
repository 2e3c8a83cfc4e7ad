package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tinglabs/companion/internal/action"
	"github.com/tinglabs/companion/internal/api"
	"github.com/tinglabs/companion/internal/calendar"
	"github.com/tinglabs/companion/internal/config"
	"github.com/tinglabs/companion/internal/conversation"
	"github.com/tinglabs/companion/internal/permission"
	"github.com/tinglabs/companion/internal/tool"
)

// terminalProber stands in for a mobile platform's permission registry.
// Check reports not determined so every gated capability surfaces a
// prompt; Request reports authorized because the user already answered
// yes at that prompt.
type terminalProber struct{}

func (terminalProber) Check(t permission.Type) permission.Status {
	return permission.StatusNotDetermined
}

func (terminalProber) Request(ctx context.Context, t permission.Type) (permission.Status, error) {
	return permission.StatusAuthorized, nil
}

// session wires the backend client, the local calendar store, and the
// conversation orchestrator for one interactive CLI run.
type session struct {
	cfg    *config.Config
	orch   *conversation.Orchestrator
	in     *bufio.Scanner
	out    io.Writer
	gate   *permission.Gate
	opened int

	// seedGreeting controls whether run seeds the local opening message.
	// The chat surface shows the server greeting instead.
	seedGreeting bool
}

func newSession(cfg *config.Config, client api.Client, store calendar.Store, mode conversation.Mode, in io.Reader, out io.Writer) *session {
	s := &session{
		cfg:          cfg,
		in:           bufio.NewScanner(in),
		out:          out,
		seedGreeting: true,
	}

	s.gate = permission.NewGate(terminalProber{}, nil)
	opener := tool.OpenerFunc(func(url string) error {
		fmt.Fprintf(out, "[打开] %s\n", url)
		return nil
	})
	dispatcher := action.NewDispatcher(s.gate, tool.Registry(store, opener, nil), nil)

	s.orch = conversation.NewOrchestrator(conversation.Options{
		Client:     client,
		Gate:       s.gate,
		Dispatcher: dispatcher,
		Mode:       mode,
		UserID:     cfg.User.ID,
		Nickname:   cfg.User.Nickname,
		Callbacks: conversation.Callbacks{
			OnToast: func(msg string) {
				fmt.Fprintf(out, "[提示] %s\n", msg)
			},
			OnPlanReady: s.printPlan,
			OnGoalWizard: func() {
				fmt.Fprintln(out, "[目标向导] 助手建议你使用目标向导自行创建目标。")
			},
			// Permission prompting is handled after each send returns, so
			// the prompt never interleaves with transcript output.
		},
	})
	return s
}

// run drives the interactive loop until the conversation completes, the
// user quits, or input ends.
func (s *session) run(ctx context.Context) error {
	if s.seedGreeting {
		s.orch.Start()
	}
	s.flushTranscript()
	s.printStatus()

	for {
		fmt.Fprint(s.out, "> ")
		if !s.in.Scan() {
			break
		}
		line := strings.TrimSpace(s.in.Text())

		switch line {
		case "":
			continue
		case "/quit":
			return nil
		case "/skip":
			if err := s.orch.Skip(ctx); err != nil {
				fmt.Fprintf(s.out, "[错误] %s\n", s.orch.ErrorText())
				continue
			}
			fmt.Fprintln(s.out, "已跳过目标设定。")
			return nil
		}

		// Transport errors surface through ErrorText; the loop keeps
		// accepting input so the user can retry.
		_ = s.orch.SendUserMessage(ctx, line)

		s.flushTranscript()
		if et := s.orch.ErrorText(); et != "" {
			fmt.Fprintf(s.out, "[错误] %s\n", et)
		}
		s.printStatus()
		s.resolvePermission(ctx)

		if s.orch.Completed() {
			fmt.Fprintln(s.out, "目标设定完成！")
			return nil
		}
	}
	return s.in.Err()
}

// flushTranscript prints assistant messages appended since the last
// flush. User lines are not echoed; the terminal already shows them.
func (s *session) flushTranscript() {
	msgs := s.orch.Transcript()
	for _, m := range msgs[s.opened:] {
		if m.Sender == conversation.SenderAssistant {
			fmt.Fprintf(s.out, "伙伴: %s\n", m.Text)
		}
	}
	s.opened = len(msgs)
}

func (s *session) printStatus() {
	if title := s.orch.Stage().Title(); title != "" {
		fmt.Fprintf(s.out, "== %s ==\n", title)
	}
}

func (s *session) printPlan(plan *api.GoalPlan) {
	fmt.Fprintf(s.out, "目标计划：%s\n", plan.Title)
	for _, m := range plan.Milestones {
		fmt.Fprintf(s.out, "  里程碑: %s\n", m.Title)
		for _, t := range m.Tasks {
			fmt.Fprintf(s.out, "    - %s\n", t.Title)
		}
	}
}

// resolvePermission walks the pending permission prompt, if any.
func (s *session) resolvePermission(ctx context.Context) {
	pt, ok := s.orch.PendingPermission()
	if !ok {
		return
	}

	fmt.Fprintf(s.out, "需要「%s」权限：%s 允许吗？[y/N] ", pt.DisplayName(), pt.ContextMessage())
	granted := false
	if s.in.Scan() {
		switch strings.ToLower(strings.TrimSpace(s.in.Text())) {
		case "y", "yes":
			granted = true
		}
	}

	s.orch.ResolvePermission(ctx, granted)
	s.flushTranscript()
}
