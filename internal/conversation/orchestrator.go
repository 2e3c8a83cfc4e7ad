package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tinglabs/companion/internal/action"
	"github.com/tinglabs/companion/internal/api"
	"github.com/tinglabs/companion/internal/logging"
	"github.com/tinglabs/companion/internal/permission"
)

// autoContinueMessage is the sentinel payload sent on the user's behalf
// when the conversation enters the goal-splitting stage. It is never
// shown as a user bubble.
const autoContinueMessage = "ok"

// Canned user-facing error strings. Transport failures are retryable and
// never roll back optimistic transcript state.
const (
	errTextSendFailed     = "发送失败，请稍后重试。"
	errTextAutoFailed     = "生成目标计划时出错，请稍后重试。"
	errTextPlanFetch      = "获取目标计划失败，请稍后重试。"
	errTextPlanIncomplete = "目前生成的目标计划还不够完整，我们会继续为你优化，请稍后再试。"
)

// ErrBusy is returned when a send or the plan fetch is already in flight.
// The call is a no-op; nothing was appended or sent.
var ErrBusy = errors.New("conversation: send already in flight")

// Mode selects which backend exchange the orchestrator drives.
type Mode int

const (
	// ModeOnboarding drives the staged goal-onboarding exchange: stage
	// tracking, the auto-continue hop, and completion handoff.
	ModeOnboarding Mode = iota
	// ModeChat drives the generic chat exchange. Replies may carry
	// pending actions, but there is no stage machine, no auto-continue,
	// and no completion handoff.
	ModeChat
)

// Callbacks let the surrounding screen react to orchestrator events.
// All callbacks are optional and invoked synchronously.
type Callbacks struct {
	// OnToast surfaces a transient confirmation, e.g. after a calendar
	// write.
	OnToast func(message string)

	// OnPlanReady hands off the fetched goal plan. The caller owns
	// navigation; the orchestrator only decides when the plan is sound.
	OnPlanReady func(plan *api.GoalPlan)

	// OnGoalWizard asks the caller to open the goal-creation wizard.
	OnGoalWizard func()

	// OnPermissionNeeded asks the caller to present a permission prompt
	// and report the choice back via ResolvePermission.
	OnPermissionNeeded func(t permission.Type)
}

// Options configures an Orchestrator.
type Options struct {
	Client     api.Client
	Gate       *permission.Gate
	Dispatcher *action.Dispatcher
	Mode       Mode
	UserID     int
	Nickname   string
	Logger     *logging.Logger
	Callbacks  Callbacks
}

// Orchestrator owns the message transcript for one conversation session.
// It sends user and synthesized messages to the backend, folds responses
// into the stage tracker, hands pending actions to the dispatcher, and
// reconciles the outcomes back into the transcript.
//
// The session model is a single UI goroutine driving one operation at a
// time: overlapping sends are rejected with ErrBusy rather than queued,
// and the permission gate's cache relies on that single-goroutine access.
// The internal mutex protects the transcript and flags for read-side
// accessors, not concurrent operations.
type Orchestrator struct {
	client     api.Client
	gate       *permission.Gate
	dispatcher *action.Dispatcher
	tracker    *Tracker
	logger     *logging.Logger
	mode       Mode
	userID     int
	nickname   string
	callbacks  Callbacks

	mu             sync.Mutex
	transcript     []Message
	sending        bool
	autoContinuing bool
	fetchingPlan   bool
	completed      bool
	errorText      string
	goalID         int
	pendingAction  *action.Action
	pendingType    permission.Type
}

// NewOrchestrator creates an Orchestrator scoped to one conversation
// session.
func NewOrchestrator(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = logging.New()
	}
	return &Orchestrator{
		client:     opts.Client,
		gate:       opts.Gate,
		dispatcher: opts.Dispatcher,
		tracker:    NewTracker(),
		logger:     logger.With("component", "conversation"),
		mode:       opts.Mode,
		userID:     opts.UserID,
		nickname:   opts.Nickname,
		callbacks:  opts.Callbacks,
	}
}

// Start seeds the opening assistant message. It is a no-op once the
// transcript has content.
func (o *Orchestrator) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(o.transcript) > 0 {
		return
	}
	text := fmt.Sprintf("%s，太棒了！现在我们一起来设定一个你真正想完成的目标吧。你可以先告诉我，你最近最想达成的一个目标是什么？", o.nickname)
	o.transcript = append(o.transcript, NewAssistantMessage(text))
}

// SendUserMessage appends the user's message optimistically and sends it
// to the backend, processing the response (stage transition, pending
// actions, auto-continue, completion) before returning.
//
// Empty (after trimming) messages are a no-op. If a send or the plan
// fetch is already in flight, the call is rejected with ErrBusy and no
// network call is issued. Transport failures leave the optimistic user
// message in place and record a retryable error string.
func (o *Orchestrator) SendUserMessage(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	o.mu.Lock()
	if o.sending || o.fetchingPlan {
		o.mu.Unlock()
		return ErrBusy
	}
	o.sending = true
	o.errorText = ""
	o.transcript = append(o.transcript, NewUserMessage(trimmed))
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.sending = false
		o.autoContinuing = false
		o.mu.Unlock()
	}()

	return o.exchange(ctx, trimmed)
}

// exchange runs the send/apply loop, following at most one auto-continue
// hop per call chain (the tracker's guard makes it fire once per
// session).
func (o *Orchestrator) exchange(ctx context.Context, payload string) error {
	for {
		resp, err := o.send(ctx, api.MessageRequest{UserID: o.userID, Message: payload})
		if err != nil {
			o.mu.Lock()
			if o.autoContinuing {
				o.errorText = errTextAutoFailed
			} else {
				o.errorText = errTextSendFailed
			}
			o.mu.Unlock()
			o.logger.Error("message send failed", "err", err)
			return fmt.Errorf("send message: %w", err)
		}

		auto := o.applyResponse(ctx, resp)
		if !auto {
			return nil
		}

		o.mu.Lock()
		o.autoContinuing = true
		o.mu.Unlock()
		o.logger.Info("auto-continue fired", "stage", resp.Stage, "user", o.userID)
		payload = autoContinueMessage
	}
}

// send routes a message to the exchange this session drives.
func (o *Orchestrator) send(ctx context.Context, req api.MessageRequest) (*api.MessageResponse, error) {
	if o.mode == ModeChat {
		return o.client.SendChatMessage(ctx, req)
	}
	return o.client.SendMessage(ctx, req)
}

// applyResponse folds one backend response into the session and reports
// whether an auto-continue hop must follow. Chat sessions take only the
// reply and the pending actions; stage and completion are onboarding
// concerns.
func (o *Orchestrator) applyResponse(ctx context.Context, resp *api.MessageResponse) bool {
	var tr Transition

	o.mu.Lock()
	if o.mode == ModeOnboarding {
		tr = o.tracker.Advance(resp.Stage)
		if resp.GoalID != 0 {
			o.goalID = resp.GoalID
		}
	}
	if reply := api.ExtractReplyText(resp.Reply); reply != "" {
		o.transcript = append(o.transcript, NewAssistantMessage(reply))
	}
	goalID := o.goalID
	o.mu.Unlock()

	if o.mode == ModeOnboarding && tr.Next == StageUnmapped && resp.Stage != "" {
		o.logger.Warn("unmapped stage label", "stage", resp.Stage)
	}

	outcomes, pending := o.dispatcher.ExecuteAll(ctx, resp.PendingClientActions)
	o.reconcile(outcomes, pending)

	if o.mode == ModeOnboarding && resp.GoalCompleted {
		if goalID == 0 {
			o.logger.Error("goal completed but no goal id available")
		} else {
			o.HandleCompletion(ctx, goalID)
		}
	}

	return tr.AutoContinue
}

// reconcile turns dispatcher outcomes into transcript entries and UI
// side effects, and claims the single pending-permission slot when the
// batch halted for a prompt.
func (o *Orchestrator) reconcile(outcomes []action.Outcome, pending *action.PermissionRequest) {
	for _, oc := range outcomes {
		switch oc.Result.Kind {
		case action.ResultSuccess:
			o.appendAssistant(oc.Result.Message)
			if oc.Action.Tool == action.ToolCalendar && o.callbacks.OnToast != nil {
				o.callbacks.OnToast("日历已更新")
			}
		case action.ResultWizardRequested:
			if o.callbacks.OnGoalWizard != nil {
				o.callbacks.OnGoalWizard()
			}
		case action.ResultPermissionDenied:
			o.appendAssistant(oc.Result.Fallback)
		case action.ResultFailed:
			o.appendAssistant("抱歉，操作失败了：" + oc.Result.Err)
		}
	}

	if pending == nil {
		return
	}

	o.mu.Lock()
	if o.pendingAction != nil {
		o.mu.Unlock()
		// Single mutable slot: a second simultaneous permission need is
		// dropped, not queued.
		o.logger.Warn("dropping permission request while another is pending",
			"tool", pending.Action.Tool, "type", string(pending.Type))
		return
	}
	act := pending.Action
	o.pendingAction = &act
	o.pendingType = pending.Type
	o.mu.Unlock()

	if o.callbacks.OnPermissionNeeded != nil {
		o.callbacks.OnPermissionNeeded(pending.Type)
	}
}

// ResolvePermission reports the user's answer to the pending permission
// prompt. On grant it requests the capability through the gate and, if
// authorized, re-executes the single action that triggered the prompt —
// not the whole original batch. Without a pending prompt it is a no-op.
func (o *Orchestrator) ResolvePermission(ctx context.Context, granted bool) {
	o.mu.Lock()
	act := o.pendingAction
	t := o.pendingType
	o.pendingAction = nil
	o.pendingType = ""
	o.mu.Unlock()

	if act == nil {
		return
	}

	if !granted {
		o.appendAssistant(t.DenialMessage())
		return
	}

	if status := o.gate.Request(ctx, t); status != permission.StatusAuthorized {
		o.appendAssistant(t.DenialMessage())
		return
	}

	res := o.dispatcher.Execute(ctx, *act)
	switch res.Kind {
	case action.ResultSuccess:
		o.appendAssistant(res.Message)
		if act.Tool == action.ToolCalendar && o.callbacks.OnToast != nil {
			o.callbacks.OnToast("日历已更新")
		}
	case action.ResultFailed:
		o.appendAssistant("操作失败：" + res.Err)
	default:
		o.logger.Debug("post-grant execution resolved without message",
			"tool", act.Tool, "kind", res.Kind.String())
	}
}

// HandleCompletion fetches the plan for a completed goal and hands off
// only when the plan has at least one milestone and at least one task.
// A degenerate plan keeps the user in conversation with a soft error.
func (o *Orchestrator) HandleCompletion(ctx context.Context, goalID int) {
	o.mu.Lock()
	if o.fetchingPlan {
		o.mu.Unlock()
		return
	}
	o.fetchingPlan = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.fetchingPlan = false
		o.mu.Unlock()
	}()

	plan, err := o.client.FetchGoalPlan(ctx, goalID)
	if err != nil {
		o.setErrorText(errTextPlanFetch)
		o.logger.Error("goal plan fetch failed", "goal", goalID, "err", err)
		return
	}

	if !plan.HasMilestones() || !plan.HasTasks() {
		o.setErrorText(errTextPlanIncomplete)
		o.logger.Info("goal plan empty or without tasks, staying in conversation", "goal", goalID)
		return
	}

	o.mu.Lock()
	o.completed = true
	o.mu.Unlock()

	if o.callbacks.OnPlanReady != nil {
		o.callbacks.OnPlanReady(plan)
	}
}

// Skip skips the goal-onboarding conversation.
func (o *Orchestrator) Skip(ctx context.Context) error {
	resp, err := o.client.SkipOnboarding(ctx, o.userID)
	if err != nil {
		o.setErrorText("跳过失败，请稍后重试。")
		return fmt.Errorf("skip onboarding: %w", err)
	}
	o.logger.Info("onboarding skipped", "status", resp.Status)
	return nil
}

func (o *Orchestrator) appendAssistant(text string) {
	o.mu.Lock()
	o.transcript = append(o.transcript, NewAssistantMessage(text))
	o.mu.Unlock()
}

func (o *Orchestrator) setErrorText(text string) {
	o.mu.Lock()
	o.errorText = text
	o.mu.Unlock()
}

// Transcript returns a copy of the message transcript.
func (o *Orchestrator) Transcript() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Message, len(o.transcript))
	copy(out, o.transcript)
	return out
}

// ErrorText returns the current retryable error string, empty when none.
func (o *Orchestrator) ErrorText() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.errorText
}

// Stage returns the current conversation stage.
func (o *Orchestrator) Stage() Stage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tracker.Current()
}

// Progress returns the display progress fraction. Unmapped labels keep
// the previous stage's value.
func (o *Orchestrator) Progress() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tracker.Progress()
}

// Sending reports whether a send is in flight.
func (o *Orchestrator) Sending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sending
}

// AutoContinuing reports whether the in-flight send is the synthetic
// continue, so the UI can show a different loading caption.
func (o *Orchestrator) AutoContinuing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.autoContinuing
}

// FetchingPlan reports whether the completion plan fetch is in flight.
func (o *Orchestrator) FetchingPlan() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fetchingPlan
}

// Completed reports whether the conversation produced a sound plan and
// handed off.
func (o *Orchestrator) Completed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.completed
}

// GoalID returns the goal ID reported by the backend, zero when none.
func (o *Orchestrator) GoalID() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.goalID
}

// PendingPermission returns the capability awaiting a user prompt.
func (o *Orchestrator) PendingPermission() (permission.Type, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pendingAction == nil {
		return "", false
	}
	return o.pendingType, true
}
