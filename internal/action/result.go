package action

import "github.com/tinglabs/companion/internal/permission"

// ResultKind discriminates the outcome variants of a tool execution.
type ResultKind int

const (
	// ResultSuccess carries a human-readable confirmation message.
	ResultSuccess ResultKind = iota
	// ResultPermissionRequired means the capability has never been
	// prompted for; the batch halts until the user resolves it.
	ResultPermissionRequired
	// ResultPermissionDenied is terminal for the action; the canned
	// fallback message is surfaced instead of the side effect.
	ResultPermissionDenied
	// ResultFailed carries the raw error string, surfaced verbatim.
	ResultFailed
	// ResultWizardRequested asks the caller to open the goal wizard.
	ResultWizardRequested
)

// String returns a human-readable kind name.
func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultPermissionRequired:
		return "permission required"
	case ResultPermissionDenied:
		return "permission denied"
	case ResultFailed:
		return "failed"
	case ResultWizardRequested:
		return "wizard requested"
	default:
		return "unknown"
	}
}

// Result is the sole channel through which a tool executor communicates
// its outcome. The dispatcher never inspects executor internals.
type Result struct {
	Kind ResultKind

	// Message is the confirmation text for ResultSuccess.
	Message string

	// Permission is the capability to prompt for (ResultPermissionRequired).
	Permission permission.Type

	// Fallback is the canned denial text (ResultPermissionDenied).
	Fallback string

	// Err is the raw error string (ResultFailed). Never swallowed; the
	// assistant persona explains failures conversationally.
	Err string
}

// Success builds a success result with a confirmation message.
func Success(message string) Result {
	return Result{Kind: ResultSuccess, Message: message}
}

// PermissionRequired builds a result asking for a capability prompt.
func PermissionRequired(t permission.Type) Result {
	return Result{Kind: ResultPermissionRequired, Permission: t}
}

// PermissionDenied builds a terminal denial result with fallback text.
func PermissionDenied(fallback string) Result {
	return Result{Kind: ResultPermissionDenied, Fallback: fallback}
}

// Failed builds a failure result carrying the raw error string.
func Failed(err string) Result {
	return Result{Kind: ResultFailed, Err: err}
}

// WizardRequested builds a result asking the caller to open the goal wizard.
func WizardRequested() Result {
	return Result{Kind: ResultWizardRequested}
}
