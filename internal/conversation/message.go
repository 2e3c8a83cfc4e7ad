// Package conversation implements the staged goal-onboarding
// conversation: the transcript, the stage state machine derived from
// server-reported labels, and the orchestrator that ties the backend,
// the permission gate, and the action dispatcher together.
package conversation

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a transcript message.
type Sender int

const (
	// SenderUser is the human participant.
	SenderUser Sender = iota
	// SenderAssistant is the AI companion.
	SenderAssistant
)

// String returns the sender's wire-ish name.
func (s Sender) String() string {
	switch s {
	case SenderUser:
		return "user"
	case SenderAssistant:
		return "assistant"
	default:
		return "unknown"
	}
}

// Message is one transcript entry. Messages are immutable once appended;
// the orchestrator is the sole owner and mutator of the transcript.
type Message struct {
	ID        string
	Sender    Sender
	Text      string
	CreatedAt time.Time
}

// NewUserMessage creates a user message with a fresh local ID.
func NewUserMessage(text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    SenderUser,
		Text:      text,
		CreatedAt: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message with a fresh local ID.
func NewAssistantMessage(text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Sender:    SenderAssistant,
		Text:      text,
		CreatedAt: time.Now(),
	}
}
