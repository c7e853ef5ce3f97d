package core

import (
	"strings"
	"time"
)

// Role identifies the author side of a message.
type Role string

const (
	// RoleUser marks caller-authored messages.
	RoleUser Role = "user"
	// RoleAssistant marks agent-authored messages.
	RoleAssistant Role = "assistant"
)

// Message is one entry of a thread: a role plus ordered heterogeneous content
// parts. Backends return messages newest first from Service.ListMessages.
type Message struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Role      Role      `json:"role"`
	Parts     []Part    `json:"parts"`
	CreatedAt time.Time `json:"created_at"`
}

// Text concatenates the message's text parts in order, skipping image and
// file parts. An all-binary message yields the empty string.
func (m Message) Text() string {
	var sb strings.Builder

	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			sb.WriteString(tp.Text)
		}
	}

	return sb.String()
}

// Annotations collects the annotations of all text parts in order.
func (m Message) Annotations() []Annotation {
	var anns []Annotation

	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			anns = append(anns, tp.Annotations...)
		}
	}

	return anns
}
