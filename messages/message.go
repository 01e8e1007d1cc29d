// Package messages defines the ordered, role-tagged messages exchanged
// with the model gateway and stored per chat session.
package messages

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-openapi/strfmt"
)

// Role identifies the author of a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged entry in a conversation. Ordering within
// a slice of messages is the conversation order.
type Message struct {
	Role      Role            `json:"role"`
	Content   string          `json:"content"`
	Timestamp strfmt.DateTime `json:"timestamp,omitempty"`
}

// System returns a system message with the given content.
func System(content string) Message {
	return Message{Role: RoleSystem, Content: content, Timestamp: strfmt.DateTime(time.Now())}
}

// User returns a user message with the given content.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content, Timestamp: strfmt.DateTime(time.Now())}
}

// Assistant returns an assistant message with the given content.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content, Timestamp: strfmt.DateTime(time.Now())}
}

// Render flattens messages into "role: content" lines, one per message.
// It is used to inline a conversation window into a summarization prompt.
func Render(msgs []Message) string {
	var sb strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s: %s", msg.Role, msg.Content)
	}
	return sb.String()
}

// LastN returns the trailing n messages, or all of them when fewer exist.
func LastN(msgs []Message, n int) []Message {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
