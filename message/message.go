package message

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sweetpotato0/krishigpt/farm"
)

// Role represents the role of the message sender
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents a single message in a farmer conversation.
type Message struct {
	ID             string               `json:"id"`
	ConversationID string               `json:"conversation_id,omitempty"`
	Role           Role                 `json:"role"`
	Content        string               `json:"content"`
	Confidence     farm.ConfidenceLevel `json:"confidence,omitempty"`
	TokensUsed     int                  `json:"tokens_used,omitempty"`
	Metadata       map[string]any       `json:"metadata,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

// NewMessage creates a new message with the given role and content
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// Text returns the message content.
func (m *Message) Text() string {
	if m == nil {
		return ""
	}
	return m.Content
}

// Clone creates a copy of the message.
func Clone(msg *Message) *Message {
	if msg == nil {
		return nil
	}
	cloned := *msg
	if msg.Metadata != nil {
		cloned.Metadata = make(map[string]any, len(msg.Metadata))
		for k, v := range msg.Metadata {
			cloned.Metadata[k] = v
		}
	}
	return &cloned
}

// CloneMessages copies a slice of messages.
func CloneMessages(msgs []*Message) []*Message {
	if len(msgs) == 0 {
		return nil
	}
	clones := make([]*Message, 0, len(msgs))
	for _, msg := range msgs {
		clones = append(clones, Clone(msg))
	}
	return clones
}

var idCounter atomic.Int64

// generateID generates a unique message ID
func generateID() string {
	return fmt.Sprintf("msg_%d_%d", time.Now().UnixNano(), idCounter.Add(1))
}
