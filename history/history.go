// Package history persists conversation messages and replays a sliding
// window of them into the prompt.
package history

import (
	"context"
	"fmt"
	"sync"

	krishierrors "github.com/sweetpotato0/krishigpt/errors"
	"github.com/sweetpotato0/krishigpt/message"
)

// Store persists conversation history.
type Store interface {
	// Append adds a message to a conversation.
	Append(ctx context.Context, conversationID string, msg *message.Message) error

	// Recent returns up to limit most recent messages, oldest first.
	Recent(ctx context.Context, conversationID string, limit int) ([]*message.Message, error)

	// Clear removes a conversation's history.
	Clear(ctx context.Context, conversationID string) error

	// Close releases any underlying resources.
	Close(ctx context.Context) error
}

// MemoryStore keeps history in process memory. Suitable for tests and
// single-instance deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	history map[string][]*message.Message
	maxSize int // per conversation, 0 means unbounded
}

// NewMemoryStore creates an in-memory history store. maxSize bounds the
// number of messages kept per conversation; 0 keeps everything.
func NewMemoryStore(maxSize int) *MemoryStore {
	return &MemoryStore{
		history: make(map[string][]*message.Message),
		maxSize: maxSize,
	}
}

func (s *MemoryStore) Append(_ context.Context, conversationID string, msg *message.Message) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", krishierrors.ErrInvalidInput)
	}
	if conversationID == "" {
		return fmt.Errorf("%w: conversation ID is empty", krishierrors.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := append(s.history[conversationID], message.Clone(msg))
	if s.maxSize > 0 && len(msgs) > s.maxSize {
		msgs = msgs[len(msgs)-s.maxSize:]
	}
	s.history[conversationID] = msgs
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, conversationID string, limit int) ([]*message.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.history[conversationID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return message.CloneMessages(msgs), nil
}

func (s *MemoryStore) Clear(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.history, conversationID)
	return nil
}

func (s *MemoryStore) Close(_ context.Context) error {
	return nil
}
