package history

import (
	"context"
	"errors"
	"fmt"
	"testing"

	krishierrors "github.com/sweetpotato0/krishigpt/errors"
	"github.com/sweetpotato0/krishigpt/message"
)

func TestMemoryStoreAppendAndRecent(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		msg := message.NewMessage(message.RoleUser, fmt.Sprintf("msg-%d", i))
		if err := s.Append(ctx, "conv-1", msg); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	msgs, err := s.Recent(ctx, "conv-1", 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("Recent() returned %d messages, want 3", len(msgs))
	}
	// Oldest first within the window.
	for i, want := range []string{"msg-2", "msg-3", "msg-4"} {
		if msgs[i].Content != want {
			t.Errorf("msgs[%d].Content = %q, want %q", i, msgs[i].Content, want)
		}
	}
}

func TestMemoryStoreRecentZeroLimit(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	_ = s.Append(ctx, "conv", message.NewMessage(message.RoleUser, "hi"))

	msgs, err := s.Recent(ctx, "conv", 0)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(msgs) != 1 {
		t.Errorf("zero limit should return everything, got %d", len(msgs))
	}
}

func TestMemoryStoreIsolatesConversations(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	_ = s.Append(ctx, "conv-a", message.NewMessage(message.RoleUser, "a"))
	_ = s.Append(ctx, "conv-b", message.NewMessage(message.RoleUser, "b"))

	msgs, _ := s.Recent(ctx, "conv-a", 10)
	if len(msgs) != 1 || msgs[0].Content != "a" {
		t.Errorf("conv-a history = %v", msgs)
	}
}

func TestMemoryStoreBoundedSize(t *testing.T) {
	s := NewMemoryStore(2)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_ = s.Append(ctx, "conv", message.NewMessage(message.RoleUser, fmt.Sprintf("msg-%d", i)))
	}

	msgs, _ := s.Recent(ctx, "conv", 10)
	if len(msgs) != 2 {
		t.Fatalf("bounded store kept %d messages, want 2", len(msgs))
	}
	if msgs[0].Content != "msg-2" || msgs[1].Content != "msg-3" {
		t.Errorf("bounded store should keep the newest, got %v, %v", msgs[0].Content, msgs[1].Content)
	}
}

func TestMemoryStoreClear(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	_ = s.Append(ctx, "conv", message.NewMessage(message.RoleUser, "hi"))
	if err := s.Clear(ctx, "conv"); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	msgs, _ := s.Recent(ctx, "conv", 10)
	if len(msgs) != 0 {
		t.Errorf("history not cleared, got %d messages", len(msgs))
	}
}

func TestMemoryStoreRejectsInvalidInput(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	if err := s.Append(ctx, "conv", nil); !errors.Is(err, krishierrors.ErrInvalidInput) {
		t.Errorf("Append(nil) error = %v, want ErrInvalidInput", err)
	}
	if err := s.Append(ctx, "", message.NewMessage(message.RoleUser, "hi")); !errors.Is(err, krishierrors.ErrInvalidInput) {
		t.Errorf("Append with empty conversation error = %v, want ErrInvalidInput", err)
	}
}

func TestMemoryStoreCopiesMessages(t *testing.T) {
	s := NewMemoryStore(0)
	ctx := context.Background()

	original := message.NewMessage(message.RoleUser, "original")
	_ = s.Append(ctx, "conv", original)
	original.Content = "mutated"

	msgs, _ := s.Recent(ctx, "conv", 1)
	if msgs[0].Content != "original" {
		t.Error("store must not share message memory with the caller")
	}
}
