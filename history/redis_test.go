package history

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	krishierrors "github.com/sweetpotato0/krishigpt/errors"
	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/message"
)

func TestNewRedisStoreRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  *RedisConfig
	}{
		{"empty addr", &RedisConfig{Addr: "", DB: 0, Prefix: "p:"}},
		{"negative db", &RedisConfig{Addr: "localhost:6379", DB: -1, Prefix: "p:"}},
		{"empty prefix", &RedisConfig{Addr: "localhost:6379", DB: 0, Prefix: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRedisStore(tt.cfg); err == nil {
				t.Error("NewRedisStore() should reject the config")
			}
		})
	}
}

func TestNewRedisStoreDefaults(t *testing.T) {
	// The client connects lazily, so construction needs no server.
	s, err := NewRedisStore(nil)
	if err != nil {
		t.Fatalf("NewRedisStore(nil) error = %v", err)
	}
	defer s.Close(context.Background())

	if got := s.key("conv-1"); got != "krishigpt:history:conv-1" {
		t.Errorf("key() = %q", got)
	}
}

func TestRedisStoreAppendNilMessage(t *testing.T) {
	s, err := NewRedisStore(nil)
	if err != nil {
		t.Fatalf("NewRedisStore(nil) error = %v", err)
	}
	defer s.Close(context.Background())

	if err := s.Append(context.Background(), "conv", nil); !errors.Is(err, krishierrors.ErrInvalidInput) {
		t.Errorf("Append(nil) error = %v, want ErrInvalidInput", err)
	}
}

func TestRedisMessageEncodingRoundTrip(t *testing.T) {
	// List entries are JSON-encoded messages; Recent must decode what
	// Append wrote.
	original := &message.Message{
		ID:             "msg_1",
		ConversationID: "conv-1",
		Role:           message.RoleAssistant,
		Content:        "Apply 50 kg urea per acre.",
		Confidence:     farm.ConfidenceHigh,
		TokensUsed:     42,
		Metadata:       map[string]any{"intent": "fertilizer"},
		CreatedAt:      time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC),
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded message.Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded.ID != original.ID || decoded.Role != original.Role || decoded.Content != original.Content {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
	if decoded.Confidence != farm.ConfidenceHigh {
		t.Errorf("Confidence = %q, want %q", decoded.Confidence, farm.ConfidenceHigh)
	}
	if decoded.TokensUsed != 42 {
		t.Errorf("TokensUsed = %d, want 42", decoded.TokensUsed)
	}
	if got := decoded.Metadata["intent"]; got != "fertilizer" {
		t.Errorf("Metadata[intent] = %v", got)
	}
	if !decoded.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", decoded.CreatedAt, original.CreatedAt)
	}
}
