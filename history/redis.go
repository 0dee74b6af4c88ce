package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sweetpotato0/krishigpt/config"
	krishierrors "github.com/sweetpotato0/krishigpt/errors"
	"github.com/sweetpotato0/krishigpt/message"
)

// RedisStore implements Store using a Redis list per conversation.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string        // Redis server address (e.g., "localhost:6379")
	Password string        // Redis password (if any)
	DB       int           // Redis database number
	Prefix   string        // Key prefix for namespacing
	TTL      time.Duration // Conversation expiry (0 means no expiration)
}

// DefaultRedisConfig returns default Redis configuration
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:   "localhost:6379",
		Prefix: "krishigpt:history:",
		TTL:    24 * time.Hour,
	}
}

// NewRedisStore creates a Redis-backed history store
func NewRedisStore(cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil {
		cfg = DefaultRedisConfig()
	}

	if err := config.ValidateRedisConfig(cfg.Addr, cfg.DB, cfg.Prefix); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisStore{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}, nil
}

func (s *RedisStore) key(conversationID string) string {
	return s.prefix + conversationID
}

func (s *RedisStore) Append(ctx context.Context, conversationID string, msg *message.Message) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", krishierrors.ErrInvalidInput)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	key := s.key(conversationID)
	if err := s.client.RPush(ctx, key, data).Err(); err != nil {
		return fmt.Errorf("failed to append message to Redis: %w", err)
	}

	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
			return fmt.Errorf("failed to refresh history TTL: %w", err)
		}
	}
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, conversationID string, limit int) ([]*message.Message, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	items, err := s.client.LRange(ctx, s.key(conversationID), start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history from Redis: %w", err)
	}

	msgs := make([]*message.Message, 0, len(items))
	for _, item := range items {
		var msg message.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		msgs = append(msgs, &msg)
	}
	return msgs, nil
}

func (s *RedisStore) Clear(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, s.key(conversationID)).Err(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *RedisStore) Close(_ context.Context) error {
	return s.client.Close()
}
