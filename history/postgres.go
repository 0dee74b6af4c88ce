package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/sweetpotato0/krishigpt/config"
	krishierrors "github.com/sweetpotato0/krishigpt/errors"
	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/message"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DefaultPostgresConfig returns default PostgreSQL configuration
func DefaultPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		DBName:   "krishigpt",
		SSLMode:  "disable",
	}
}

// NewPostgresStore creates a PostgreSQL-backed history store
func NewPostgresStore(cfg *PostgresConfig) (*PostgresStore, error) {
	if cfg == nil {
		cfg = DefaultPostgresConfig()
	}

	if err := config.ValidatePostgresConfig(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	store := &PostgresStore{db: db}

	if err := store.createTable(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return store, nil
}

// createTable creates the messages table if it doesn't exist
func (s *PostgresStore) createTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS messages (
		id VARCHAR(255) PRIMARY KEY,
		conversation_id VARCHAR(255) NOT NULL,
		role VARCHAR(32) NOT NULL,
		content TEXT NOT NULL,
		confidence VARCHAR(16),
		tokens_used INTEGER,
		metadata JSONB,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at);
	`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *PostgresStore) Append(ctx context.Context, conversationID string, msg *message.Message) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", krishierrors.ErrInvalidInput)
	}

	var metadata []byte
	if msg.Metadata != nil {
		var err error
		metadata, err = json.Marshal(msg.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
	}

	query := `
	INSERT INTO messages (id, conversation_id, role, content, confidence, tokens_used, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		msg.ID, conversationID, string(msg.Role), msg.Content,
		string(msg.Confidence), msg.TokensUsed, metadata, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, conversationID string, limit int) ([]*message.Message, error) {
	query := `
	SELECT id, role, content, confidence, tokens_used, metadata, created_at
	FROM messages
	WHERE conversation_id = $1
	ORDER BY created_at DESC
	`
	args := []interface{}{conversationID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var newestFirst []*message.Message
	for rows.Next() {
		var (
			msg        message.Message
			role       string
			confidence sql.NullString
			tokens     sql.NullInt64
			metadata   []byte
		)
		if err := rows.Scan(&msg.ID, &role, &msg.Content, &confidence, &tokens, &metadata, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.ConversationID = conversationID
		msg.Role = message.Role(role)
		if confidence.Valid {
			msg.Confidence = farm.ConfidenceLevel(confidence.String)
		}
		if tokens.Valid {
			msg.TokensUsed = int(tokens.Int64)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &msg.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}
		newestFirst = append(newestFirst, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}

	// Reverse to oldest-first order.
	msgs := make([]*message.Message, len(newestFirst))
	for i, msg := range newestFirst {
		msgs[len(newestFirst)-1-i] = msg
	}
	return msgs, nil
}

func (s *PostgresStore) Clear(ctx context.Context, conversationID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM messages WHERE conversation_id = $1", conversationID); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close(_ context.Context) error {
	return s.db.Close()
}
