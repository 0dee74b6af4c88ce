package history

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetpotato0/krishigpt/config"
	krishierrors "github.com/sweetpotato0/krishigpt/errors"
	"github.com/sweetpotato0/krishigpt/farm"
	"github.com/sweetpotato0/krishigpt/message"
)

// MongoStore implements Store using MongoDB
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig holds MongoDB connection configuration
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// DefaultMongoConfig returns default MongoDB configuration
func DefaultMongoConfig() *MongoConfig {
	return &MongoConfig{
		URI:        "mongodb://localhost:27017",
		Database:   "krishigpt",
		Collection: "messages",
	}
}

// mongoMessage is the internal representation for MongoDB
type mongoMessage struct {
	ID             string         `bson:"_id"`
	ConversationID string         `bson:"conversation_id"`
	Role           string         `bson:"role"`
	Content        string         `bson:"content"`
	Confidence     string         `bson:"confidence,omitempty"`
	TokensUsed     int            `bson:"tokens_used,omitempty"`
	Metadata       map[string]any `bson:"metadata,omitempty"`
	CreatedAt      time.Time      `bson:"created_at"`
}

// NewMongoStore creates a MongoDB-backed history store
func NewMongoStore(cfg *MongoConfig) (*MongoStore, error) {
	if cfg == nil {
		cfg = DefaultMongoConfig()
	}

	if err := config.ValidateMongoDBConfig(cfg.URI, cfg.Database, cfg.Collection); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(cfg.Database).Collection(cfg.Collection)

	store := &MongoStore{
		client:     client,
		collection: collection,
	}

	if err := store.createIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return store, nil
}

// createIndexes creates indexes for efficient conversation queries
func (s *MongoStore) createIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "conversation_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	}

	_, err := s.collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

func (s *MongoStore) Append(ctx context.Context, conversationID string, msg *message.Message) error {
	if msg == nil {
		return fmt.Errorf("%w: message is nil", krishierrors.ErrInvalidInput)
	}

	doc := mongoMessage{
		ID:             msg.ID,
		ConversationID: conversationID,
		Role:           string(msg.Role),
		Content:        msg.Content,
		Confidence:     string(msg.Confidence),
		TokensUsed:     msg.TokensUsed,
		Metadata:       msg.Metadata,
		CreatedAt:      msg.CreatedAt,
	}

	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (s *MongoStore) Recent(ctx context.Context, conversationID string, limit int) ([]*message.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := s.collection.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoMessage
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}

	// Reverse to oldest-first order.
	msgs := make([]*message.Message, len(docs))
	for i, doc := range docs {
		msgs[len(docs)-1-i] = &message.Message{
			ID:             doc.ID,
			ConversationID: doc.ConversationID,
			Role:           message.Role(doc.Role),
			Content:        doc.Content,
			Confidence:     farm.ConfidenceLevel(doc.Confidence),
			TokensUsed:     doc.TokensUsed,
			Metadata:       doc.Metadata,
			CreatedAt:      doc.CreatedAt,
		}
	}
	return msgs, nil
}

func (s *MongoStore) Clear(ctx context.Context, conversationID string) error {
	if _, err := s.collection.DeleteMany(ctx, bson.M{"conversation_id": conversationID}); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
