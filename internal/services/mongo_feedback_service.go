package services

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/alertify/backend/internal/models"
)

// MongoFeedbackStore is the server-authoritative FeedbackStore. The
// rate-limit query reads the newest entry per user off the
// (user_id, created_at desc) index.
type MongoFeedbackStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewMongoFeedbackStore(ctx context.Context, mongoURI, dbName string) (*MongoFeedbackStore, error) {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	col := client.Database(dbName).Collection("feedback")

	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})

	return &MongoFeedbackStore{client: client, col: col}, nil
}

func (s *MongoFeedbackStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoFeedbackStore) Insert(ctx context.Context, entry *models.FeedbackEntry) error {
	_, err := s.col.InsertOne(ctx, entry)
	return err
}

func (s *MongoFeedbackStore) LastByUser(ctx context.Context, userID string) (*models.FeedbackEntry, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var entry models.FeedbackEntry
	err := s.col.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *MongoFeedbackStore) ListRecent(ctx context.Context, limit int) ([]*models.FeedbackEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []*models.FeedbackEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
