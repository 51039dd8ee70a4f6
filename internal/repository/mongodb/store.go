package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/store"
)

var _ store.Store = (*Store)(nil)

// Store implements store.Store on a MongoDB database. Record ids are stored
// as the document _id.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Store{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}, nil
}

// Get decodes one document by id.
func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.NotFoundError{Collection: collection, ID: id}
	}
	if err != nil {
		return fmt.Errorf("find %s/%s: %w", collection, id, err)
	}
	return nil
}

// Set upserts the document under id.
func (s *Store) Set(ctx context.Context, collection, id string, doc any) error {
	if id == "" {
		return models.Missing("id")
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc, opts); err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	s.logger.Debug("document stored", zap.String("collection", collection), zap.String("id", id))
	return nil
}

// Query finds documents matching the equality filter, in natural order.
func (s *Store) Query(ctx context.Context, collection string, filter store.Filter, out any) error {
	query := bson.M{}
	for field, value := range filter {
		query[field] = value
	}

	cursor, err := s.db.Collection(collection).Find(ctx, query)
	if err != nil {
		return fmt.Errorf("find %s: %w", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// RunTransaction runs fn inside a MongoDB session transaction. The driver
// retries fn on transient transaction errors, so fn must be safe to rerun.
func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start mongodb session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s)
	})
	return err
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
