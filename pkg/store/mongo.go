package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore persists renders in a MongoDB collection, keyed by graph hash
// via the _id field.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Save upserts the render under its graph hash.
func (s *MongoStore) Save(ctx context.Context, r Render) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": r.Hash},
		r,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save render %s: %w", r.Hash, err)
	}
	return nil
}

// Get returns the render stored under hash, or ErrNotFound.
func (s *MongoStore) Get(ctx context.Context, hash string) (Render, error) {
	var r Render
	err := s.coll.FindOne(ctx, bson.M{"_id": hash}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Render{}, ErrNotFound
	}
	if err != nil {
		return Render{}, fmt.Errorf("get render %s: %w", hash, err)
	}
	return r, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
