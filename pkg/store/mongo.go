package store

import (
	"context"
	goerrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lennartvogel/foldview/pkg/errors"
)

// MongoStore keeps one document per model in a MongoDB collection, for
// deployments where constraint sets should survive store restarts and be
// queryable alongside other editor documents.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string // e.g. mongodb://localhost:27017
	Database   string // defaults to "foldview"
	Collection string // defaults to "constraints"
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "foldview"
	}
	if cfg.Collection == "" {
		cfg.Collection = "constraints"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "connect to mongodb at %s", cfg.URI)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "ping mongodb at %s", cfg.URI)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Get retrieves the model's constraint set, or nil, nil when absent.
func (s *MongoStore) Get(ctx context.Context, modelID string) (*ConstraintSet, error) {
	var cs ConstraintSet
	err := s.coll.FindOne(ctx, bson.M{"model_id": modelID}).Decode(&cs)
	if goerrors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read constraints for %s", modelID)
	}
	return &cs, nil
}

// Put upserts the model's document.
func (s *MongoStore) Put(ctx context.Context, cs *ConstraintSet) error {
	if err := validateSet(cs); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"model_id": cs.ModelID},
		cs,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write constraints for %s", cs.ModelID)
	}
	return nil
}

// Delete removes the model's document if present.
func (s *MongoStore) Delete(ctx context.Context, modelID string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"model_id": modelID}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete constraints for %s", modelID)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
