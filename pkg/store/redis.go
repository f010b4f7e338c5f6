package store

import (
	"context"
	"encoding/json"
	goerrors "errors"

	"github.com/redis/go-redis/v9"

	"github.com/lennartvogel/foldview/pkg/errors"
)

// redisKeyPrefix namespaces foldview keys in a shared Redis instance.
const redisKeyPrefix = "foldview:constraints:"

// RedisStore keeps constraint sets as JSON values in Redis. Intended for
// sidecar deployments where several server instances share one store.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string // host:port
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeStoreUnavailable, err, "connect to redis at %s", cfg.Addr)
	}
	return &RedisStore{client: client}, nil
}

// Get retrieves the model's constraint set, or nil, nil when absent.
func (s *RedisStore) Get(ctx context.Context, modelID string) (*ConstraintSet, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+modelID).Bytes()
	if goerrors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read constraints for %s", modelID)
	}
	var cs ConstraintSet
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode constraints for %s", modelID)
	}
	return &cs, nil
}

// Put stores the set without expiry; constraint sets live until the model
// is deleted.
func (s *RedisStore) Put(ctx context.Context, cs *ConstraintSet) error {
	if err := validateSet(cs); err != nil {
		return err
	}
	data, err := json.Marshal(cs)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "encode constraints for %s", cs.ModelID)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+cs.ModelID, data, 0).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write constraints for %s", cs.ModelID)
	}
	return nil
}

// Delete removes the model's key.
func (s *RedisStore) Delete(ctx context.Context, modelID string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+modelID).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete constraints for %s", modelID)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error { return s.client.Close() }

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
