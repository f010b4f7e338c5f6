package cli

import (
	"context"
	"path/filepath"

	"github.com/lennartvogel/foldview/pkg/errors"
	"github.com/lennartvogel/foldview/pkg/store"
)

// openStore builds the constraint store selected by cfg. A "none" or empty
// backend returns nil: persistence is off and callers pass the nil store
// through to the pipeline.
func openStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return store.NewMemoryStore(), nil
	case "file":
		dir := cfg.Dir
		if dir == "" {
			base, err := dataDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeStore, err, "resolve store directory")
			}
			dir = filepath.Join(base, "constraints")
		}
		return store.NewFileStore(dir)
	case "redis":
		return store.NewRedisStore(ctx, store.RedisConfig{Addr: cfg.RedisAddr})
	case "mongo":
		return store.NewMongoStore(ctx, store.MongoConfig{URI: cfg.MongoURI})
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
}
