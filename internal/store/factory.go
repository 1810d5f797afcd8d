package store

import (
	"fmt"
	"strings"

	"github.com/soltixdb/rdplines/internal/compression"
	"github.com/soltixdb/rdplines/internal/config"
	"github.com/soltixdb/rdplines/internal/utils"
)

// New creates the artifact store selected by cfg.Backend
func New(cfg config.StorageConfig) (Store, error) {
	algo, err := compression.Parse(cfg.Compression)
	if err != nil {
		return nil, err
	}
	c, err := newCodec(algo)
	if err != nil {
		return nil, err
	}

	switch utils.StorageBackend(strings.ToLower(cfg.Backend)) {
	case "", utils.StorageBackendMemory:
		return newMemoryStore(c), nil

	case utils.StorageBackendBadger:
		return newBadgerStore(cfg.DataDir, c)

	case utils.StorageBackendRedis:
		return newRedisStore(cfg.RedisURL, cfg.RedisDB, cfg.KeyPrefix, c)

	default:
		return nil, fmt.Errorf("unsupported storage backend: %s (supported: memory, badger, redis)", cfg.Backend)
	}
}
