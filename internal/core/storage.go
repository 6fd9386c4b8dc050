package core

import (
	"context"
	"fmt"
	"io"

	"roadmapcore/internal/blob"
	"roadmapcore/internal/config"
	"roadmapcore/internal/infra/persistence/blobslot"
	"roadmapcore/internal/infra/persistence/memory"
	"roadmapcore/internal/infra/persistence/postgres"
	"roadmapcore/internal/infra/persistence/redis"
	"roadmapcore/internal/infra/persistence/sqlite"
)

// OpenSlotStore selects a slot backend from cfg.Storage. The file driver
// stores the slot through the blob backend configured in cfg.Blob.
//
//	memory   process-local, lost on exit
//	sqlite   embedded file at storage.sqlite_path
//	postgres storage.postgres_dsn
//	redis    storage.redis_url, keys prefixed with storage.redis_prefix
//	file     slots/<key>.json in the blob store
func OpenSlotStore(ctx context.Context, cfg config.Config) (SlotStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return memory.NewStore(), nil
	case config.StorageSQLite, "":
		return sqlite.NewStore(ctx, cfg.Storage.SQLitePath)
	case config.StoragePostgres:
		return postgres.NewStore(ctx, cfg.Storage.PostgresDSN)
	case config.StorageRedis:
		return redis.NewStore(ctx, cfg.Storage.RedisURL, cfg.Storage.RedisPrefix)
	case config.StorageFile:
		blobs, err := blob.Open(ctx, cfg.Blob)
		if err != nil {
			return nil, fmt.Errorf("open file slot: %w", err)
		}
		return blobslot.New(blobs), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %s", cfg.Storage.Driver)
	}
}

// CloseSlotStore releases backends that hold connections.
func CloseSlotStore(slot SlotStore) error {
	if c, ok := slot.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
