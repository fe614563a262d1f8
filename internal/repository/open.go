package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"akinator/internal/adapters"
	"akinator/internal/bootstrap"
	"akinator/internal/domain/kb"
)

type KnowledgeStore interface {
	Load(ctx context.Context) (kb.Snapshot, error)
	Save(ctx context.Context, snapshot kb.Snapshot) error
	Describe() string
}

// Storage is the store picked by cfg.Storage together with whatever
// connection backs it.
type Storage struct {
	Store KnowledgeStore
	close func(ctx context.Context) error
}

func (s *Storage) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

func OpenStorage(ctx context.Context, cfg *bootstrap.Config, log *zap.SugaredLogger) (*Storage, error) {
	switch cfg.Storage {
	case bootstrap.StorageRedis:
		redisAdapter := adapters.NewAdapterRedis(cfg, log)
		if err := redisAdapter.Init(ctx); err != nil {
			return nil, err
		}
		return &Storage{
			Store: NewRedisKnowledgeStore(redisAdapter.GetClient(), cfg.RedisKey, log),
			close: redisAdapter.Close,
		}, nil

	case bootstrap.StorageMongo:
		mongoAdapter := adapters.NewAdapterMongo(cfg, log)
		if err := mongoAdapter.Init(ctx); err != nil {
			return nil, err
		}
		return &Storage{
			Store: NewMongoKnowledgeStore(mongoAdapter.Database, log),
			close: mongoAdapter.Close,
		}, nil

	case bootstrap.StorageFile:
		return &Storage{Store: NewFileKnowledgeStore(cfg.BasePath, log)}, nil
	}
	return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}
