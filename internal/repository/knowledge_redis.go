package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"akinator/internal/domain/kb"
	appErrors "akinator/internal/errors"
)

// RedisKnowledgeStore keeps the latest snapshot as JSON under one key.
// The previous snapshot is kept under key+":prev".
type RedisKnowledgeStore struct {
	client *redis.Client
	key    string
	log    *zap.SugaredLogger
}

func NewRedisKnowledgeStore(client *redis.Client, key string, log *zap.SugaredLogger) *RedisKnowledgeStore {
	return &RedisKnowledgeStore{client: client, key: key, log: log}
}

func (r *RedisKnowledgeStore) Describe() string {
	return "redis key " + r.key
}

func (r *RedisKnowledgeStore) Load(ctx context.Context) (kb.Snapshot, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return kb.Snapshot{}, appErrors.ErrBaseNotFound
	}
	if err != nil {
		return kb.Snapshot{}, fmt.Errorf("redis get %s: %w", r.key, err)
	}

	var snapshot kb.Snapshot
	if err := json.Unmarshal([]byte(val), &snapshot); err != nil {
		return kb.Snapshot{}, fmt.Errorf("%w: redis value: %v", appErrors.ErrCorruptKnowledgeBase, err)
	}
	return snapshot, nil
}

func (r *RedisKnowledgeStore) Save(ctx context.Context, snapshot kb.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Copy(ctx, r.key, r.key+":prev", 0, true)
		pipe.Set(ctx, r.key, data, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save %s: %w", r.key, err)
	}

	r.log.Infow("knowledge base written", "redis_key", r.key, "snapshot", snapshot.ID)
	return nil
}
