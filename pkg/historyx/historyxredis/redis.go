// Package historyxredis implements historyx.Store backed by Redis.
package historyxredis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmichel1/vigil/pkg/historyx"
)

// RedisStore implements historyx.Store backed by Redis lists.
type RedisStore struct {
	rdb *redis.Client

	// maxPerWatch caps each watch's history list; 0 keeps everything.
	maxPerWatch int64
}

// NewRedisStore creates a new Redis-backed history store.
func NewRedisStore(rdb *redis.Client, maxPerWatch int64) *RedisStore {
	return &RedisStore{rdb: rdb, maxPerWatch: maxPerWatch}
}

// Key helpers
func watchKey(watchID string) string { return fmt.Sprintf("historyx:watch:%s", watchID) }
func recordKey(id string) string     { return fmt.Sprintf("historyx:record:%s", id) }

// Record stores one execution record and pushes it onto the watch's list.
func (s *RedisStore) Record(ctx context.Context, record historyx.Record) (string, error) {
	record.ID = uuid.NewString()

	data, err := json.Marshal(record)
	if err != nil {
		return "", redisErrors.NewWithCause(ErrMarshal, err)
	}

	pipe := s.rdb.Pipeline()
	pipe.Set(ctx, recordKey(record.ID), data, 0)
	pipe.LPush(ctx, watchKey(record.WatchID), record.ID)
	if s.maxPerWatch > 0 {
		pipe.LTrim(ctx, watchKey(record.WatchID), 0, s.maxPerWatch-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return "", redisErrors.NewWithCause(ErrWrite, err).WithDetail("watch_id", record.WatchID)
	}

	return record.ID, nil
}

// List returns the newest records for a watch, up to limit.
func (s *RedisStore) List(ctx context.Context, watchID string, limit int) ([]historyx.Record, error) {
	end := int64(-1)
	if limit > 0 {
		end = int64(limit) - 1
	}

	ids, err := s.rdb.LRange(ctx, watchKey(watchID), 0, end).Result()
	if err != nil {
		return nil, redisErrors.NewWithCause(ErrRead, err).WithDetail("watch_id", watchID)
	}

	records := make([]historyx.Record, 0, len(ids))
	for _, id := range ids {
		data, err := s.rdb.Get(ctx, recordKey(id)).Bytes()
		if err == redis.Nil {
			continue // record expired or trimmed out from under the index
		}
		if err != nil {
			return nil, redisErrors.NewWithCause(ErrRead, err).WithDetail("record_id", id)
		}
		var record historyx.Record
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, redisErrors.NewWithCause(ErrMarshal, err).WithDetail("record_id", id)
		}
		records = append(records, record)
	}
	return records, nil
}
