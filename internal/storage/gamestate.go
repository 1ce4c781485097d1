package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Save slot operations (Redis-backed)

func saveKey(session uuid.UUID, slot string) string {
	return "save:" + session.String() + ":" + slot
}

func (r *RedisStorage) Get(ctx context.Context, session uuid.UUID, slot string) (string, bool, error) {
	val, err := r.client.Get(ctx, saveKey(session, slot)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("Failed to load save slot", "session_id", session, "slot", slot, "error", err)
		return "", false, fmt.Errorf("failed to load slot %s: %w", slot, err)
	}
	return val, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, session uuid.UUID, slot, value string) error {
	if err := r.client.Set(ctx, saveKey(session, slot), value, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save slot", "session_id", session, "slot", slot, "error", err)
		return fmt.Errorf("failed to save slot %s: %w", slot, err)
	}
	return nil
}

// Clear deletes every key of the session. Keys are collected over the whole
// SCAN before any is deleted, since deleting mid-scan can skip keys.
func (r *RedisStorage) Clear(ctx context.Context, session uuid.UUID) error {
	pattern := saveKey(session, "*")
	var keys []string
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		r.logger.Error("Failed to scan save keys", "session_id", session, "error", err)
		return fmt.Errorf("failed to scan save keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("Failed to delete save keys", "session_id", session, "error", err)
		return fmt.Errorf("failed to delete save keys: %w", err)
	}
	return nil
}
