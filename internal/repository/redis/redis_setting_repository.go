// Package redis provides a Redis-backed SettingRepository.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/roguepikachu/pasteshare/internal/repository"
)

const keyPrefix = "setting:"

func settingKey(key string) string { return keyPrefix + key }

// SettingRepository stores settings as plain Redis strings without expiry.
type SettingRepository struct {
	client *redis.Client
}

// NewSettingRepository creates a new Redis-backed setting repository.
func NewSettingRepository(client *redis.Client) *SettingRepository {
	return &SettingRepository{client: client}
}

// Get returns the stored value or repository.ErrNotFound.
func (r *SettingRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, settingKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Set stores value under key.
func (r *SettingRepository) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, settingKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes key; a missing key is not an error.
func (r *SettingRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, settingKey(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (r *SettingRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ repository.SettingRepository = (*SettingRepository)(nil)
