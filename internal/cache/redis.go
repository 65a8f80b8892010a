package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/JasonLinn/cryo-booking/config"
	"github.com/JasonLinn/cryo-booking/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client       *redis.Client
	equipmentTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, equipmentTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		equipmentTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, equipmentTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, equipmentTTL: equipmentTTL}
}

// GetEquipment returns nil, nil on a cache miss.
func (c *RedisCache) GetEquipment(ctx context.Context) ([]domain.Equipment, error) {
	data, err := c.client.Get(ctx, equipmentKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var list []domain.Equipment
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *RedisCache) SetEquipment(ctx context.Context, list []domain.Equipment) error {
	payload, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, equipmentKey(), payload, c.equipmentTTL).Err()
}

// InvalidateEquipment drops the cached list. Called after every equipment
// write and after booking status changes that move the upcoming counters.
func (c *RedisCache) InvalidateEquipment(ctx context.Context) error {
	return c.client.Del(ctx, equipmentKey()).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func equipmentKey() string {
	return "cache:equipment:active"
}
