package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"closetrent/internal/models"
	"closetrent/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "closetrent:"

type CacheService interface {
	// GetClothes returns nil, nil on a cache miss.
	GetClothes(ctx context.Context, id uuid.UUID) (*models.Clothes, error)
	SetClothes(ctx context.Context, clothes *models.Clothes, ttl time.Duration) error
	DeleteClothes(ctx context.Context, id uuid.UUID) error

	// GetClothesList returns nil, nil on a cache miss.
	GetClothesList(ctx context.Context) ([]*models.Clothes, error)
	SetClothesList(ctx context.Context, clothes []*models.Clothes, ttl time.Duration) error
	InvalidateClothesList(ctx context.Context) error

	InvalidateAll(ctx context.Context) error
	Ping(ctx context.Context) error
}

func clothesKey(id uuid.UUID) string {
	return fmt.Sprintf("%sclothes:%s", keyPrefix, id.String())
}

func clothesListKey() string {
	return keyPrefix + "clothes:list"
}

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService connects to addr, which may be a bare host:port or a
// redis:// / rediss:// URL.
func NewRedisCacheService(addr, password string, db int) (CacheService, error) {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		if password != "" {
			parsed.Password = password
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	log := logger.WithComponent("cache").WithField("addr", opts.Addr)

	// An unreachable Redis degrades to cache misses, so only warn here.
	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.WithError(pingErr).Warn("Redis ping failed on initialization")
	} else {
		log.Info("Redis connection established")
	}

	return &redisCacheService{client: client}, nil
}

func (r *redisCacheService) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) GetClothes(ctx context.Context, id uuid.UUID) (*models.Clothes, error) {
	var clothes models.Clothes
	found, err := r.getJSON(ctx, clothesKey(id), &clothes)
	if err != nil || !found {
		return nil, err
	}
	return &clothes, nil
}

func (r *redisCacheService) SetClothes(ctx context.Context, clothes *models.Clothes, ttl time.Duration) error {
	return r.setJSON(ctx, clothesKey(clothes.ID), clothes, ttl)
}

func (r *redisCacheService) DeleteClothes(ctx context.Context, id uuid.UUID) error {
	return r.client.Del(ctx, clothesKey(id)).Err()
}

func (r *redisCacheService) GetClothesList(ctx context.Context) ([]*models.Clothes, error) {
	var list []*models.Clothes
	found, err := r.getJSON(ctx, clothesListKey(), &list)
	if err != nil || !found {
		return nil, err
	}
	if list == nil {
		list = make([]*models.Clothes, 0)
	}
	return list, nil
}

func (r *redisCacheService) SetClothesList(ctx context.Context, clothes []*models.Clothes, ttl time.Duration) error {
	return r.setJSON(ctx, clothesListKey(), clothes, ttl)
}

func (r *redisCacheService) InvalidateClothesList(ctx context.Context) error {
	return r.client.Del(ctx, clothesListKey()).Err()
}

func (r *redisCacheService) InvalidateAll(ctx context.Context) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

type noopCacheService struct{}

// NewNoopCacheService returns a cache that always misses. It is used when
// no Redis address is configured.
func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

func (noopCacheService) GetClothes(context.Context, uuid.UUID) (*models.Clothes, error) {
	return nil, nil
}

func (noopCacheService) SetClothes(context.Context, *models.Clothes, time.Duration) error {
	return nil
}

func (noopCacheService) DeleteClothes(context.Context, uuid.UUID) error {
	return nil
}

func (noopCacheService) GetClothesList(context.Context) ([]*models.Clothes, error) {
	return nil, nil
}

func (noopCacheService) SetClothesList(context.Context, []*models.Clothes, time.Duration) error {
	return nil
}

func (noopCacheService) InvalidateClothesList(context.Context) error {
	return nil
}

func (noopCacheService) InvalidateAll(context.Context) error {
	return nil
}

func (noopCacheService) Ping(context.Context) error {
	return nil
}
