package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tnhnyldz/LinkShorteningAssignment/internal/models"
)

// CacheRepository кэширует ссылки по полному shortenedUrl. Счётчик кликов
// в кэшированной записи не авторитетен, его всегда даёт БД.
type CacheRepository interface {
	Get(ctx context.Context, shortenedURL string) (*models.Link, error)
	Set(ctx context.Context, shortenedURL string, link *models.Link, ttl time.Duration) error
	Delete(ctx context.Context, shortenedURL string) error
}

type cacheRepository struct {
	redis *RedisDB
}

func NewCacheRepository(redis *RedisDB) CacheRepository {
	return &cacheRepository{redis: redis}
}

func (r *cacheRepository) Get(ctx context.Context, shortenedURL string) (*models.Link, error) {
	data, err := r.redis.Client.Get(ctx, r.key(shortenedURL)).Bytes()
	if err != nil {
		return nil, err
	}

	var link models.Link
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal link: %w", err)
	}

	return &link, nil
}

func (r *cacheRepository) Set(ctx context.Context, shortenedURL string, link *models.Link, ttl time.Duration) error {
	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}

	return r.redis.Client.Set(ctx, r.key(shortenedURL), data, ttl).Err()
}

func (r *cacheRepository) Delete(ctx context.Context, shortenedURL string) error {
	return r.redis.Client.Del(ctx, r.key(shortenedURL)).Err()
}

func (r *cacheRepository) key(shortenedURL string) string {
	return "link:" + shortenedURL
}
