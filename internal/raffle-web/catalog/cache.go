package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache segura as respostas públicas do backend (categorias e slideshow)
// por um TTL curto, pra home e a página de apostas não martelarem a API.
type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

const (
	keyCategories = "raffle:categories"
	keySlideshow  = "raffle:slideshow"

	DefaultTTL = 30 * time.Second
)

func (c *Cache) get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, key, b, ttl).Err()
}

func (c *Cache) GetCategories(ctx context.Context, dst any) (bool, error) {
	return c.get(ctx, keyCategories, dst)
}

func (c *Cache) SetCategories(ctx context.Context, v any, ttl time.Duration) error {
	return c.set(ctx, keyCategories, v, ttl)
}

func (c *Cache) GetSlideshow(ctx context.Context, dst any) (bool, error) {
	return c.get(ctx, keySlideshow, dst)
}

func (c *Cache) SetSlideshow(ctx context.Context, v any, ttl time.Duration) error {
	return c.set(ctx, keySlideshow, v, ttl)
}
