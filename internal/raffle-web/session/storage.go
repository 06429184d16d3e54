package session

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

const tokenKey = "raffle:admin_token"

// RedisStorage persiste o token de admin no Redis.
type RedisStorage struct {
	R *redis.Client
}

func NewRedisStorage(r *redis.Client) *RedisStorage { return &RedisStorage{R: r} }

func (s *RedisStorage) Load(ctx context.Context) (string, error) {
	t, err := s.R.Get(ctx, tokenKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	return t, err
}

func (s *RedisStorage) Save(ctx context.Context, token string) error {
	return s.R.Set(ctx, tokenKey, token, 0).Err()
}

func (s *RedisStorage) Clear(ctx context.Context) error {
	return s.R.Del(ctx, tokenKey).Err()
}

// MemoryStorage é usado em testes e quando não há Redis configurado.
type MemoryStorage struct {
	mu    sync.Mutex
	token string
}

func (s *MemoryStorage) Load(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStorage) Save(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStorage) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
