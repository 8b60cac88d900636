package verification

import (
	"context"
	"time"
)

// redisBackend 由 pkg/redis.Client 实现
type redisBackend interface {
	PutVerificationCode(ctx context.Context, phone, code string, ttl time.Duration) error
	GetVerificationCode(ctx context.Context, phone string) (string, bool, error)
	DeleteVerificationCode(ctx context.Context, phone string) error
	VerifyAndConsumeCode(ctx context.Context, phone, candidate string) (bool, error)
}

// RedisStore 基于 Redis 的验证码存储，过期依赖 Redis 原生 TTL
type RedisStore struct {
	client redisBackend
	ttl    time.Duration
}

// NewRedisStore 创建 Redis 存储，ttl<=0 时使用 DefaultTTL
func NewRedisStore(client redisBackend, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, phone, code string) error {
	return s.client.PutVerificationCode(ctx, phone, code, s.ttl)
}

func (s *RedisStore) Peek(ctx context.Context, phone string) (string, bool, error) {
	return s.client.GetVerificationCode(ctx, phone)
}

func (s *RedisStore) Consume(ctx context.Context, phone string) error {
	return s.client.DeleteVerificationCode(ctx, phone)
}

func (s *RedisStore) Verify(ctx context.Context, phone, candidate string) (bool, error) {
	return s.client.VerifyAndConsumeCode(ctx, phone, candidate)
}
