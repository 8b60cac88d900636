package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/bissaliev/ReferalProject/config"
)

// Client Redis 客户端封装
// 承载短信验证码（带 TTL）、请求限流与 Token 黑名单
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// Ping 健康检查
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// ── 短信验证码 ──

const verifyCodePrefix = "verify:code:"

// 读取、比较、删除在服务端一次完成，同一验证码只能被消费一次
var verifyAndConsumeScript = goredis.NewScript(`
local stored = redis.call("GET", KEYS[1])
if stored and stored == ARGV[1] then
	redis.call("DEL", KEYS[1])
	return 1
end
return 0
`)

// PutVerificationCode 写入验证码，覆盖同一手机号的旧验证码并重置 TTL
func (c *Client) PutVerificationCode(ctx context.Context, phone, code string, ttl time.Duration) error {
	return c.rdb.Set(ctx, verifyCodePrefix+phone, code, ttl).Err()
}

// GetVerificationCode 读取验证码；不存在或已过期时 ok=false
func (c *Client) GetVerificationCode(ctx context.Context, phone string) (string, bool, error) {
	code, err := c.rdb.Get(ctx, verifyCodePrefix+phone).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return code, true, nil
}

// DeleteVerificationCode 删除验证码，键不存在时不报错
func (c *Client) DeleteVerificationCode(ctx context.Context, phone string) error {
	return c.rdb.Del(ctx, verifyCodePrefix+phone).Err()
}

// VerifyAndConsumeCode 比对验证码，匹配时原子删除；不匹配时保留原值
func (c *Client) VerifyAndConsumeCode(ctx context.Context, phone, candidate string) (bool, error) {
	n, err := verifyAndConsumeScript.Run(ctx, c.rdb, []string{verifyCodePrefix + phone}, candidate).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ── 速率限制 ──

// CheckRateLimit 滑动窗口计数，窗口内请求数不超过 limit 时返回 true
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	minScore := fmt.Sprintf("%d", now.Add(-window).UnixNano())

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", "("+minScore)
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	count := pipe.ZCard(ctx, key)
	pipe.PExpire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return count.Val() <= int64(limit), nil
}

// ── Token 黑名单 ──

const blacklistPrefix = "token:blacklist:"

// BlacklistToken 将 JWT ID 加入黑名单，TTL 与 Token 剩余有效期一致
func (c *Client) BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // Token 已过期，无需加入黑名单
	}
	return c.rdb.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
