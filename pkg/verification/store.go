// Package verification 保存短信验证码，按手机号索引并在固定时长后失效。
package verification

import (
	"context"
	"time"
)

// DefaultTTL 验证码有效期
const DefaultTTL = 300 * time.Second

// Store 验证码存储
//
// 同一手机号最多保留一个有效验证码；Put 覆盖旧值并重置有效期。
// Verify 成功时在同一原子操作内删除验证码，失败时保留原值。
type Store interface {
	Put(ctx context.Context, phone, code string) error
	Peek(ctx context.Context, phone string) (code string, ok bool, err error)
	Consume(ctx context.Context, phone string) error
	Verify(ctx context.Context, phone, candidate string) (bool, error)
}
