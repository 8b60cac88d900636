package verification

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore 进程内验证码存储
// Redis 不可用时降级使用；过期在读取时惰性判定
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryStore 创建内存存储，ttl<=0 时使用 DefaultTTL，now 为 nil 时使用 time.Now
func NewMemoryStore(ttl time.Duration, now func() time.Time) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Put(_ context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[phone] = memoryEntry{code: code, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Peek(_ context.Context, phone string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lookupLocked(phone)
	if !ok {
		return "", false, nil
	}
	return e.code, true, nil
}

func (s *MemoryStore) Consume(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, phone)
	return nil
}

func (s *MemoryStore) Verify(_ context.Context, phone, candidate string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lookupLocked(phone)
	if !ok || e.code != candidate {
		return false, nil
	}
	delete(s.entries, phone)
	return true, nil
}

// lookupLocked 读取未过期条目，顺带清理已过期条目；调用方需持有锁
func (s *MemoryStore) lookupLocked(phone string) (memoryEntry, bool) {
	e, ok := s.entries[phone]
	if !ok {
		return memoryEntry{}, false
	}
	// 与 Redis TTL 一致：到达 expiresAt 即失效
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, phone)
		return memoryEntry{}, false
	}
	return e, true
}
