// Package cache 进程内TTL缓存，同一个key的并发加载合并为一次
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL 内容集合默认缓存时间
const DefaultTTL = 10 * time.Minute

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

// Cache 带TTL的内存缓存。不持久化，重启即失效
type Cache struct {
	mu          sync.Mutex
	entries     map[string]entry
	generations map[string]uint64
	epoch       uint64
	ttl         time.Duration
	now         func() time.Time
	group       singleflight.Group
}

// Option 缓存选项
type Option func(*Cache)

// WithClock 替换时间源，测试用
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New 创建缓存，ttl<=0 时使用 DefaultTTL
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		entries:     make(map[string]entry),
		generations: make(map[string]uint64),
		ttl:         ttl,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL 返回配置的缓存时间
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get 返回未过期的缓存值；过期条目会被删除
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) < e.ttl {
		return e.value, true
	}
	delete(c.entries, key)
	return nil, false
}

// Set 以当前时间和配置的TTL写入
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(key, value)
}

func (c *Cache) setLocked(key string, value any) {
	c.entries[key] = entry{value: value, storedAt: c.now(), ttl: c.ttl}
}

// Generation 返回key当前的失效代数，每次Invalidate递增
func (c *Cache) Generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch + c.generations[key]
}

// SetIfGeneration 只有在gen之后没有发生过Invalidate时才写入，
// 避免与写操作并发的加载把旧数据重新放回缓存
func (c *Cache) SetIfGeneration(key string, value any, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.epoch+c.generations[key] != gen {
		return false
	}
	c.setLocked(key, value)
	return true
}

// GetOrLoad 对同一个key同时只执行一次fn，其余调用者等待并共享结果。
// fn结束(成功或失败)后清除进行中的标记。shared表示结果是否由多个调用者共享
func (c *Cache) GetOrLoad(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (value any, shared bool, err error) {
	ch := c.group.DoChan(key, func() (any, error) {
		// 加载不随单个调用者取消
		return fn(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		return res.Val, res.Shared, res.Err
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

// Invalidate 删除指定key并递增其代数；进行中的加载不会再写入缓存
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
		c.generations[key]++
		c.group.Forget(key)
	}
}

// Clear 清空所有条目，进行中的加载结果同样不再写入
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		c.group.Forget(key)
	}
	c.entries = make(map[string]entry)
	c.epoch++
}

// Len 当前条目数(含尚未被访问清理的过期条目)
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
