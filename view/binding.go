// Package view 把拉取式的内容加载包装成可订阅的状态，供页面接口使用
package view

import (
	"context"
	"strings"
	"sync"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/utils"
)

// Status 绑定状态
type Status string

const (
	StatusIdle     Status = "idle"
	StatusLoading  Status = "loading"
	StatusReady    Status = "ready"
	StatusDegraded Status = "degraded"
)

// State 某一时刻的绑定状态。Loading为true时Data不保证有值
type State[T any] struct {
	Data       T      `json:"data"`
	Loading    bool   `json:"loading"`
	Error      string `json:"error,omitempty"`
	IsValid    bool   `json:"isValid"`
	IsFallback bool   `json:"isFallback"`
	Status     Status `json:"status"`
}

// LoadFunc 加载函数，通常是 DataLoader 的某个 LoadXxx 方法
type LoadFunc[T any] func(ctx context.Context) models.DataLoadResult[T]

// Binding 一个集合的状态绑定
type Binding[T any] struct {
	name string
	load LoadFunc[T]

	mu      sync.Mutex
	state   State[T]
	mounted bool
	done    chan struct{}
	subs    map[int]func(State[T])
	nextSub int
}

// NewBinding 创建绑定，初始状态为Idle
func NewBinding[T any](name string, load LoadFunc[T]) *Binding[T] {
	return &Binding[T]{
		name:  name,
		load:  load,
		state: State[T]{Status: StatusIdle},
		subs:  make(map[int]func(State[T])),
	}
}

// Name 绑定的集合名
func (b *Binding[T]) Name() string {
	return b.name
}

// Mount 首次调用时触发加载，之后的调用只返回首次加载的完成信号
func (b *Binding[T]) Mount(ctx context.Context) <-chan struct{} {
	b.mu.Lock()
	if b.mounted {
		done := b.done
		b.mu.Unlock()
		return done
	}
	b.mounted = true
	done, snapshot, subs := b.startLocked()
	b.mu.Unlock()

	notify(subs, snapshot)
	go b.run(ctx, done)
	return done
}

// Retry 重新调用加载(不强制清除缓存)。加载进行中时不重复发起，返回进行中的完成信号
func (b *Binding[T]) Retry(ctx context.Context) <-chan struct{} {
	b.mu.Lock()
	if b.state.Loading {
		done := b.done
		b.mu.Unlock()
		utils.Logger.Debug().Str("collection", b.name).Msg("[页面绑定] 加载进行中，忽略重试")
		return done
	}
	b.mounted = true
	done, snapshot, subs := b.startLocked()
	b.mu.Unlock()

	notify(subs, snapshot)
	go b.run(ctx, done)
	return done
}

// Wait 阻塞到当前加载结束或ctx结束。未挂载时立即返回
func (b *Binding[T]) Wait(ctx context.Context) error {
	b.mu.Lock()
	done := b.done
	b.mu.Unlock()
	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State 返回当前状态快照
func (b *Binding[T]) State() State[T] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Snapshot 以any形式返回状态，供不关心具体类型的调用方使用
func (b *Binding[T]) Snapshot() State[any] {
	s := b.State()
	return State[any]{
		Data:       s.Data,
		Loading:    s.Loading,
		Error:      s.Error,
		IsValid:    s.IsValid,
		IsFallback: s.IsFallback,
		Status:     s.Status,
	}
}

// Subscribe 注册状态变更回调，返回取消函数。回调在锁外同步调用
func (b *Binding[T]) Subscribe(fn func(State[T])) func() {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.subs[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// startLocked 切换到Loading，调用方需持有锁
func (b *Binding[T]) startLocked() (chan struct{}, State[T], []func(State[T])) {
	b.done = make(chan struct{})
	b.state.Loading = true
	b.state.Status = StatusLoading
	return b.done, b.state, b.subscribersLocked()
}

func (b *Binding[T]) run(ctx context.Context, done chan struct{}) {
	// 加载一旦开始就跑完，不随调用方取消
	result := b.load(context.WithoutCancel(ctx))

	next := State[T]{
		Data:       result.Data,
		Loading:    false,
		Error:      strings.Join(result.Errors, ", "),
		IsValid:    result.IsValid,
		IsFallback: result.IsFallback,
		Status:     StatusReady,
	}
	if result.IsFallback || !result.IsValid {
		next.Status = StatusDegraded
	}

	b.mu.Lock()
	b.state = next
	subs := b.subscribersLocked()
	close(done)
	b.mu.Unlock()

	if next.Status == StatusDegraded {
		utils.Logger.Warn().Str("collection", b.name).Str("error", next.Error).Msg("[页面绑定] 使用占位数据")
	}
	notify(subs, next)
}

func (b *Binding[T]) subscribersLocked() []func(State[T]) {
	subs := make([]func(State[T]), 0, len(b.subs))
	for _, fn := range b.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify[T any](subs []func(State[T]), s State[T]) {
	for _, fn := range subs {
		fn(s)
	}
}
