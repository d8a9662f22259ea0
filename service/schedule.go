package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/utils"
)

// warmable 可预热的加载器
type warmable interface {
	Warm(ctx context.Context) map[models.ContentType]bool
}

// Warmer 按cron表达式定期预热全部内容集合
type Warmer struct {
	loader   warmable
	schedule string
	cron     *cron.Cron

	mu      sync.Mutex
	runs    int
	lastRun map[models.ContentType]bool
}

// NewWarmer 创建预热任务，schedule支持标准5段cron和 @every 1m 这类描述
func NewWarmer(l warmable, schedule string) (*Warmer, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid warmup schedule %q: %w", schedule, err)
	}
	return &Warmer{
		loader:   l,
		schedule: schedule,
		cron:     cron.New(),
	}, nil
}

// Start 注册并启动定时任务
func (w *Warmer) Start(ctx context.Context) error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		w.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("add warmup job: %w", err)
	}
	w.cron.Start()
	utils.Logger.Info().Str("schedule", w.schedule).Msg("[缓存预热] 定时任务已启动")
	return nil
}

// Stop 停止调度并等待正在执行的任务结束
func (w *Warmer) Stop() {
	<-w.cron.Stop().Done()
	utils.Logger.Info().Msg("[缓存预热] 定时任务已停止")
}

// RunOnce 立即预热一次
func (w *Warmer) RunOnce(ctx context.Context) map[models.ContentType]bool {
	result := w.loader.Warm(ctx)

	w.mu.Lock()
	w.runs++
	w.lastRun = result
	w.mu.Unlock()

	event := utils.Logger.Info()
	for _, ok := range result {
		if !ok {
			event = utils.Logger.Warn()
			break
		}
	}
	event.Interface("collections", result).Msg("[缓存预热] 预热完成")
	return result
}

// LastRun 最近一次预热结果
func (w *Warmer) LastRun() map[models.ContentType]bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastRun
}

// Runs 已执行的预热次数
func (w *Warmer) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}
