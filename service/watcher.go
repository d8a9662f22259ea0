package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/utils"
)

// FixtureWatcher 监听 DATA_DIR 下的集合文件，文件变化后使对应缓存失效
type FixtureWatcher struct {
	dir         string
	invalidator ContentInvalidator
	debounce    time.Duration

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	pending map[models.ContentType]bool
	done    chan struct{}
}

// NewFixtureWatcher 创建监听器，debounce<=0 时使用300ms
func NewFixtureWatcher(dir string, invalidator ContentInvalidator, debounce time.Duration) *FixtureWatcher {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &FixtureWatcher{
		dir:         dir,
		invalidator: invalidator,
		debounce:    debounce,
		pending:     make(map[models.ContentType]bool),
	}
}

// Start 开始监听，事件循环在后台运行到ctx结束
func (w *FixtureWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.watcher = watcher
	w.done = make(chan struct{})
	go w.run(ctx, watcher, w.done)

	utils.Logger.Info().Str("dir", w.dir).Msg("[数据文件] 开始监听")
	return nil
}

// Wait 等待事件循环退出
func (w *FixtureWatcher) Wait() {
	w.mu.Lock()
	done := w.done
	w.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (w *FixtureWatcher) run(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	defer watcher.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if w.record(event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			utils.Logger.Error().Err(err).Str("dir", w.dir).Msg("[数据文件] 监听出错")

		case <-timer.C:
			w.flush(ctx)
		}
	}
}

// record 记录需要失效的集合，返回事件是否相关
func (w *FixtureWatcher) record(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	t, ok := contentTypeForFile(event.Name)
	if !ok {
		return false
	}

	w.mu.Lock()
	w.pending[t] = true
	w.mu.Unlock()
	utils.Logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("[数据文件] 检测到变化")
	return true
}

func (w *FixtureWatcher) flush(ctx context.Context) {
	w.mu.Lock()
	types := make([]models.ContentType, 0, len(w.pending))
	for _, t := range models.AllContentTypes {
		if w.pending[t] {
			types = append(types, t)
		}
	}
	w.pending = make(map[models.ContentType]bool)
	w.mu.Unlock()

	if len(types) > 0 {
		w.invalidator.InvalidateContent(ctx, types...)
	}
}

// contentTypeForFile projects.json -> projects。临时文件(以.开头)不算
func contentTypeForFile(name string) (models.ContentType, bool) {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") || filepath.Ext(base) != ".json" {
		return "", false
	}
	return models.ParseContentType(strings.TrimSuffix(base, ".json"))
}
