// Package loader 页面使用的内容加载入口：读取来源、校验、缓存，失败时返回占位数据
package loader

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BerniceZTT/airlab_end/cache"
	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/utils"
	"github.com/BerniceZTT/airlab_end/validation"
)

// Source 内容来源，返回未经校验的原始数据(JSON/BSON解码后的数组)
type Source interface {
	Load(ctx context.Context) (any, error)
}

// SourceFunc 函数形式的Source
type SourceFunc func(ctx context.Context) (any, error)

// Load 实现Source
func (f SourceFunc) Load(ctx context.Context) (any, error) {
	return f(ctx)
}

// DataLoader 内容加载门面。对调用方从不返回error，失败体现在结果的IsValid/IsFallback/Errors上
type DataLoader struct {
	cache   *cache.Cache
	sources map[models.ContentType]Source
	metrics *Metrics
}

// Option 加载器选项
type Option func(*DataLoader)

// WithMetrics 启用指标
func WithMetrics(m *Metrics) Option {
	return func(l *DataLoader) {
		l.metrics = m
	}
}

// WithSource 设置或替换某个集合的来源
func WithSource(t models.ContentType, src Source) Option {
	return func(l *DataLoader) {
		l.sources[t] = src
	}
}

// New 创建加载器，缓存由调用方注入
func New(c *cache.Cache, sources map[models.ContentType]Source, opts ...Option) *DataLoader {
	l := &DataLoader{
		cache:   c,
		sources: make(map[models.ContentType]Source, len(sources)),
	}
	for t, src := range sources {
		l.sources[t] = src
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// outcome 一次实际加载的结果，通过single-flight在并发调用者之间共享
type outcome struct {
	data   any
	errors []string
}

// LoadProjects 加载项目
func (l *DataLoader) LoadProjects(ctx context.Context) models.DataLoadResult[[]models.Project] {
	return load(ctx, l, models.ContentProjects, FallbackProjects)
}

// LoadTeam 加载团队成员
func (l *DataLoader) LoadTeam(ctx context.Context) models.DataLoadResult[[]models.TeamMember] {
	return load(ctx, l, models.ContentTeam, FallbackTeam)
}

// LoadNews 加载新闻
func (l *DataLoader) LoadNews(ctx context.Context) models.DataLoadResult[[]models.NewsItem] {
	return load(ctx, l, models.ContentNews, FallbackNews)
}

// LoadResearch 加载研究论文
func (l *DataLoader) LoadResearch(ctx context.Context) models.DataLoadResult[[]models.ResearchPaper] {
	return load(ctx, l, models.ContentResearch, FallbackResearch)
}

// Load 按类型加载，数据以any返回
func (l *DataLoader) Load(ctx context.Context, t models.ContentType) models.DataLoadResult[any] {
	switch t {
	case models.ContentProjects:
		return box(l.LoadProjects(ctx))
	case models.ContentTeam:
		return box(l.LoadTeam(ctx))
	case models.ContentNews:
		return box(l.LoadNews(ctx))
	case models.ContentResearch:
		return box(l.LoadResearch(ctx))
	}
	return models.DataLoadResult[any]{
		IsValid:    false,
		Errors:     []string{fmt.Sprintf("unknown content type: %s", t)},
		IsFallback: true,
	}
}

// Invalidate 使指定集合的缓存失效，供内容写入后调用
func (l *DataLoader) Invalidate(types ...models.ContentType) {
	keys := make([]string, len(types))
	for i, t := range types {
		keys[i] = string(t)
	}
	l.cache.Invalidate(keys...)
	utils.Logger.Info().Strs("collections", keys).Msg("[内容加载] 缓存已失效")
}

// Clear 清空全部缓存
func (l *DataLoader) Clear() {
	l.cache.Clear()
}

// Warm 并发加载全部集合，返回每个集合是否拿到了有效数据
func (l *DataLoader) Warm(ctx context.Context) map[models.ContentType]bool {
	valid := make([]bool, len(models.AllContentTypes))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range models.AllContentTypes {
		g.Go(func() error {
			valid[i] = l.Load(gctx, t).IsValid
			return nil
		})
	}
	_ = g.Wait()

	result := make(map[models.ContentType]bool, len(valid))
	for i, t := range models.AllContentTypes {
		result[t] = valid[i]
	}
	return result
}

func load[T any](ctx context.Context, l *DataLoader, t models.ContentType, fallback func() T) models.DataLoadResult[T] {
	key := string(t)

	if cached, ok := l.cache.Get(key); ok {
		if data, ok := cached.(T); ok {
			l.metrics.hit(key)
			return success(data)
		}
	}

	gen := l.cache.Generation(key)
	v, shared, err := l.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return fetch[T](ctx, l, t, gen), nil
	})
	if err != nil {
		return degrade(l, t, fallback, []string{err.Error()})
	}

	out := v.(outcome)
	if shared {
		utils.Logger.Debug().Str("collection", key).Msg("[内容加载] 复用进行中的加载")
	}
	if len(out.errors) > 0 {
		return degrade(l, t, fallback, out.errors)
	}
	return success(out.data.(T))
}

// fetch 读取来源并校验，校验通过才写入缓存。来源panic同样按加载失败处理
func fetch[T any](ctx context.Context, l *DataLoader, t models.ContentType, gen uint64) (out outcome) {
	key := string(t)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			utils.Logger.Error().Interface("panic", r).Str("collection", key).Msg("[内容加载] 内容来源崩溃")
			l.metrics.load(key, "error", time.Since(start).Seconds())
			out = outcome{errors: []string{fmt.Sprintf("content source panicked: %v", r)}}
		}
	}()

	src := l.sources[t]
	if src == nil {
		return outcome{errors: []string{fmt.Sprintf("no content source configured for %s", t)}}
	}

	raw, err := src.Load(ctx)
	if err != nil {
		utils.Logger.Error().Err(err).Str("collection", key).Msg("[内容加载] 读取内容失败")
		l.metrics.load(key, "error", time.Since(start).Seconds())
		return outcome{errors: []string{err.Error()}}
	}

	result := validation.Validate[T](validation.ForType(t), raw)
	if !result.OK() {
		messages := validation.Messages(result.Errors)
		utils.Logger.Warn().Str("collection", key).Strs("errors", messages).Msg("[内容加载] 内容校验失败")
		l.metrics.load(key, "invalid", time.Since(start).Seconds())
		return outcome{errors: messages}
	}

	if !l.cache.SetIfGeneration(key, result.Value, gen) {
		utils.Logger.Info().Str("collection", key).Msg("[内容加载] 加载期间缓存已失效，本次结果不缓存")
	}
	l.metrics.load(key, "ok", time.Since(start).Seconds())
	return outcome{data: result.Value}
}

func success[T any](data T) models.DataLoadResult[T] {
	return models.DataLoadResult[T]{
		Data:       data,
		IsValid:    true,
		Errors:     []string{},
		IsFallback: false,
	}
}

func degrade[T any](l *DataLoader, t models.ContentType, fallback func() T, errs []string) models.DataLoadResult[T] {
	l.metrics.fallback(string(t))
	return models.DataLoadResult[T]{
		Data:       fallback(),
		IsValid:    false,
		Errors:     errs,
		IsFallback: true,
	}
}

func box[T any](r models.DataLoadResult[T]) models.DataLoadResult[any] {
	return models.DataLoadResult[any]{
		Data:       r.Data,
		IsValid:    r.IsValid,
		Errors:     r.Errors,
		IsFallback: r.IsFallback,
	}
}

// ValidateResponse 校验外部提供的整份集合数据，不经过缓存
func ValidateResponse(t models.ContentType, raw any) models.DataLoadResult[any] {
	switch t {
	case models.ContentProjects:
		return box(validateAs(t, raw, FallbackProjects))
	case models.ContentTeam:
		return box(validateAs(t, raw, FallbackTeam))
	case models.ContentNews:
		return box(validateAs(t, raw, FallbackNews))
	case models.ContentResearch:
		return box(validateAs(t, raw, FallbackResearch))
	}
	return models.DataLoadResult[any]{
		Errors:     []string{fmt.Sprintf("unknown content type: %s", t)},
		IsFallback: true,
	}
}

func validateAs[T any](t models.ContentType, raw any, fallback func() T) models.DataLoadResult[T] {
	result := validation.Validate[T](validation.ForType(t), raw)
	if !result.OK() {
		return models.DataLoadResult[T]{
			Data:       fallback(),
			Errors:     validation.Messages(result.Errors),
			IsFallback: true,
		}
	}
	return success(result.Value)
}
