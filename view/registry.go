package view

import (
	"context"

	"github.com/BerniceZTT/airlab_end/loader"
	"github.com/BerniceZTT/airlab_end/models"
)

// Handle 不带类型参数的绑定接口
type Handle interface {
	Name() string
	Mount(ctx context.Context) <-chan struct{}
	Retry(ctx context.Context) <-chan struct{}
	Wait(ctx context.Context) error
	Snapshot() State[any]
}

// Registry 每个内容集合一个绑定
type Registry struct {
	Projects *Binding[[]models.Project]
	Team     *Binding[[]models.TeamMember]
	News     *Binding[[]models.NewsItem]
	Research *Binding[[]models.ResearchPaper]
}

// NewRegistry 基于加载器创建四个集合的绑定
func NewRegistry(l *loader.DataLoader) *Registry {
	return &Registry{
		Projects: NewBinding(string(models.ContentProjects), l.LoadProjects),
		Team:     NewBinding(string(models.ContentTeam), l.LoadTeam),
		News:     NewBinding(string(models.ContentNews), l.LoadNews),
		Research: NewBinding(string(models.ContentResearch), l.LoadResearch),
	}
}

// Get 按类型取绑定
func (r *Registry) Get(t models.ContentType) (Handle, bool) {
	switch t {
	case models.ContentProjects:
		return r.Projects, true
	case models.ContentTeam:
		return r.Team, true
	case models.ContentNews:
		return r.News, true
	case models.ContentResearch:
		return r.Research, true
	}
	return nil, false
}

// Load 返回最新状态：首次访问时挂载，已挂载且空闲时走一次重试(命中缓存时不会重新读取来源)
func Load(ctx context.Context, h Handle) (State[any], error) {
	select {
	case <-h.Mount(ctx):
		h.Retry(ctx)
	default:
	}
	return settle(ctx, h)
}

// Reload 重试并等待结果
func Reload(ctx context.Context, h Handle) (State[any], error) {
	h.Retry(ctx)
	return settle(ctx, h)
}

func settle(ctx context.Context, h Handle) (State[any], error) {
	if err := h.Wait(ctx); err != nil {
		return State[any]{}, err
	}
	return h.Snapshot(), nil
}
