package controllers

import (
	"context"
	"net/http"
	"sync"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/utils"
	"github.com/BerniceZTT/airlab_end/view"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// pageSections 每个页面需要的内容集合
var pageSections = map[string][]models.ContentType{
	"home":     {models.ContentProjects, models.ContentNews, models.ContentResearch},
	"about":    {models.ContentTeam},
	"team":     {models.ContentTeam},
	"research": {models.ContentResearch},
	"projects": {models.ContentProjects},
	"contact":  nil,
}

// DefaultContact 联系页面信息
var DefaultContact = models.ContactInfo{
	Lab:     "AI & Robotics Lab, University of Lagos",
	Email:   "airol@unilag.edu.ng",
	Address: "AI & Robotics Labs, Central Research Laboratory, University of Lagos, Akoka, Yaba, Lagos.",
}

// PageController 页面数据聚合，集合并发加载，任何集合失败时用占位数据
type PageController struct {
	views   *view.Registry
	contact models.ContactInfo
}

// NewPageController 创建页面接口
func NewPageController(views *view.Registry, contact models.ContactInfo) *PageController {
	return &PageController{views: views, contact: contact}
}

// GetPage 返回页面所需的全部集合状态
func (ctl *PageController) GetPage(c *gin.Context) {
	page := c.Param("page")
	types, ok := pageSections[page]
	if !ok {
		utils.HandleError(c, utils.CreateNotFoundError("page "+page))
		return
	}

	sections, err := ctl.loadSections(c.Request.Context(), types)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	body := gin.H{"success": true, "page": page, "sections": sections}
	switch page {
	case "team":
		if state, ok := sections[models.ContentTeam]; ok {
			if members, ok := state.Data.([]models.TeamMember); ok {
				body["groups"] = GroupTeam(members)
			}
		}
	case "contact":
		body["contact"] = ctl.contact
	}
	c.JSON(http.StatusOK, body)
}

func (ctl *PageController) loadSections(ctx context.Context, types []models.ContentType) (map[models.ContentType]view.State[any], error) {
	var mu sync.Mutex
	sections := make(map[models.ContentType]view.State[any], len(types))

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range types {
		h, _ := ctl.views.Get(t)
		g.Go(func() error {
			state, err := view.Load(gctx, h)
			if err != nil {
				return err
			}
			mu.Lock()
			sections[t] = state
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sections, nil
}

// GroupTeam 按分组整理团队成员，没有分组的归入 leading
func GroupTeam(members []models.TeamMember) map[models.TeamCategory][]models.TeamMember {
	groups := make(map[models.TeamCategory][]models.TeamMember, len(models.TeamCategories))
	for _, category := range models.TeamCategories {
		groups[category] = []models.TeamMember{}
	}
	for _, m := range members {
		category := m.Category
		if category == "" {
			category = models.TeamCategoryLeading
		}
		groups[category] = append(groups[category], m)
	}
	return groups
}
