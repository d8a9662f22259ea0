package controllers

import (
	"errors"
	"net/http"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/repository"
	"github.com/BerniceZTT/airlab_end/service"
	"github.com/BerniceZTT/airlab_end/utils"
	"github.com/BerniceZTT/airlab_end/validation"

	"github.com/gin-gonic/gin"
)

// AdminContentController 管理端内容增删改查，写入后让对应集合的缓存失效
type AdminContentController struct {
	stores      map[models.ContentType]repository.DocumentStore
	invalidator service.ContentInvalidator
}

// NewAdminContentController 创建管理端内容接口
func NewAdminContentController(stores map[models.ContentType]repository.DocumentStore, invalidator service.ContentInvalidator) *AdminContentController {
	return &AdminContentController{stores: stores, invalidator: invalidator}
}

// List 列出集合全部记录，团队支持 ?category= 过滤
func (ctl *AdminContentController) List(t models.ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		docs, err := ctl.stores[t].List(c.Request.Context())
		if err != nil {
			utils.HandleError(c, storeError(t, err))
			return
		}

		if t == models.ContentTeam {
			if category := c.Query("category"); category != "" {
				if !validCategory(category) {
					utils.HandleError(c, utils.CreateBadRequestError("Invalid category"))
					return
				}
				docs = filterByCategory(docs, category)
			}
		}

		utils.LogInfo(map[string]interface{}{
			"collection": t,
			"count":      len(docs),
		}, "[内容管理] 列表查询")
		utils.ListResponse(c, docs, len(docs))
	}
}

// Get 获取单条记录
func (ctl *AdminContentController) Get(t models.ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := ctl.stores[t].Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			utils.HandleError(c, storeError(t, err))
			return
		}
		utils.SuccessResponse(c, doc, "")
	}
}

// Create 校验后新增记录，未提供主键时分配 max+1
func (ctl *AdminContentController) Create(t models.ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := bindDocument(c)
		if !ok {
			return
		}

		idField := t.IDField()
		errs := validateRecord(t, doc)
		if _, hasID := doc[idField]; !hasID {
			errs = withoutField(errs, idField)
		}
		if len(errs) > 0 {
			utils.HandleError(c, utils.CreateValidationError("Invalid "+string(t)+" record", errs))
			return
		}

		created, err := ctl.stores[t].Create(c.Request.Context(), doc)
		if err != nil {
			utils.HandleError(c, storeError(t, err))
			return
		}

		utils.Logger.Info().Str("collection", string(t)).Interface("id", created[idField]).Msg("[内容管理] 新增记录")
		ctl.invalidator.InvalidateContent(c.Request.Context(), t)
		utils.SuccessResponse(c, created, "Created", http.StatusCreated)
	}
}

// Update 整条替换记录。路径没有id时使用请求体中的主键
func (ctl *AdminContentController) Update(t models.ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := bindDocument(c)
		if !ok {
			return
		}

		idField := t.IDField()
		id := c.Param("id")
		if id == "" {
			id, _ = doc[idField].(string)
		}
		if id == "" {
			utils.HandleError(c, utils.CreateBadRequestError("Missing "+idField))
			return
		}
		doc[idField] = id

		if errs := validateRecord(t, doc); len(errs) > 0 {
			utils.HandleError(c, utils.CreateValidationError("Invalid "+string(t)+" record", errs))
			return
		}

		updated, err := ctl.stores[t].Update(c.Request.Context(), id, doc)
		if err != nil {
			utils.HandleError(c, storeError(t, err))
			return
		}

		utils.Logger.Info().Str("collection", string(t)).Str("id", id).Msg("[内容管理] 更新记录")
		ctl.invalidator.InvalidateContent(c.Request.Context(), t)
		utils.SuccessResponse(c, updated, "Updated")
	}
}

// Delete 删除记录，id可以在路径或 ?id= 中
func (ctl *AdminContentController) Delete(t models.ContentType) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == "" {
			id = c.Query("id")
		}
		if id == "" {
			utils.HandleError(c, utils.CreateBadRequestError("Missing id"))
			return
		}

		if err := ctl.stores[t].Delete(c.Request.Context(), id); err != nil {
			utils.HandleError(c, storeError(t, err))
			return
		}

		utils.Logger.Info().Str("collection", string(t)).Str("id", id).Msg("[内容管理] 删除记录")
		ctl.invalidator.InvalidateContent(c.Request.Context(), t)
		utils.SuccessResponse(c, nil, "Deleted")
	}
}

func bindDocument(c *gin.Context) (map[string]any, bool) {
	var doc map[string]any
	if err := c.ShouldBindJSON(&doc); err != nil || doc == nil {
		utils.HandleError(c, utils.CreateBadRequestError("Request body must be a JSON object"))
		return nil, false
	}
	return doc, true
}

// validateRecord 用集合的条目校验器检查单条记录
func validateRecord(t models.ContentType, doc map[string]any) []validation.ValidationError {
	return validation.ForType(t).Item().GetErrors(doc)
}

func withoutField(errs []validation.ValidationError, field string) []validation.ValidationError {
	out := errs[:0:0]
	for _, e := range errs {
		if e.Field != field {
			out = append(out, e)
		}
	}
	return out
}

func validCategory(category string) bool {
	for _, c := range models.TeamCategories {
		if string(c) == category {
			return true
		}
	}
	return false
}

// filterByCategory 未设置分组的成员视为 leading
func filterByCategory(docs []map[string]any, category string) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		c, _ := doc["category"].(string)
		if c == "" {
			c = string(models.TeamCategoryLeading)
		}
		if c == category {
			out = append(out, doc)
		}
	}
	return out
}

// storeError 存储层错误转换为API错误
func storeError(t models.ContentType, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return utils.CreateNotFoundError(string(t) + " record")
	case errors.Is(err, repository.ErrDuplicateID):
		return utils.NewApiError(string(t)+" record with this id already exists", http.StatusConflict, "DUPLICATE_ID")
	case errors.Is(err, repository.ErrNotArray):
		return utils.NewApiError("Stored "+string(t)+" data is not an array", http.StatusInternalServerError, "CORRUPT_DATA")
	}
	return err
}
