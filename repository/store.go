package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/BerniceZTT/airlab_end/models"
)

const (
	// 集合名
	ProjectsCollection         = "projects"
	TeamCollection             = "team"
	NewsCollection             = "news"
	ResearchCollection         = "research"
	ApiOperationLogsCollection = "apiOperationLogs"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("document not found")
	// ErrNotArray 集合数据不是数组
	ErrNotArray = errors.New("collection data is not an array")
	// ErrDuplicateID 新增时主键已存在
	ErrDuplicateID = errors.New("document id already exists")
)

// DocumentStore 单个内容集合的读写接口，文档为JSON/BSON解码后的普通map
type DocumentStore interface {
	// List 返回全部文档，保持存储顺序
	List(ctx context.Context) ([]map[string]any, error)
	Get(ctx context.Context, id string) (map[string]any, error)
	// Create 写入新文档，未带主键时按 NextID 分配；主键已存在时返回 ErrDuplicateID
	Create(ctx context.Context, doc map[string]any) (map[string]any, error)
	Update(ctx context.Context, id string, doc map[string]any) (map[string]any, error)
	Delete(ctx context.Context, id string) error
	// Raw 返回未经校验的整份集合数据，供内容加载使用
	Raw(ctx context.Context) (any, error)
}

// CollectionName 内容类型对应的集合名
func CollectionName(t models.ContentType) string {
	return string(t)
}

// NextID 取现有数字主键的最大值加一，没有数字主键时从1开始
func NextID(docs []map[string]any, idField string) string {
	maxID := 0
	for _, doc := range docs {
		if n, ok := numericID(doc[idField]); ok && n > maxID {
			maxID = n
		}
	}
	return strconv.Itoa(maxID + 1)
}

func numericID(v any) (int, bool) {
	switch id := v.(type) {
	case string:
		n, err := strconv.Atoi(id)
		return n, err == nil
	case float64:
		return int(id), true
	case int:
		return id, true
	case int32:
		return int(id), true
	case int64:
		return int(id), true
	}
	return 0, false
}

// idString 把文档主键统一成字符串比较
func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// withID 复制文档并写入主键
func withID(doc map[string]any, idField, id string) map[string]any {
	out := make(map[string]any, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	out[idField] = id
	return out
}

// ensureID 文档没有主键时分配新主键
func ensureID(existing []map[string]any, doc map[string]any, idField string) map[string]any {
	if id := idString(doc[idField]); id != "" {
		return withID(doc, idField, id)
	}
	return withID(doc, idField, NextID(existing, idField))
}
