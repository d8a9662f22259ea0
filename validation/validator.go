// Package validation 提供字段级校验规则组合，以及内容记录和集合的结构校验
package validation

import (
	"fmt"
	"reflect"
)

// 错误码
const (
	CodeInvalidType  = "INVALID_TYPE"
	CodeRequired     = "REQUIRED"
	CodeInvalidURL   = "INVALID_URL"
	CodeInvalidValue = "INVALID_VALUE"
	CodeInvalidItem  = "INVALID_ITEM"
)

// ValidationError 字段级校验错误
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error 实现error接口
func (e ValidationError) Error() string {
	return e.Message
}

// Validator 对未经类型化的数据做结构校验
type Validator interface {
	IsValid(data any) bool
	GetErrors(data any) []ValidationError
}

// Field 一个字段及其校验规则
type Field struct {
	Name string
	Rule Rule
}

// RecordValidator 单条记录校验器，按声明顺序执行字段规则并收集全部错误
type RecordValidator struct {
	fields []Field
}

// NewRecordValidator 创建记录校验器
func NewRecordValidator(fields ...Field) *RecordValidator {
	return &RecordValidator{fields: fields}
}

// IsValid 所有字段规则都通过时返回true
func (v *RecordValidator) IsValid(data any) bool {
	return len(v.GetErrors(data)) == 0
}

// GetErrors 返回全部字段错误；根节点不是对象时只返回一个INVALID_TYPE
func (v *RecordValidator) GetErrors(data any) []ValidationError {
	obj, ok := asObject(data)
	if !ok {
		return []ValidationError{{Field: "root", Message: "Data must be an object", Code: CodeInvalidType}}
	}

	var errs []ValidationError
	for _, f := range v.fields {
		if err := f.Rule(obj[f.Name]); err != nil {
			errs = append(errs, *err)
		}
	}
	return errs
}

// CollectionValidator 集合校验器。遇到第一条无效记录即停止，只报告该下标
type CollectionValidator struct {
	name  string
	title string
	label string
	item  Validator
}

// NewCollectionValidator 创建集合校验器。name用于字段名(如 projects[3])，
// title用于根类型错误信息，label用于条目错误信息
func NewCollectionValidator(name, title, label string, item Validator) *CollectionValidator {
	return &CollectionValidator{name: name, title: title, label: label, item: item}
}

// IsValid 根节点为数组且每个元素都通过条目校验时返回true
func (v *CollectionValidator) IsValid(data any) bool {
	return len(v.GetErrors(data)) == 0
}

// GetErrors 返回根类型错误或第一条无效记录对应的INVALID_ITEM错误
func (v *CollectionValidator) GetErrors(data any) []ValidationError {
	items, ok := asArray(data)
	if !ok {
		return []ValidationError{{
			Field:   "root",
			Message: fmt.Sprintf("%s data must be an array", v.title),
			Code:    CodeInvalidType,
		}}
	}

	for i, item := range items {
		errs := v.item.GetErrors(item)
		if len(errs) > 0 {
			return []ValidationError{{
				Field:   fmt.Sprintf("%s[%d]", v.name, i),
				Message: fmt.Sprintf("Invalid %s at index %d: %s", v.label, i, errs[0].Message),
				Code:    CodeInvalidItem,
			}}
		}
	}
	return nil
}

// Item 返回条目校验器
func (v *CollectionValidator) Item() Validator {
	return v.item
}

// Messages 提取错误信息列表
func Messages(errs []ValidationError) []string {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, e.Message)
	}
	return messages
}

// asObject 将解码后的JSON/BSON对象统一为map[string]any
func asObject(data any) (map[string]any, bool) {
	switch v := data.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return v, true
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	obj := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		obj[iter.Key().String()] = iter.Value().Interface()
	}
	return obj, true
}

// asArray 将切片统一为[]any，[]byte不视为数组
func asArray(data any) ([]any, bool) {
	switch v := data.(type) {
	case nil:
		return nil, false
	case []any:
		return v, true
	case []byte:
		return nil, false
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
