package validation

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strings"
)

// Rule 字段规则，通过时返回nil。除Required外的规则对缺省值(nil)不做判断
type Rule func(value any) *ValidationError

// Required 值不能缺省、为null或空字符串
func Required(field string) Rule {
	return func(value any) *ValidationError {
		if value == nil {
			return requiredError(field)
		}
		if s, ok := value.(string); ok && s == "" {
			return requiredError(field)
		}
		return nil
	}
}

func requiredError(field string) *ValidationError {
	return &ValidationError{Field: field, Message: field + " is required", Code: CodeRequired}
}

// String 值必须是字符串
func String(field string) Rule {
	return func(value any) *ValidationError {
		if value == nil {
			return nil
		}
		if _, ok := value.(string); !ok {
			return &ValidationError{Field: field, Message: field + " must be a string", Code: CodeInvalidType}
		}
		return nil
	}
}

// Number 值必须是数字。JSON解码得到float64，BSON可能是int32/int64
func Number(field string) Rule {
	return func(value any) *ValidationError {
		if value == nil {
			return nil
		}
		switch reflect.ValueOf(value).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return nil
		}
		return &ValidationError{Field: field, Message: field + " must be a number", Code: CodeInvalidType}
	}
}

// Integer 值必须是整数。浮点数只接受没有小数部分的值
func Integer(field string) Rule {
	return func(value any) *ValidationError {
		if value == nil {
			return nil
		}
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return nil
		case reflect.Float32, reflect.Float64:
			f := rv.Float()
			if !math.IsInf(f, 0) && f == math.Trunc(f) {
				return nil
			}
		}
		return &ValidationError{Field: field, Message: field + " must be an integer", Code: CodeInvalidType}
	}
}

// Array 值必须是数组
func Array(field string) Rule {
	return func(value any) *ValidationError {
		if value == nil {
			return nil
		}
		if _, ok := asArray(value); !ok {
			return &ValidationError{Field: field, Message: field + " must be an array", Code: CodeInvalidType}
		}
		return nil
	}
}

// Object 值必须是对象
func Object(field string) Rule {
	return func(value any) *ValidationError {
		if _, ok := asObject(value); !ok {
			return &ValidationError{Field: field, Message: field + " must be an object", Code: CodeInvalidType}
		}
		return nil
	}
}

// URL 字符串必须是带scheme和host的绝对URL；非字符串交给String规则处理
func URL(field string) Rule {
	return func(value any) *ValidationError {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
			return &ValidationError{Field: field, Message: field + " must be a valid URL", Code: CodeInvalidURL}
		}
		return nil
	}
}

// OneOf 值必须在允许集合内
func OneOf[T comparable](field string, allowed ...T) Rule {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = fmt.Sprint(a)
	}
	message := fmt.Sprintf("%s must be one of: %s", field, strings.Join(names, ", "))

	return func(value any) *ValidationError {
		if value == nil {
			return nil
		}
		for _, a := range allowed {
			if matches(value, a) {
				return nil
			}
		}
		return &ValidationError{Field: field, Message: message, Code: CodeInvalidValue}
	}
}

// matches 比较原始值与允许值，允许值可以是基于string的枚举类型
func matches[T comparable](value any, allowed T) bool {
	if v, ok := value.(T); ok {
		return v == allowed
	}
	av := reflect.ValueOf(allowed)
	vv := reflect.ValueOf(value)
	if av.Kind() == reflect.String && vv.Kind() == reflect.String {
		return av.String() == vv.String()
	}
	return false
}

// Each 数组的每个元素都必须通过rule，错误字段带下标
func Each(field string, rule func(field string) Rule) Rule {
	return func(value any) *ValidationError {
		items, ok := asArray(value)
		if !ok {
			return nil
		}
		for i, item := range items {
			if err := rule(fmt.Sprintf("%s[%d]", field, i))(item); err != nil {
				return err
			}
		}
		return nil
	}
}

// Combine 从左到右执行规则，返回第一个失败
func Combine(rules ...Rule) Rule {
	return func(value any) *ValidationError {
		for _, rule := range rules {
			if err := rule(value); err != nil {
				return err
			}
		}
		return nil
	}
}
