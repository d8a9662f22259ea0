package validation

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Result 校验入口的返回值：成功时Value为类型化后的数据，失败时Errors非空
type Result[T any] struct {
	Value  T
	Errors []ValidationError
}

// OK 是否校验通过
func (r Result[T]) OK() bool {
	return len(r.Errors) == 0
}

// Validate 校验原始数据并解码为T。校验失败时不解码
func Validate[T any](v Validator, data any) Result[T] {
	var result Result[T]
	if errs := v.GetErrors(data); len(errs) > 0 {
		result.Errors = errs
		return result
	}

	if err := Decode(data, &result.Value); err != nil {
		result.Errors = []ValidationError{{Field: "root", Message: err.Error(), Code: CodeInvalidType}}
	}
	return result
}

// Decode 按mapstructure标签把解码后的JSON/BSON数据写入out，未校验的字段(如新闻id)允许弱类型转换
func Decode(data any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("创建解码器失败: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return fmt.Errorf("decode content: %w", err)
	}
	return nil
}
