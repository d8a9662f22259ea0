package models

// DataLoadResult 内容加载结果。加载失败时 Data 为占位数据，错误通过 Errors 返回而不是 error
type DataLoadResult[T any] struct {
	Data       T        `json:"data"`
	IsValid    bool     `json:"isValid"`
	Errors     []string `json:"errors"`
	IsFallback bool     `json:"isFallback"`
}
