package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger 全局日志对象，InitLogger之前不输出
var Logger = zerolog.Nop()

// InitLogger 初始化日志系统
func InitLogger(debug bool) {
	InitLoggerWithWriter(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}, debug)
	Logger.Info().Msg("日志系统初始化完成")
}

// InitLoggerWithWriter 使用指定输出初始化日志
func InitLoggerWithWriter(w io.Writer, debug bool) {
	Logger = zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(zerolog.InfoLevel)

	if debug {
		Logger = Logger.Level(zerolog.DebugLevel)
	}
}

// LogApiRequest 记录API请求
func LogApiRequest(method, url, requestID string, params interface{}, headers map[string]string) {
	// 过滤敏感信息
	if headers != nil {
		if auth := headers["Authorization"]; len(auth) > 15 {
			headers["Authorization"] = auth[:15] + "..."
		}
		if _, ok := headers["Cookie"]; ok {
			headers["Cookie"] = "******"
		}
	}

	Logger.Info().
		Str("requestId", requestID).
		Str("method", method).
		Str("url", url).
		Interface("params", params).
		Interface("headers", headers).
		Msg("API请求")
}

// LogApiResponse 记录API响应
func LogApiResponse(method, url, requestID string, statusCode int, responseTime time.Duration, size int) {
	event := Logger.Info()
	if statusCode >= 500 {
		event = Logger.Error()
	} else if statusCode >= 400 {
		event = Logger.Warn()
	}
	event.
		Str("requestId", requestID).
		Str("method", method).
		Str("url", url).
		Int("statusCode", statusCode).
		Dur("responseTime", responseTime).
		Int("size", size).
		Msg("API响应")
}

// LogInfo 记录
func LogInfo(context map[string]interface{}, message string) {
	Logger.Info().
		Interface("context", context).
		Msg(message)
}

// LogError 记录错误
func LogError(err error, context map[string]interface{}, message string) {
	Logger.Error().
		Err(err).
		Interface("context", context).
		Msg(message)
}

// LogDbOperation 记录数据库操作
func LogDbOperation(operation string, collection string, query interface{}, result interface{}) {
	Logger.Debug().
		Str("operation", operation).
		Str("collection", collection).
		Interface("query", query).
		Interface("result", result).
		Msg("数据库操作")
}
