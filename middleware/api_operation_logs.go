package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BerniceZTT/airlab_end/models"
	"github.com/BerniceZTT/airlab_end/utils"

	"github.com/gin-gonic/gin"
)

// AuditSink 操作日志的落地位置
type AuditSink interface {
	Save(ctx context.Context, log *models.OperationLog) error
}

// LogSink 没有数据库时把操作日志写到结构化日志
type LogSink struct{}

// Save 实现 AuditSink
func (LogSink) Save(_ context.Context, log *models.OperationLog) error {
	utils.Logger.Info().
		Str("requestId", log.RequestID).
		Str("method", log.Method).
		Str("path", log.Path).
		Str("collection", log.Collection).
		Int("status", log.StatusCode).
		Bool("success", log.Success).
		Interface("requestBody", log.RequestBody).
		Int64("responseTime", log.ResponseTime).
		Msg("[操作日志] 管理端写操作")
	return nil
}

// 需要记录的HTTP方法
var loggedMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// 不需要记录的路径
var excludedPaths = map[string]bool{
	"/api/admin/login":   true,
	"/api/admin/logout":  true,
	"/api/admin/session": true,
}

// 请求体超过该大小时不记录内容，上传文件走这里
const maxLoggedBody = 64 << 10

// OperationLoggerMiddleware 操作日志记录中间件
func OperationLoggerMiddleware(sink AuditSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 检查是否需要记录此操作
		if !shouldLogOperation(c) {
			c.Next()
			return
		}

		startTime := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		// 创建自定义响应写入器以捕获响应体
		blw := &bodyLogWriter{
			body:           bytes.NewBufferString(""),
			ResponseWriter: c.Writer,
		}
		c.Writer = blw

		requestBody := readRequestBody(c)

		// 处理请求
		c.Next()

		responseTime := time.Since(startTime).Milliseconds()

		// 获取响应数据
		var responseData interface{}
		if strings.Contains(c.Writer.Header().Get("Content-Type"), "application/json") {
			if err := json.Unmarshal(blw.body.Bytes(), &responseData); err != nil {
				responseData = blw.body.String()
			}
		} else {
			responseData = blw.body.String()
		}

		var errorMessage string
		if len(c.Errors) > 0 {
			errorMessage = c.Errors.String()
		} else if body, ok := responseData.(map[string]interface{}); ok {
			if msg, ok := body["error"].(string); ok {
				errorMessage = msg
			}
		}

		operationLog := models.OperationLog{
			RequestID:     GetRequestID(c),
			Method:        method,
			Path:          path,
			Collection:    collectionFromPath(path),
			OperatorRole:  operatorRole(c),
			RequestBody:   sanitizeData(requestBody),
			RequestHeader: sanitizeHeaders(c.Request.Header),
			ResponseData:  sanitizeData(responseData),
			StatusCode:    c.Writer.Status(),
			Success:       c.Writer.Status() < http.StatusBadRequest,
			ErrorMessage:  errorMessage,
			OperationTime: startTime,
			ResponseTime:  responseTime,
			IPAddress:     getClientIP(c),
			UserAgent:     c.Request.UserAgent(),
		}

		// 保存操作日志，请求可能已经结束
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), 5*time.Second)
		defer cancel()
		if err := sink.Save(ctx, &operationLog); err != nil {
			utils.Logger.Error().Err(err).Msg("[操作日志] 保存失败")
			// 尝试保存最小日志
			minimalLog := operationLog
			minimalLog.RequestBody = nil
			minimalLog.RequestHeader = nil
			minimalLog.ResponseData = nil
			minimalLog.ErrorMessage = fmt.Sprintf("保存详细日志失败: %v", err)

			if saveErr := sink.Save(ctx, &minimalLog); saveErr != nil {
				utils.Logger.Error().Err(saveErr).Msg("[操作日志] 保存最小日志失败")
			}
		}
	}
}

// shouldLogOperation 检查是否需要记录此操作
func shouldLogOperation(c *gin.Context) bool {
	if excludedPaths[c.Request.URL.Path] {
		return false
	}
	return loggedMethods[c.Request.Method]
}

// readRequestBody 读取并重置请求体；multipart和过大的请求只记录摘要
func readRequestBody(c *gin.Context) interface{} {
	if c.Request.Body == nil {
		return nil
	}
	contentType := c.Request.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/") || c.Request.ContentLength > maxLoggedBody {
		return fmt.Sprintf("<%s, %d bytes>", contentType, c.Request.ContentLength)
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.Logger.Error().Err(err).Msg("读取请求体失败")
		return nil
	}
	// 重置请求体，以便后续处理
	c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))
	if len(raw) == 0 {
		return nil
	}

	if strings.Contains(contentType, "application/json") {
		var body interface{}
		if err := json.Unmarshal(raw, &body); err == nil {
			return body
		}
	}
	return string(raw)
}

// collectionFromPath /api/admin/<collection>/... 中的集合名
func collectionFromPath(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "admin" {
		return parts[2]
	}
	return ""
}

func operatorRole(c *gin.Context) string {
	if session, err := utils.GetAdmin(c); err == nil {
		return session.Role
	}
	return "anonymous"
}

// sanitizeData 清理数据中的敏感信息
func sanitizeData(data interface{}) interface{} {
	if data == nil {
		return nil
	}

	// 处理map类型
	if m, ok := data.(map[string]interface{}); ok {
		sanitized := make(map[string]interface{})
		for k, v := range m {
			switch strings.ToLower(k) {
			case "password", "token", "authorization", "secret", "key":
				sanitized[k] = "******"
			default:
				sanitized[k] = sanitizeData(v)
			}
		}
		return sanitized
	}

	// 处理切片类型
	if s, ok := data.([]interface{}); ok {
		sanitized := make([]interface{}, len(s))
		for i, v := range s {
			sanitized[i] = sanitizeData(v)
		}
		return sanitized
	}

	return data
}

// sanitizeHeaders 清理请求头中的敏感信息
func sanitizeHeaders(headers http.Header) map[string]interface{} {
	sanitized := make(map[string]interface{})
	for k, v := range headers {
		switch strings.ToLower(k) {
		case "authorization":
			if len(v) > 0 {
				auth := v[0]
				if len(auth) > 15 {
					sanitized[k] = auth[:15] + "..."
				} else {
					sanitized[k] = auth
				}
			}
		case "cookie", "x-api-key":
			sanitized[k] = "******"
		default:
			sanitized[k] = v
		}
	}
	return sanitized
}

// getClientIP 获取客户端IP地址
func getClientIP(c *gin.Context) string {
	if ip := c.Request.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	if ip := c.Request.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
