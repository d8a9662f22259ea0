// Package storage 保存管理端上传的论文PDF和封面图片
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Uploader 上传文件存储
type Uploader interface {
	// Put 保存对象并返回可公开访问的URL
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ObjectKey 生成对象名：<prefix>/<uuid><ext>，ext取自原文件名
func ObjectKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(prefix, uuid.NewString()+ext)
}

// publicURL 拼接公开访问地址
func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

func validKey(key string) error {
	clean := path.Clean("/" + key)
	if key == "" || clean != "/"+key {
		return fmt.Errorf("invalid object key %q", key)
	}
	return nil
}
