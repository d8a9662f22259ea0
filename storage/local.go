package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BerniceZTT/airlab_end/utils"
)

// LocalUploader 保存到本地目录，由HTTP服务以静态文件方式提供
type LocalUploader struct {
	Dir           string
	PublicBaseURL string
}

// NewLocalUploader 创建本地上传存储
func NewLocalUploader(dir, publicBaseURL string) *LocalUploader {
	return &LocalUploader{Dir: dir, PublicBaseURL: publicBaseURL}
}

func (u *LocalUploader) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dst := filepath.Join(u.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", key, err)
	}
	written, err := io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", key, err)
	}

	utils.Logger.Info().Str("key", key).Int64("size", written).Str("contentType", contentType).Msg("[文件上传] 已保存到本地")
	return publicURL(u.PublicBaseURL, key), nil
}

func (u *LocalUploader) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(u.Dir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
