package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ocr-server-go/src/core/utils"
)

// LocalStore 把图片写入本地目录
type LocalStore struct {
	dir    string
	logger *utils.Logger
}

// NewLocalStore 创建本地归档，目录不存在时自动创建
func NewLocalStore(dir string, logger *utils.Logger) (*LocalStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("创建归档目录失败: %w", err)
	}
	return &LocalStore{dir: dir, logger: logger}, nil
}

// Put 写入 dir/key，返回文件路径
func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return "", fmt.Errorf("创建归档目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("保存图片文件失败: %w", err)
	}

	s.logger.Debug("图片已归档", map[string]interface{}{
		"path":         path,
		"content_type": contentType,
		"size":         len(data),
	})
	return path, nil
}
