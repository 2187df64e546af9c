// Package archive 保存上传的原始图片，便于之后复查识别结果。
package archive

import (
	"context"
	"fmt"
	"strings"

	"ocr-server-go/src/configs"
	"ocr-server-go/src/core/image"
	"ocr-server-go/src/core/utils"

	"github.com/google/uuid"
)

// Store 图片归档存储
type Store interface {
	// Put 保存数据，返回可定位该对象的路径或URI
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// NewKey 生成归档对象的键：images/<uuid><ext>
func NewKey(data []byte) string {
	return fmt.Sprintf("images/%s%s", uuid.NewString(), image.Extension(image.DetectFormat(data)))
}

// New 根据配置创建归档存储，类型为 none 或空时返回 nil
func New(ctx context.Context, config *configs.ArchiveConfig, logger *utils.Logger) (Store, error) {
	switch strings.ToLower(config.Type) {
	case "", "none":
		return nil, nil
	case "local":
		return NewLocalStore(config.Dir, logger)
	case "s3":
		return NewS3Store(ctx, config, logger)
	default:
		return nil, fmt.Errorf("不支持的归档类型: %s", config.Type)
	}
}
