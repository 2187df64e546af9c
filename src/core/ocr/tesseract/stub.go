//go:build !tesseract

package tesseract

import (
	"errors"

	"ocr-server-go/src/configs"
	"ocr-server-go/src/core/ocr"
	"ocr-server-go/src/core/utils"
)

// ErrNotEnabled 未使用 tesseract 构建标签编译
var ErrNotEnabled = errors.New("tesseract support not enabled; rebuild with -tags tesseract")

func init() {
	ocr.Register(Name, func(config *configs.OCRConfig, logger *utils.Logger) (ocr.Recognizer, error) {
		return nil, ErrNotEnabled
	})
}
