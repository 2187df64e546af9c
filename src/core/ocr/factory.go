package ocr

import (
	"errors"
	"fmt"
	"sort"

	"ocr-server-go/src/configs"
	"ocr-server-go/src/core/utils"
)

// ErrUnknownRecognizer 未注册的识别器名称
var ErrUnknownRecognizer = errors.New("未知的识别器")

// Factory 识别器工厂函数类型
type Factory func(config *configs.OCRConfig, logger *utils.Logger) (Recognizer, error)

var (
	factories = make(map[string]Factory)
)

// Register 注册识别器工厂，在各实现的 init 中调用
func Register(name string, factory Factory) {
	factories[name] = factory
}

// Create 创建识别器实例
func Create(name string, config *configs.OCRConfig, logger *utils.Logger) (Recognizer, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (已注册: %v)", ErrUnknownRecognizer, name, RegisteredRecognizers())
	}

	recognizer, err := factory(config, logger)
	if err != nil {
		return nil, fmt.Errorf("创建识别器 %s 失败: %w", name, err)
	}

	logger.Debug("识别器创建成功", map[string]interface{}{
		"name": name,
	})
	return recognizer, nil
}

// RegisteredRecognizers 获取已注册的识别器列表
func RegisteredRecognizers() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
