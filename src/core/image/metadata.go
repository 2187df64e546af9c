package image

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"

	"ocr-server-go/src/core/utils"

	_ "image/gif"  // 注册GIF解码器
	_ "image/jpeg" // 注册JPEG解码器
	_ "image/png"  // 注册PNG解码器

	_ "golang.org/x/image/bmp"  // 注册BMP解码器
	_ "golang.org/x/image/tiff" // 注册TIFF解码器
	_ "golang.org/x/image/webp" // 注册WEBP解码器
)

// MetadataExtractor 图片元数据提取器
type MetadataExtractor struct {
	logger *utils.Logger
}

// NewMetadataExtractor 创建元数据提取器
func NewMetadataExtractor(logger *utils.Logger) *MetadataExtractor {
	return &MetadataExtractor{logger: logger}
}

// Extract 解码图片头部获取格式、模式、尺寸等信息。
// 任何失败都转换为降级结果，不会向调用方返回错误或panic。
func (e *MetadataExtractor) Extract(data []byte) (meta Metadata) {
	defer func() {
		if r := recover(); r != nil {
			meta = e.fallback(data, fmt.Errorf("%v", r))
		}
	}()

	config, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return e.fallback(data, err)
	}

	meta = Metadata{
		Format:   strings.ToUpper(format),
		Mode:     colorMode(config.ColorModel),
		Width:    config.Width,
		Height:   config.Height,
		ByteSize: len(data),
	}
	meta.DPI, meta.Compression = readDensity(format, data)

	e.logger.Debug("图片元数据提取成功", map[string]interface{}{
		"format": meta.Format,
		"mode":   meta.Mode,
		"width":  meta.Width,
		"height": meta.Height,
	})
	return meta
}

func (e *MetadataExtractor) fallback(data []byte, err error) Metadata {
	e.logger.Warn("无法提取图片元数据", map[string]interface{}{
		"size":  len(data),
		"error": err.Error(),
	})
	return Metadata{
		Format:   UnknownFormat,
		ByteSize: len(data),
		Error:    err.Error(),
	}
}

// colorMode 将颜色模型转换为常见的图像模式名
func colorMode(m color.Model) string {
	if _, ok := m.(color.Palette); ok {
		return "P"
	}
	switch m {
	// 解码器对不含alpha通道的真彩色图返回 RGBAModel
	case color.RGBAModel, color.RGBA64Model, color.YCbCrModel:
		return "RGB"
	case color.NRGBAModel, color.NRGBA64Model, color.NYCbCrAModel:
		return "RGBA"
	case color.GrayModel, color.AlphaModel:
		return "L"
	case color.Gray16Model, color.Alpha16Model:
		return "I;16"
	case color.CMYKModel:
		return "CMYK"
	}
	return ""
}
