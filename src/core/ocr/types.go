package ocr

import (
	"context"

	"ocr-server-go/src/core/image"
)

// Options 单次识别的请求参数
type Options struct {
	Language string // 识别语言，如 spa+eng
	Engine   string // 回显在结果中的引擎名
	Scale    bool   // 预处理：缩放
	Contrast bool   // 预处理：增强对比度
}

// Input 交给识别器的图片
type Input struct {
	Image    []byte
	Format   string // 根据文件头识别的格式，可能为空
	Language string
	Scale    bool
	Contrast bool
}

// Line 识别出的一行文本，Confidence 只有引擎给出逐行置信度时才有值
type Line struct {
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Recognition 识别器输出
type Recognition struct {
	Text  string
	Lines []Line
	// Confidence 识别器自身给出的置信度(0-100)，HasConfidence 为 false 时忽略
	Confidence    float64
	HasConfidence bool
}

// Recognizer 文字识别器接口，真实引擎与模拟实现共用
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, input Input) (Recognition, error)
}

// Result 单张图片的OCR结果
type Result struct {
	Text           string         `json:"text"`
	Confidence     float64        `json:"confidence"`
	Language       string         `json:"language"`
	Engine         string         `json:"engine"`
	Metadata       image.Metadata `json:"metadata"`
	ProcessingTime float64        `json:"processing_time"`
	WordCount      int            `json:"word_count"`
	CharacterCount int            `json:"character_count"`
	Lines          []Line         `json:"lines,omitempty"` // 识别器给出分行结果时才有
}
