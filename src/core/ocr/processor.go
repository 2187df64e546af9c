package ocr

import (
	"context"
	"errors"
	"fmt"

	"ocr-server-go/src/core/image"
	"ocr-server-go/src/core/utils"
)

// ErrProcessing OCR处理失败，原始错误附在其后
var ErrProcessing = errors.New("OCR processing error")

// PlaceholderProcessingTime 结果中的处理耗时占位值（秒）
const PlaceholderProcessingTime = 0.5

// Processor 组合识别、置信度估算和元数据提取
type Processor struct {
	recognizer Recognizer
	estimator  *ConfidenceEstimator
	metadata   *image.MetadataExtractor
	logger     *utils.Logger
}

// NewProcessor 创建OCR处理器
func NewProcessor(recognizer Recognizer, estimator *ConfidenceEstimator, metadata *image.MetadataExtractor, logger *utils.Logger) *Processor {
	if estimator == nil {
		estimator = NewConfidenceEstimator(nil)
	}
	if metadata == nil {
		metadata = image.NewMetadataExtractor(logger)
	}
	return &Processor{
		recognizer: recognizer,
		estimator:  estimator,
		metadata:   metadata,
		logger:     logger,
	}
}

// RecognizerName 当前使用的识别器
func (p *Processor) RecognizerName() string {
	return p.recognizer.Name()
}

// Process 依次执行识别、置信度估算和元数据提取，组装为 Result。
// 任何子步骤的错误（包括panic）都包装为 ErrProcessing 返回。
func (p *Processor) Process(ctx context.Context, data []byte, opts Options) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("OCR处理发生panic", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			result, err = nil, fmt.Errorf("%w: %v", ErrProcessing, r)
		}
	}()

	recognition, err := p.recognizer.Recognize(ctx, Input{
		Image:    data,
		Format:   image.DetectFormat(data),
		Language: opts.Language,
		Scale:    opts.Scale,
		Contrast: opts.Contrast,
	})
	if err != nil {
		p.logger.Error("OCR识别失败", map[string]interface{}{
			"recognizer": p.recognizer.Name(),
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	confidence := p.estimator.Estimate(recognition.Text)
	if recognition.HasConfidence {
		confidence = clampConfidence(recognition.Confidence)
	}

	metadata := p.metadata.Extract(data)

	return &Result{
		Text:           recognition.Text,
		Confidence:     confidence,
		Language:       opts.Language,
		Engine:         opts.Engine,
		Metadata:       metadata,
		ProcessingTime: PlaceholderProcessingTime,
		WordCount:      utils.CountWords(recognition.Text),
		CharacterCount: utils.CountCharacters(recognition.Text),
		Lines:          recognition.Lines,
	}, nil
}
