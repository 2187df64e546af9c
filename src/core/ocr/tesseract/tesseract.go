//go:build tesseract

package tesseract

import (
	"context"
	"fmt"
	"strings"

	"ocr-server-go/src/configs"
	"ocr-server-go/src/core/image"
	"ocr-server-go/src/core/ocr"
	"ocr-server-go/src/core/utils"

	"github.com/otiai10/gosseract/v2"
)

// Recognizer 基于本地 Tesseract 的识别器，提供真实置信度
type Recognizer struct {
	tessdataPrefix string
	clientFactory  func() *gosseract.Client
	logger         *utils.Logger
}

// NewRecognizer 创建Tesseract识别器，tesseract.url 配置项作为 tessdata 目录
func NewRecognizer(config *configs.OCRConfig, logger *utils.Logger) (ocr.Recognizer, error) {
	logger.Debug("Tesseract识别器初始化成功", map[string]interface{}{
		"version":  gosseract.Version(),
		"tessdata": config.Tesseract.BaseURL,
	})
	return &Recognizer{
		tessdataPrefix: config.Tesseract.BaseURL,
		clientFactory:  gosseract.NewClient,
		logger:         logger,
	}, nil
}

func (r *Recognizer) Name() string { return Name }

// Recognize 每次调用使用独立的 client，可被批量请求并发调用
func (r *Recognizer) Recognize(ctx context.Context, input ocr.Input) (ocr.Recognition, error) {
	if err := ctx.Err(); err != nil {
		return ocr.Recognition{}, err
	}

	data, err := image.Preprocess(input.Image, input.Scale, input.Contrast)
	if err != nil {
		return ocr.Recognition{}, fmt.Errorf("preprocess: %w", err)
	}

	c := r.clientFactory()
	defer c.Close()

	if r.tessdataPrefix != "" {
		if err := c.SetTessdataPrefix(r.tessdataPrefix); err != nil {
			return ocr.Recognition{}, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if langs := Languages(input.Language); len(langs) > 0 {
		if err := c.SetLanguage(langs...); err != nil {
			return ocr.Recognition{}, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return ocr.Recognition{}, fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return ocr.Recognition{}, fmt.Errorf("recognize text: %w", err)
	}
	text = strings.TrimSpace(text)

	recognition := ocr.Recognition{Text: text, Lines: ocr.SplitLines(text)}
	if boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE); err == nil && len(boxes) > 0 {
		lines := make([]ocr.Line, 0, len(boxes))
		for _, b := range boxes {
			if strings.TrimSpace(b.Word) == "" {
				continue
			}
			confidence := b.Confidence
			lines = append(lines, ocr.Line{Text: strings.TrimSpace(b.Word), Confidence: &confidence})
		}
		recognition.Lines = lines
	}
	if boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD); err == nil && len(boxes) > 0 {
		confidences := make([]float64, len(boxes))
		for i, b := range boxes {
			confidences[i] = b.Confidence
		}
		recognition.Confidence = MeanConfidence(confidences)
		recognition.HasConfidence = true
	}
	return recognition, nil
}

func init() {
	ocr.Register(Name, NewRecognizer)
}
