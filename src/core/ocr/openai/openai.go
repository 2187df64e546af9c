package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"ocr-server-go/src/configs"
	"ocr-server-go/src/core/ocr"
	"ocr-server-go/src/core/utils"

	"github.com/sashabaranov/go-openai"
)

// Name 识别器注册名
const Name = "openai"

const (
	defaultModel   = "gpt-4o-mini"
	defaultTimeout = 60 * time.Second
)

// Recognizer 通过 OpenAI 兼容的视觉模型进行文字转写
type Recognizer struct {
	client  *openai.Client
	config  configs.RecognizerEntry
	timeout time.Duration
	logger  *utils.Logger
}

// NewRecognizer 创建OpenAI识别器
func NewRecognizer(config *configs.OCRConfig, logger *utils.Logger) (ocr.Recognizer, error) {
	entry := config.OpenAI
	if entry.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if entry.ModelName == "" {
		entry.ModelName = defaultModel
	}

	clientConfig := openai.DefaultConfig(entry.APIKey)
	if entry.BaseURL != "" {
		clientConfig.BaseURL = entry.BaseURL
	}

	timeout := defaultTimeout
	if entry.Timeout > 0 {
		timeout = time.Duration(entry.Timeout) * time.Second
	}

	logger.Debug("OpenAI识别器初始化成功", map[string]interface{}{
		"model_name": entry.ModelName,
		"base_url":   clientConfig.BaseURL,
	})

	return &Recognizer{
		client:  openai.NewClientWithConfig(clientConfig),
		config:  entry,
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (r *Recognizer) Name() string { return Name }

// Recognize 以 data URL 形式发送原图，返回模型转写的文本。
// 视觉模型直接读取原图，不做 Scale/Contrast 预处理。
func (r *Recognizer) Recognize(ctx context.Context, input ocr.Input) (ocr.Recognition, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	dataURL := fmt.Sprintf("data:%s;base64,%s", ocr.MimeType(input.Format), base64.StdEncoding.EncodeToString(input.Image))

	request := openai.ChatCompletionRequest{
		Model: r.config.ModelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: ocr.TranscriptionPrompt(input.Language),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
		Temperature: float32(r.config.Temperature),
	}
	if r.config.MaxTokens > 0 {
		request.MaxTokens = r.config.MaxTokens
	}

	start := time.Now()
	response, err := r.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return ocr.Recognition{}, fmt.Errorf("OpenAI Vision API调用失败: %w", err)
	}
	if len(response.Choices) == 0 {
		return ocr.Recognition{}, errors.New("OpenAI Vision API没有返回结果")
	}

	text := ocr.StripThinkTags(response.Choices[0].Message.Content)
	r.logger.Debug("OpenAI转写完成", map[string]interface{}{
		"model_name": r.config.ModelName,
		"chars":      utils.CountCharacters(text),
		"duration":   time.Since(start).String(),
	})
	return ocr.Recognition{Text: text, Lines: ocr.SplitLines(text)}, nil
}

func init() {
	ocr.Register(Name, NewRecognizer)
}
