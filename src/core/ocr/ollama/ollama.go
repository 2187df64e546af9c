package ollama

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"ocr-server-go/src/configs"
	"ocr-server-go/src/core/ocr"
	"ocr-server-go/src/core/utils"

	"github.com/go-resty/resty/v2"
)

// Name 识别器注册名
const Name = "ollama"

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llava"
	defaultTimeout = 120 * time.Second
)

// ChatRequest Ollama API请求结构
type ChatRequest struct {
	Model    string                 `json:"model"`
	Messages []Message              `json:"messages"`
	Stream   bool                   `json:"stream"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

// Message Ollama消息结构
type Message struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"` // 纯base64，不带data URL前缀
}

// ChatResponse Ollama API响应结构
type ChatResponse struct {
	Model     string  `json:"model"`
	CreatedAt string  `json:"created_at"`
	Message   Message `json:"message"`
	Done      bool    `json:"done"`
}

// errorResponse Ollama错误响应
type errorResponse struct {
	Error string `json:"error"`
}

// Recognizer 通过本地 Ollama 视觉模型进行文字转写
type Recognizer struct {
	client *resty.Client
	config configs.RecognizerEntry
	logger *utils.Logger
}

// NewRecognizer 创建Ollama识别器，Ollama不需要API key
func NewRecognizer(config *configs.OCRConfig, logger *utils.Logger) (ocr.Recognizer, error) {
	entry := config.Ollama
	if entry.BaseURL == "" {
		entry.BaseURL = defaultBaseURL
	}
	if entry.ModelName == "" {
		entry.ModelName = defaultModel
	}
	timeout := defaultTimeout
	if entry.Timeout > 0 {
		timeout = time.Duration(entry.Timeout) * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimSuffix(entry.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	logger.Debug("Ollama识别器初始化成功", map[string]interface{}{
		"base_url": entry.BaseURL,
		"model":    entry.ModelName,
	})

	return &Recognizer{client: client, config: entry, logger: logger}, nil
}

func (r *Recognizer) Name() string { return Name }

// Recognize 调用 /api/chat，非流式返回完整转写。
// 与 openai 识别器一样发送原图，忽略 Scale/Contrast。
func (r *Recognizer) Recognize(ctx context.Context, input ocr.Input) (ocr.Recognition, error) {
	request := ChatRequest{
		Model: r.config.ModelName,
		Messages: []Message{
			{
				Role:    "user",
				Content: ocr.TranscriptionPrompt(input.Language),
				Images:  []string{base64.StdEncoding.EncodeToString(input.Image)},
			},
		},
		Options: map[string]interface{}{
			"temperature": r.config.Temperature,
		},
	}
	if r.config.MaxTokens > 0 {
		request.Options["num_predict"] = r.config.MaxTokens
	}

	var result ChatResponse
	var apiErr errorResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&result).
		SetError(&apiErr).
		Post("/api/chat")
	if err != nil {
		return ocr.Recognition{}, fmt.Errorf("Ollama API调用失败: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error != "" {
			return ocr.Recognition{}, fmt.Errorf("Ollama API返回错误 %d: %s", resp.StatusCode(), apiErr.Error)
		}
		return ocr.Recognition{}, fmt.Errorf("Ollama API返回错误: %d", resp.StatusCode())
	}

	text := ocr.StripThinkTags(result.Message.Content)
	r.logger.Debug("Ollama转写完成", map[string]interface{}{
		"model":    result.Model,
		"chars":    utils.CountCharacters(text),
		"duration": resp.Time().String(),
	})
	return ocr.Recognition{Text: text, Lines: ocr.SplitLines(text)}, nil
}

func init() {
	ocr.Register(Name, NewRecognizer)
}
