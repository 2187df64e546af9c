// Package client 是 OCR 服务的 Go 客户端。
package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ocr-server-go/src/core/auth"
	"ocr-server-go/src/core/ocr"

	"github.com/go-resty/resty/v2"
)

// APIError 服务端返回的非2xx响应
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ocr service returned %d: %s", e.Status, e.Detail)
}

// errorBody 兼容两种错误结构：{detail} 和 {success,message,error}
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b *errorBody) text() string {
	switch {
	case b.Detail != "":
		return b.Detail
	case b.Error != "":
		return b.Message + ": " + b.Error
	}
	return b.Message
}

// Image 待上传的图片
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProcessOptions 单张图片的识别选项，零值表示使用服务端默认值
type ProcessOptions struct {
	Language string
	Engine   string
	Scale    *bool
	Contrast *bool
}

// Health 健康检查响应
type Health struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
	OCREngine string `json:"ocr_engine"`
	Language  string `json:"language"`
}

// BatchItem 批量结果中的一项
type BatchItem struct {
	Filename string      `json:"filename"`
	Success  bool        `json:"success"`
	Data     *ocr.Result `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// BatchResult 批量处理结果
type BatchResult struct {
	Message string
	Items   []BatchItem
}

type envelope[T any] struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      T      `json:"data"`
	Timestamp string `json:"timestamp"`
}

// Client OCR服务客户端，可并发使用
type Client struct {
	http *resty.Client
}

// New 创建客户端，timeout<=0 时不设超时
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader(auth.HeaderName, apiKey).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &Client{http: c}
}

// Health 调用 GET /health
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var health Health
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&health).
		SetError(&errorBody{}).
		Get("/health")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &health, nil
}

// Process 调用 POST /ocr/process
func (c *Client) Process(ctx context.Context, img Image, opts ProcessOptions) (*ocr.Result, error) {
	var out envelope[*ocr.Result]
	req := c.http.R().
		SetContext(ctx).
		SetMultipartField("image", img.Filename, img.ContentType, bytes.NewReader(img.Data)).
		SetResult(&out).
		SetError(&errorBody{})

	fields := map[string]string{}
	if opts.Language != "" {
		fields["language"] = opts.Language
	}
	if opts.Engine != "" {
		fields["ocr_engine"] = opts.Engine
	}
	if opts.Scale != nil {
		fields["scale"] = strconv.FormatBool(*opts.Scale)
	}
	if opts.Contrast != nil {
		fields["contrast"] = strconv.FormatBool(*opts.Contrast)
	}
	if len(fields) > 0 {
		req.SetMultipartFormData(fields)
	}

	resp, err := req.Post("/ocr/process")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Batch 调用 POST /ocr/batch，结果顺序与 images 一致
func (c *Client) Batch(ctx context.Context, images []Image, language string) (*BatchResult, error) {
	var out envelope[[]BatchItem]
	req := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&errorBody{})
	for _, img := range images {
		req.SetMultipartField("images", img.Filename, img.ContentType, bytes.NewReader(img.Data))
	}
	if language != "" {
		req.SetMultipartFormData(map[string]string{"language": language})
	}

	resp, err := req.Post("/ocr/batch")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &BatchResult{Message: out.Message, Items: out.Data}, nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request ocr service: %w", err)
	}
	if !resp.IsError() {
		return nil
	}
	apiErr := &APIError{Status: resp.StatusCode(), Detail: http.StatusText(resp.StatusCode())}
	if body, ok := resp.Error().(*errorBody); ok && body.text() != "" {
		apiErr.Detail = body.text()
	}
	return apiErr
}
