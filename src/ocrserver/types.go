package ocrserver

import (
	"ocr-server-go/src/core/ocr"
	"ocr-server-go/src/core/promotion"
)

// 固定的响应信息
const (
	MessageProcessed      = "OCR processed successfully"
	MessageInternalError  = "Internal server error"
	MessageNotImage       = "File must be an image"
	MessageInvalidType    = "Invalid file type"
	MessageHealthFailed   = "Health check failed"
	MessageNotFound       = "Not Found"
	MessageNoDatabase     = "Scan history is not enabled"
	MessageRunning        = "running"
	MessageHealthy        = "healthy"
	MessageRecordsListed  = "Records retrieved successfully"
	MessagePromotionFound = "Promotion extracted successfully"
)

// Response 成功响应的统一结构，每个请求新建
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// ErrorEnvelope 未捕获错误的响应结构
type ErrorEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// ErrorDetail 处理函数主动返回的错误
type ErrorDetail struct {
	Detail string `json:"detail"`
}

// BatchItemResult 批量请求中单个文件的结果
type BatchItemResult struct {
	Filename string      `json:"filename"`
	Success  bool        `json:"success"`
	Data     *ocr.Result `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// PromotionResult 促销提取结果
type PromotionResult struct {
	OCR       *ocr.Result    `json:"ocr"`
	Promotion promotion.Data `json:"promotion"`
}

// RootResponse 服务信息
type RootResponse struct {
	Message   string `json:"message"`
	Version   string `json:"version"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HealthResponse 健康检查结果
type HealthResponse struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	Version    string `json:"version"`
	Timestamp  string `json:"timestamp"`
	OCREngine  string `json:"ocr_engine"`
	Language   string `json:"language"`
	Recognizer string `json:"recognizer"`
}
