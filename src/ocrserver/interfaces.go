package ocrserver

import (
	"context"

	"ocr-server-go/src/core/ocr"
	"ocr-server-go/src/core/records"
	"ocr-server-go/src/models"

	"github.com/gin-gonic/gin"
)

// OCRService 定义 OCR HTTP 服务接口
type OCRService interface {
	// 将 OCR 的路由注册到 engine
	Start(ctx context.Context, engine *gin.Engine) error
}

// Processor 单张图片的识别流程
type Processor interface {
	Process(ctx context.Context, data []byte, opts ocr.Options) (*ocr.Result, error)
	RecognizerName() string
}

// RecordStore 扫描历史存储
type RecordStore interface {
	Save(ctx context.Context, entry records.Entry) (*models.ScanRecord, error)
	Recent(ctx context.Context, limit int) ([]models.ScanRecord, error)
	Ping(ctx context.Context) error
}
