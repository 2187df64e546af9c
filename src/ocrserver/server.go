package ocrserver

import (
	"context"
	"errors"
	"net/http"

	"ocr-server-go/src/configs"
	"ocr-server-go/src/core/archive"
	"ocr-server-go/src/core/auth"
	"ocr-server-go/src/core/image"
	"ocr-server-go/src/core/utils"

	"github.com/gin-gonic/gin"
)

type DefaultOCRService struct {
	logger    *utils.Logger
	config    *configs.Config
	processor Processor
	validator *image.UploadValidator
	gate      *auth.APIKeyGate
	batchSize int           // 批量处理并发度，至少为1
	archive   archive.Store // 为 nil 时不归档
	records   RecordStore   // 为 nil 时不记录
}

// Option 可选依赖
type Option func(*DefaultOCRService)

// WithArchive 启用上传图片归档
func WithArchive(store archive.Store) Option {
	return func(s *DefaultOCRService) {
		s.archive = store
	}
}

// WithRecords 启用扫描历史
func WithRecords(store RecordStore) Option {
	return func(s *DefaultOCRService) {
		s.records = store
	}
}

// NewDefaultOCRService 构造函数
func NewDefaultOCRService(config *configs.Config, logger *utils.Logger, processor Processor, opts ...Option) (*DefaultOCRService, error) {
	if config == nil {
		return nil, errors.New("缺少配置")
	}
	if processor == nil {
		return nil, errors.New("缺少OCR处理器")
	}

	service := &DefaultOCRService{
		logger:    logger,
		config:    config,
		processor: processor,
		validator: image.NewUploadValidator(config.OCR.MaxUploadSize),
		gate:      auth.NewAPIKeyGate(config.Server.APIKey),
		batchSize: max(config.OCR.BatchConcurrency, 1),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service, nil
}

// Start 实现 OCRService 接口，注册所有 OCR 相关路由。
// 根路径和健康检查不需要认证，/ocr 下的接口都需要 X-API-Key。
func (s *DefaultOCRService) Start(ctx context.Context, engine *gin.Engine) error {
	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)

	ocrGroup := engine.Group("/ocr", s.gate.Middleware())
	ocrGroup.POST("/process", s.handleProcess)
	ocrGroup.POST("/batch", s.handleBatch)
	ocrGroup.POST("/promotion", s.handlePromotion)
	ocrGroup.GET("/records", s.handleRecords)

	s.logger.Info("OCR HTTP服务路由注册完成", map[string]interface{}{
		"recognizer": s.processor.RecognizerName(),
		"archive":    s.archive != nil,
		"records":    s.records != nil,
	})
	return nil
}

// NewRouter 创建带公共中间件的 gin 引擎并注册各服务的路由
func NewRouter(ctx context.Context, config *configs.Config, logger *utils.Logger, services ...OCRService) (*gin.Engine, error) {
	router := gin.New()
	router.Use(
		RequestID(),
		Recovery(logger),
		RequestLogger(logger),
		CORS(config.Server.CORSOrigins),
		BodyLimit(config.Server.MaxRequestSize),
	)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorDetail{Detail: MessageNotFound})
	})

	for _, service := range services {
		if err := service.Start(ctx, router); err != nil {
			return nil, err
		}
	}
	return router, nil
}
