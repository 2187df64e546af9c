package ocrserver

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"ocr-server-go/src/configs"
	"ocr-server-go/src/core/image"
	"ocr-server-go/src/core/ocr"
	"ocr-server-go/src/core/promotion"
	"ocr-server-go/src/core/records"
	"ocr-server-go/src/core/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// handleRoot 服务信息，不需要认证
func (s *DefaultOCRService) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Message:   configs.ServiceName,
		Version:   configs.ServiceVersion,
		Status:    MessageRunning,
		Timestamp: utils.Timestamp(),
	})
}

// handleHealth 健康检查，内部错误不对外暴露
func (s *DefaultOCRService) handleHealth(c *gin.Context) {
	response, err := s.checkHealth(c.Request.Context())
	if err != nil {
		s.logger.Error("健康检查失败", map[string]interface{}{
			"request_id": requestIDFrom(c),
			"error":      err.Error(),
		})
		s.respondError(c, http.StatusInternalServerError, MessageHealthFailed)
		return
	}
	c.JSON(http.StatusOK, response)
}

func (s *DefaultOCRService) checkHealth(ctx context.Context) (response *HealthResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			response, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	if s.records != nil {
		if err := s.records.Ping(ctx); err != nil {
			return nil, fmt.Errorf("数据库不可用: %w", err)
		}
	}
	return &HealthResponse{
		Status:     MessageHealthy,
		Service:    configs.ServiceID,
		Version:    configs.ServiceVersion,
		Timestamp:  utils.Timestamp(),
		OCREngine:  s.config.OCR.Engine,
		Language:   s.config.OCR.Language,
		Recognizer: s.processor.RecognizerName(),
	}, nil
}

// handleProcess 处理单张图片
func (s *DefaultOCRService) handleProcess(c *gin.Context) {
	upload, opts, ok := s.parseSingleUpload(c)
	if !ok {
		return
	}

	result, err := s.processFile(c.Request.Context(), requestIDFrom(c), "process", upload, opts, nil)
	if err != nil {
		s.respondProcessError(c, err)
		return
	}
	s.respondOK(c, MessageProcessed, result)
}

// handlePromotion 识别后提取促销字段
func (s *DefaultOCRService) handlePromotion(c *gin.Context) {
	upload, opts, ok := s.parseSingleUpload(c)
	if !ok {
		return
	}

	var data promotion.Data
	result, err := s.processFile(c.Request.Context(), requestIDFrom(c), "promotion", upload, opts, func(r *ocr.Result) *promotion.Data {
		data = promotion.Extract(r.Text)
		return &data
	})
	if err != nil {
		s.respondProcessError(c, err)
		return
	}
	s.respondOK(c, MessagePromotionFound, PromotionResult{OCR: result, Promotion: data})
}

// parseSingleUpload 解析单文件请求，出错时已写入响应
func (s *DefaultOCRService) parseSingleUpload(c *gin.Context) (*multipart.FileHeader, ocr.Options, bool) {
	var opts ocr.Options
	if err := s.parseMultipart(c); err != nil {
		s.respondFormError(c, err, "image")
		return nil, opts, false
	}

	upload, err := c.FormFile("image")
	if err != nil {
		s.respondError(c, http.StatusUnprocessableEntity, "Field required: image")
		return nil, opts, false
	}

	opts, err = s.parseOptions(c)
	if err != nil {
		s.respondError(c, http.StatusUnprocessableEntity, err.Error())
		return nil, opts, false
	}

	if err := s.validator.Check(upload.Header.Get("Content-Type"), upload.Size); err != nil {
		if errors.Is(err, image.ErrNotImage) {
			s.respondError(c, http.StatusBadRequest, MessageNotImage)
		} else {
			s.respondError(c, http.StatusRequestEntityTooLarge, err.Error())
		}
		return nil, opts, false
	}
	return upload, opts, true
}

// respondProcessError 识别失败统一返回500
func (s *DefaultOCRService) respondProcessError(c *gin.Context, err error) {
	s.respondError(c, http.StatusInternalServerError, fmt.Sprintf("Error processing OCR: %v", err))
}

// handleBatch 批量处理，单个文件失败不影响其他文件，结果顺序与上传顺序一致
func (s *DefaultOCRService) handleBatch(c *gin.Context) {
	if err := s.parseMultipart(c); err != nil {
		if isBodyTooLarge(err) || isNotMultipart(err) {
			s.respondFormError(c, err, "images")
			return
		}
		s.logger.Error("批量处理失败", map[string]interface{}{
			"request_id": requestIDFrom(c),
			"error":      err.Error(),
		})
		s.respondError(c, http.StatusInternalServerError, fmt.Sprintf("Error processing batch: %v", err))
		return
	}

	files := c.Request.MultipartForm.File["images"]
	if len(files) == 0 {
		s.respondError(c, http.StatusUnprocessableEntity, "Field required: images")
		return
	}

	language, ok := formOrQuery(c, "language")
	if !ok || language == "" {
		language = s.config.OCR.Language
	}
	opts := ocr.Options{
		Language: language,
		Engine:   s.config.OCR.Engine,
		Scale:    true,
		Contrast: true,
	}

	s.logger.Info("开始批量处理", map[string]interface{}{
		"request_id": requestIDFrom(c),
		"count":      len(files),
	})

	requestID := requestIDFrom(c)
	results := make([]BatchItemResult, len(files))
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.SetLimit(s.batchSize)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			results[i] = s.processBatchItem(ctx, requestID, file, opts)
			return nil
		})
	}
	_ = g.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Success {
			succeeded++
		}
	}
	message := fmt.Sprintf("Batch processed: %d/%d succeeded", succeeded, len(files))
	s.logger.Info(message, map[string]interface{}{
		"request_id": requestIDFrom(c),
	})
	s.respondOK(c, message, results)
}

// processBatchItem 处理批量中的单个文件，任何错误都只体现在该项结果中
func (s *DefaultOCRService) processBatchItem(ctx context.Context, requestID string, file *multipart.FileHeader, opts ocr.Options) (item BatchItemResult) {
	item.Filename = file.Filename
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("批量处理单项发生panic", map[string]interface{}{
				"request_id": requestID,
				"filename":   file.Filename,
				"panic":      fmt.Sprint(r),
			})
			item = BatchItemResult{Filename: file.Filename, Error: fmt.Sprint(r)}
		}
	}()

	if err := s.validator.Check(file.Header.Get("Content-Type"), file.Size); err != nil {
		if errors.Is(err, image.ErrNotImage) {
			item.Error = MessageInvalidType
		} else {
			item.Error = err.Error()
		}
		return item
	}

	result, err := s.processFile(ctx, requestID, "batch", file, opts, nil)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	item.Success = true
	item.Data = result
	return item
}

// handleRecords 最近的扫描历史
func (s *DefaultOCRService) handleRecords(c *gin.Context) {
	if s.records == nil {
		s.respondError(c, http.StatusServiceUnavailable, MessageNoDatabase)
		return
	}

	limit := records.DefaultLimit
	if v, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(c, http.StatusUnprocessableEntity, "Invalid integer value for limit")
			return
		}
		limit = n
	}

	list, err := s.records.Recent(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("查询扫描记录失败", map[string]interface{}{
			"request_id": requestIDFrom(c),
			"error":      err.Error(),
		})
		s.respondError(c, http.StatusInternalServerError, fmt.Sprintf("Error listing records: %v", err))
		return
	}
	s.respondOK(c, MessageRecordsListed, list)
}

func (s *DefaultOCRService) respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: utils.Timestamp(),
	})
}

// respondError 返回错误响应
func (s *DefaultOCRService) respondError(c *gin.Context, statusCode int, detail string) {
	c.JSON(statusCode, ErrorDetail{Detail: detail})
}
