package ocrserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"ocr-server-go/src/core/archive"
	"ocr-server-go/src/core/ocr"
	"ocr-server-go/src/core/promotion"
	"ocr-server-go/src/core/records"

	"github.com/gin-gonic/gin"
)

// 内存中缓存的表单大小，超出部分写入临时文件
const multipartMemory = 32 << 20

// parseMultipart 解析 multipart 表单
func (s *DefaultOCRService) parseMultipart(c *gin.Context) error {
	if c.Request.MultipartForm != nil {
		return nil
	}
	return c.Request.ParseMultipartForm(multipartMemory)
}

// respondFormError 表单解析失败：超限返回413，缺少字段返回422，其余返回400
func (s *DefaultOCRService) respondFormError(c *gin.Context, err error, field string) {
	switch {
	case isBodyTooLarge(err):
		s.respondError(c, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Request body exceeds limit of %d bytes", s.config.Server.MaxRequestSize))
	case isNotMultipart(err):
		s.respondError(c, http.StatusUnprocessableEntity, "Field required: "+field)
	default:
		s.respondError(c, http.StatusBadRequest, fmt.Sprintf("Invalid multipart body: %v", err))
	}
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

func isNotMultipart(err error) bool {
	return errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary)
}

// formOrQuery 先取表单字段，没有时取查询参数
func formOrQuery(c *gin.Context, key string) (string, bool) {
	if c.Request.MultipartForm != nil {
		if values := c.Request.MultipartForm.Value[key]; len(values) > 0 {
			return values[0], true
		}
	}
	return c.GetQuery(key)
}

// parseOptions 读取识别选项，缺省值来自配置，scale/contrast 默认开启
func (s *DefaultOCRService) parseOptions(c *gin.Context) (ocr.Options, error) {
	opts := ocr.Options{
		Language: s.config.OCR.Language,
		Engine:   s.config.OCR.Engine,
		Scale:    true,
		Contrast: true,
	}
	if v, ok := formOrQuery(c, "language"); ok && v != "" {
		opts.Language = v
	}
	if v, ok := formOrQuery(c, "ocr_engine"); ok && v != "" {
		opts.Engine = v
	}

	var err error
	if v, ok := formOrQuery(c, "scale"); ok {
		if opts.Scale, err = parseBool(v); err != nil {
			return opts, fmt.Errorf("Invalid boolean value for scale: %q", v)
		}
	}
	if v, ok := formOrQuery(c, "contrast"); ok {
		if opts.Contrast, err = parseBool(v); err != nil {
			return opts, fmt.Errorf("Invalid boolean value for contrast: %q", v)
		}
	}
	return opts, nil
}

// parseBool 接受 true/false、1/0、yes/no、on/off，不区分大小写
func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on", "t", "y":
		return true, nil
	case "false", "0", "no", "off", "f", "n":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean: %q", v)
}

func readFile(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("打开上传文件失败: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件失败: %w", err)
	}
	return data, nil
}

// processFile 读取并识别一个已通过校验的文件。
// 识别成功后执行可选的 extract，并把结果归档和记录，这两步失败只记日志。
func (s *DefaultOCRService) processFile(ctx context.Context, requestID, endpoint string, file *multipart.FileHeader, opts ocr.Options, extract func(*ocr.Result) *promotion.Data) (*ocr.Result, error) {
	data, err := readFile(file)
	if err != nil {
		return nil, err
	}

	s.logger.Info("开始处理图片", map[string]interface{}{
		"request_id": requestID,
		"filename":   file.Filename,
		"size":       len(data),
		"language":   opts.Language,
	})

	result, err := s.processor.Process(ctx, data, opts)
	if err != nil {
		s.logger.Error("处理图片失败", map[string]interface{}{
			"request_id": requestID,
			"filename":   file.Filename,
			"error":      err.Error(),
		})
		return nil, err
	}

	var promo *promotion.Data
	if extract != nil {
		promo = extract(result)
	}

	s.logger.Info("OCR完成", map[string]interface{}{
		"request_id": requestID,
		"filename":   file.Filename,
		"word_count": result.WordCount,
		"confidence": result.Confidence,
	})

	s.persist(ctx, records.Entry{
		RequestID:   requestID,
		Endpoint:    endpoint,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		SizeBytes:   int64(len(data)),
		Recognizer:  s.processor.RecognizerName(),
		Result:      result,
		Promotion:   promo,
	}, data)
	return result, nil
}

// persist 归档原图并写入扫描历史
func (s *DefaultOCRService) persist(ctx context.Context, entry records.Entry, data []byte) {
	if s.archive != nil {
		key := archive.NewKey(data)
		if _, err := s.archive.Put(ctx, key, data, entry.ContentType); err != nil {
			s.logger.Warn("归档图片失败", map[string]interface{}{
				"request_id": entry.RequestID,
				"key":        key,
				"error":      err.Error(),
			})
		} else {
			entry.ArchiveKey = key
		}
	}

	if s.records != nil {
		if _, err := s.records.Save(ctx, entry); err != nil {
			s.logger.Warn("保存扫描记录失败", map[string]interface{}{
				"request_id": entry.RequestID,
				"error":      err.Error(),
			})
		}
	}
}
