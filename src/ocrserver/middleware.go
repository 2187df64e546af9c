package ocrserver

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ocr-server-go/src/core/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader 请求ID响应头
	RequestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestID 沿用客户端传入的请求ID，没有时生成新的
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Recovery 捕获处理过程中的panic，返回统一的错误结构
func Recovery(logger *utils.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		message := fmt.Sprint(recovered)
		logger.Error("未处理的异常", map[string]interface{}{
			"request_id": requestIDFrom(c),
			"path":       c.Request.URL.Path,
			"panic":      message,
		})
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorEnvelope{
			Success:   false,
			Message:   MessageInternalError,
			Error:     message,
			Timestamp: utils.Timestamp(),
		})
	})
}

// RequestLogger 记录每个请求的结果
func RequestLogger(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"request_id": requestIDFrom(c),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("HTTP请求", fields)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("HTTP请求", fields)
		default:
			logger.Info("HTTP请求", fields)
		}
	}
}

// CORS 允许配置中的来源跨域访问，"*" 表示任意来源
func CORS(origins []string) gin.HandlerFunc {
	allowAll := false
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimSuffix(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" || !(allowAll || allowed[origin]) {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Vary", "Origin")
		c.Header("Access-Control-Expose-Headers", RequestIDHeader)

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			if headers := c.GetHeader("Access-Control-Request-Headers"); headers != "" {
				c.Header("Access-Control-Allow-Headers", headers)
			} else {
				c.Header("Access-Control-Allow-Headers", "*")
			}
			c.Header("Access-Control-Max-Age", "600")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// BodyLimit 限制单个请求体的大小，limit<=0 时不限制
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
