package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderName 携带API密钥的请求头
	HeaderName = "X-API-Key"
	// UnauthorizedMessage 认证失败时返回的固定信息，不透露期望值
	UnauthorizedMessage = "Invalid or missing API key"
)

// ErrUnauthorized 缺少或错误的API密钥
var ErrUnauthorized = errors.New(UnauthorizedMessage)

// APIKeyGate 基于静态密钥的认证
type APIKeyGate struct {
	secretKey string
}

// NewAPIKeyGate 创建认证门。空密钥会拒绝所有请求。
func NewAPIKeyGate(secretKey string) *APIKeyGate {
	return &APIKeyGate{secretKey: secretKey}
}

// Verify 请求头存在且与配置的密钥完全相等时通过
func (g *APIKeyGate) Verify(key string) error {
	if g == nil || g.secretKey == "" {
		return ErrUnauthorized
	}
	if key == "" || key != g.secretKey {
		return ErrUnauthorized
	}
	return nil
}

// Middleware 在处理函数执行前校验 X-API-Key，失败时直接中止请求
func (g *APIKeyGate) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := g.Verify(c.GetHeader(HeaderName)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": UnauthorizedMessage})
			return
		}
		c.Next()
	}
}
