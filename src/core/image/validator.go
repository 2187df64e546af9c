package image

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotImage 上传文件声明的类型不是图片
	ErrNotImage = errors.New("file must be an image")
	// ErrTooLarge 上传文件超过大小限制
	ErrTooLarge = errors.New("file exceeds upload size limit")
)

// UploadValidator 上传文件校验器
type UploadValidator struct {
	maxFileSize int64
}

// NewUploadValidator 创建上传文件校验器
func NewUploadValidator(maxFileSize int64) *UploadValidator {
	return &UploadValidator{maxFileSize: maxFileSize}
}

// Check 校验声明的Content-Type与文件大小
func (v *UploadValidator) Check(contentType string, size int64) error {
	if !IsImageContentType(contentType) {
		return fmt.Errorf("%w: %q", ErrNotImage, contentType)
	}
	return v.CheckSize(size)
}

// CheckSize 只校验文件大小
func (v *UploadValidator) CheckSize(size int64) error {
	if v.maxFileSize > 0 && size > v.maxFileSize {
		return fmt.Errorf("%w: %d bytes (limit %d bytes)", ErrTooLarge, size, v.maxFileSize)
	}
	return nil
}

// IsImageContentType 声明的类型是否以 image/ 开头（媒体类型不区分大小写）
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/")
}

// 图片格式魔数签名
var imageSignatures = []struct {
	format    string
	signature []byte
}{
	{"jpeg", []byte{0xFF, 0xD8}},
	{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{"gif", []byte("GIF8")},
	{"bmp", []byte{0x42, 0x4D}},
	{"tiff", []byte{0x49, 0x49, 0x2A, 0x00}},
	{"tiff", []byte{0x4D, 0x4D, 0x00, 0x2A}},
}

// DetectFormat 根据文件头识别图片格式，无法识别时返回空字符串
func DetectFormat(data []byte) string {
	// WEBP需要额外检查RIFF容器中的WEBP标识
	if len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return "webp"
	}
	for _, s := range imageSignatures {
		if bytes.HasPrefix(data, s.signature) {
			return s.format
		}
	}
	return ""
}

// Extension 返回格式对应的文件扩展名
func Extension(format string) string {
	switch format {
	case "":
		return ".bin"
	case "jpeg":
		return ".jpg"
	}
	return "." + format
}
