package ocr

import (
	"fmt"
	"strings"
)

// 视觉模型的转写提示词
const transcriptionPrompt = "Transcribe all text visible in this image exactly as written, " +
	"preserving line breaks. Do not translate, summarize or add commentary. " +
	"If there is no text, reply with an empty message."

// TranscriptionPrompt 生成带语言提示的转写指令
func TranscriptionPrompt(language string) string {
	if language == "" {
		return transcriptionPrompt
	}
	return fmt.Sprintf("%s Expected languages (tesseract codes): %s.", transcriptionPrompt, language)
}

// MimeType 识别器上传图片时使用的MIME类型
func MimeType(format string) string {
	if format == "" {
		return "image/jpeg"
	}
	return "image/" + format
}

// SplitLines 把模型输出拆成非空行
func SplitLines(text string) []Line {
	parts := strings.Split(text, "\n")
	lines := make([]Line, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		lines = append(lines, Line{Text: part})
	}
	return lines
}

// StripThinkTags 去掉推理模型输出中的 <think>...</think> 段落
func StripThinkTags(text string) string {
	for {
		start := strings.Index(text, "<think>")
		if start < 0 {
			break
		}
		end := strings.Index(text[start:], "</think>")
		if end < 0 {
			text = text[:start]
			break
		}
		text = text[:start] + text[start+end+len("</think>"):]
	}
	return strings.TrimSpace(text)
}
