// Package tesseract 本地 Tesseract 识别器。
//
// 需要安装 tesseract 和 leptonica 并使用 tesseract 构建标签：
//
//	go build -tags tesseract ./src
//
// 未启用该标签时注册的工厂返回 ErrNotEnabled。
package tesseract

import "strings"

// Name 识别器注册名
const Name = "tesseract"

// Languages 把 "spa+eng" 形式的语言串拆成 tesseract 语言列表
func Languages(language string) []string {
	parts := strings.Split(language, "+")
	langs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			langs = append(langs, p)
		}
	}
	return langs
}

// MeanConfidence 单词置信度的平均值，取值 0-100
func MeanConfidence(confidences []float64) float64 {
	if len(confidences) == 0 {
		return 0
	}
	var sum float64
	for _, c := range confidences {
		sum += c
	}
	return sum / float64(len(confidences))
}
