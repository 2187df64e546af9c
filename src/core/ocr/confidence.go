package ocr

import (
	"math"
	"math/rand"

	"ocr-server-go/src/core/utils"
)

const (
	confidenceFloor   = 70.0
	confidenceCeiling = 95.0
	confidenceJitter  = 5.0
)

// RandSource 随机数来源，Float64 返回 [0,1) 区间的值
type RandSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// ConfidenceEstimator 根据文本的词数和字符数估算置信度，并加入随机扰动
type ConfidenceEstimator struct {
	rand RandSource
}

// NewConfidenceEstimator 创建估算器，src 为 nil 时使用全局随机源
func NewConfidenceEstimator(src RandSource) *ConfidenceEstimator {
	if src == nil {
		src = globalRand{}
	}
	return &ConfidenceEstimator{rand: src}
}

// Base 不含扰动的基础分，随词数、字符数单调不减
func (e *ConfidenceEstimator) Base(text string) float64 {
	if text == "" {
		return 0
	}
	words := float64(utils.CountWords(text))
	chars := float64(utils.CountCharacters(text))
	return math.Min(confidenceCeiling, confidenceFloor+words*0.5+chars*0.1)
}

// Estimate 空文本返回0；否则为基础分加 [-5,5] 扰动，并截断到 [0,100]
func (e *ConfidenceEstimator) Estimate(text string) float64 {
	if text == "" {
		return 0
	}
	jitter := -confidenceJitter + 2*confidenceJitter*e.rand.Float64()
	return clampConfidence(e.Base(text) + jitter)
}

func clampConfidence(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
