package ocr

import (
	"context"

	"ocr-server-go/src/configs"
	"ocr-server-go/src/core/utils"
)

// SimulatedName 模拟识别器的注册名
const SimulatedName = "simulated"

// 文本选择阈值（字节）
const (
	smallImageLimit  = 10000
	mediumImageLimit = 50000
)

// 模拟识别返回的三段固定文本
const (
	ShortSnippet = "Oferta especial\nDescuento 20%\nVálido hasta 31/12/2024"

	MediumSnippet = "Smartphone Samsung Galaxy S23\nPrecio: $24,999 MXN\nPrecio original: $29,999 MXN\nDescuento: 17%\nTienda: Samsung Store\nUbicación: CDMX"

	LongSnippet = "PROMOCIÓN ESPECIAL\n\n" +
		"Producto: Laptop MacBook Pro 16\" M2 Pro\nMarca: Apple\nCategoría: Electrónicos\n\n" +
		"Precios:\n- Precio original: $109,999 MXN\n- Precio con descuento: $89,999 MXN\n- Ahorro: $20,000 MXN\n- Descuento: 18%\n\n" +
		"Especificaciones:\n- Procesador: Apple M2 Pro\n- Memoria: 16GB RAM\n- Almacenamiento: 512GB SSD\n- Pantalla: 16.2\" Liquid Retina XDR\n\n" +
		"Tienda: Apple Store\nUbicación: Santa Fe, CDMX\n\n" +
		"Términos y condiciones:\n- Válido hasta: 31/12/2024\n- Stock limitado\n- No acumulable con otras promociones\n- Envío gratis incluido"
)

// SimulatedText 只根据字节长度选择文本，与图片内容无关
func SimulatedText(size int) string {
	switch {
	case size < smallImageLimit:
		return ShortSnippet
	case size < mediumImageLimit:
		return MediumSnippet
	default:
		return LongSnippet
	}
}

// SimulatedRecognizer 占位识别器，在接入真实引擎前使用
type SimulatedRecognizer struct{}

// NewSimulatedRecognizer 创建模拟识别器
func NewSimulatedRecognizer() *SimulatedRecognizer {
	return &SimulatedRecognizer{}
}

func (r *SimulatedRecognizer) Name() string { return SimulatedName }

// Recognize 返回按大小选出的固定文本，不提供置信度和分行结果
func (r *SimulatedRecognizer) Recognize(ctx context.Context, input Input) (Recognition, error) {
	return Recognition{Text: SimulatedText(len(input.Image))}, nil
}

func init() {
	Register(SimulatedName, func(config *configs.OCRConfig, logger *utils.Logger) (Recognizer, error) {
		return NewSimulatedRecognizer(), nil
	})
}
