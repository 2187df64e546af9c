package image

import (
	"bytes"
	"fmt"
	stdimage "image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

// 放大后的最长边上限（像素）
const maxScaledSide = 4000

// Preprocess 识别前的图片预处理。scale 时把较小的图片放大两倍，
// contrast 时转为灰度并做线性拉伸。两者都关闭时原样返回。
func Preprocess(data []byte, scale, contrast bool) ([]byte, error) {
	if !scale && !contrast {
		return data, nil
	}

	img, _, err := stdimage.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	if scale {
		img = upscale(img)
	}
	if contrast {
		img = stretchContrast(img)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func upscale(img stdimage.Image) stdimage.Image {
	b := img.Bounds()
	w, h := b.Dx()*2, b.Dy()*2
	if w > maxScaledSide || h > maxScaledSide {
		return img
	}
	dst := stdimage.NewRGBA(stdimage.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func stretchContrast(img stdimage.Image) stdimage.Image {
	b := img.Bounds()
	gray := stdimage.NewGray(stdimage.Rect(0, 0, b.Dx(), b.Dy()))
	lo, hi := uint8(255), uint8(0)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			gray.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: v})
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if hi <= lo {
		return gray
	}
	span := int(hi) - int(lo)
	for i, v := range gray.Pix {
		gray.Pix[i] = uint8((int(v) - int(lo)) * 255 / span)
	}
	return gray
}
