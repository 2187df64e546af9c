package image

import (
	"bytes"
	stdimage "image"
	"image/color"
	"image/png"
	"testing"
)

func grayPNG(t *testing.T, w, h int, fill func(x, y int) uint8) []byte {
	t.Helper()
	img := stdimage.NewGray(stdimage.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: fill(x, y)})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestPreprocessPassthrough(t *testing.T) {
	data := []byte("not an image")
	out, err := Preprocess(data, false, false)
	if err != nil || !bytes.Equal(out, data) {
		t.Errorf("Preprocess() = %q, %v", out, err)
	}
	if _, err := Preprocess(data, true, false); err == nil {
		t.Error("expected decode error")
	}
}

func TestPreprocessScale(t *testing.T) {
	data := grayPNG(t, 20, 10, func(x, y int) uint8 { return 128 })
	out, err := Preprocess(data, true, false)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 40 || cfg.Height != 20 {
		t.Errorf("size = %dx%d, want 40x20", cfg.Width, cfg.Height)
	}

	large := grayPNG(t, 2500, 1, func(x, y int) uint8 { return 0 })
	out, err = Preprocess(large, true, false)
	if err != nil {
		t.Fatal(err)
	}
	cfg, _ = png.DecodeConfig(bytes.NewReader(out))
	if cfg.Width != 2500 {
		t.Errorf("large image width = %d, want unchanged", cfg.Width)
	}
}

func TestPreprocessContrast(t *testing.T) {
	// 只有100和150两种灰度
	data := grayPNG(t, 4, 4, func(x, y int) uint8 {
		if x < 2 {
			return 100
		}
		return 150
	})
	out, err := Preprocess(data, false, true)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	dark := color.GrayModel.Convert(img.At(0, 0)).(color.Gray).Y
	light := color.GrayModel.Convert(img.At(3, 3)).(color.Gray).Y
	if dark != 0 || light != 255 {
		t.Errorf("stretched values = %d/%d, want 0/255", dark, light)
	}
}
