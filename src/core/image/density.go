package image

import (
	"bytes"
	"encoding/binary"
)

const inchesPerMeter = 39.3701

// readDensity 从文件头读取分辨率与压缩方式，文件中没有的字段返回nil
func readDensity(format string, data []byte) (*DPI, *string) {
	switch format {
	case "jpeg":
		return jpegDensity(data), nil
	case "png":
		return pngDensity(data), nil
	case "tiff":
		return tiffDensity(data)
	case "bmp":
		return bmpDensity(data)
	}
	return nil, nil
}

// jpegDensity 解析JFIF APP0段
func jpegDensity(data []byte) *DPI {
	i := 2
	for i+4 <= len(data) {
		if data[i] != 0xFF {
			return nil
		}
		marker := data[i+1]
		switch {
		case marker == 0xFF:
			i++
			continue
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD9):
			i += 2
			continue
		case marker == 0xDA:
			// 扫描数据开始，之后不再有APP段
			return nil
		}

		length := int(binary.BigEndian.Uint16(data[i+2:]))
		if length < 2 || i+2+length > len(data) {
			return nil
		}
		payload := data[i+4 : i+2+length]
		if marker == 0xE0 && len(payload) >= 12 && bytes.HasPrefix(payload, []byte("JFIF\x00")) {
			units := payload[7]
			x := float64(binary.BigEndian.Uint16(payload[8:]))
			y := float64(binary.BigEndian.Uint16(payload[10:]))
			switch units {
			case 1:
				return &DPI{x, y}
			case 2:
				return &DPI{x * 2.54, y * 2.54}
			}
			return nil
		}
		i += 2 + length
	}
	return nil
}

// pngDensity 解析pHYs块
func pngDensity(data []byte) *DPI {
	i := 8
	for i+8 <= len(data) {
		length := int(binary.BigEndian.Uint32(data[i:]))
		chunk := string(data[i+4 : i+8])
		start := i + 8
		if length < 0 || start+length > len(data) {
			return nil
		}
		switch chunk {
		case "pHYs":
			if length < 9 {
				return nil
			}
			body := data[start : start+length]
			if body[8] != 1 {
				return nil
			}
			x := float64(binary.BigEndian.Uint32(body[0:]))
			y := float64(binary.BigEndian.Uint32(body[4:]))
			return &DPI{x / inchesPerMeter, y / inchesPerMeter}
		case "IDAT", "IEND":
			return nil
		}
		i = start + length + 4 // 跳过CRC
	}
	return nil
}

var tiffCompressionNames = map[uint16]string{
	1:     "raw",
	2:     "tiff_ccitt",
	3:     "group3",
	4:     "group4",
	5:     "tiff_lzw",
	6:     "tiff_jpeg",
	7:     "jpeg",
	8:     "tiff_adobe_deflate",
	32773: "packbits",
	32946: "tiff_deflate",
}

// tiffDensity 读取第一个IFD中的分辨率与压缩标签
func tiffDensity(data []byte) (*DPI, *string) {
	if len(data) < 8 {
		return nil, nil
	}
	var order binary.ByteOrder
	switch string(data[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return nil, nil
	}

	ifd := int(order.Uint32(data[4:]))
	if ifd < 8 || ifd+2 > len(data) {
		return nil, nil
	}
	count := int(order.Uint16(data[ifd:]))

	rational := func(offset int) (float64, bool) {
		if offset < 0 || offset+8 > len(data) {
			return 0, false
		}
		num := order.Uint32(data[offset:])
		den := order.Uint32(data[offset+4:])
		if den == 0 {
			return 0, false
		}
		return float64(num) / float64(den), true
	}

	var (
		compression  *string
		xres, yres   float64
		haveX, haveY bool
		unit         uint16 = 2
	)
	for n := 0; n < count; n++ {
		entry := ifd + 2 + n*12
		if entry+12 > len(data) {
			break
		}
		tag := order.Uint16(data[entry:])
		value := data[entry+8 : entry+12]
		switch tag {
		case 259:
			code := order.Uint16(value)
			if name, ok := tiffCompressionNames[code]; ok {
				compression = &name
			}
		case 282:
			xres, haveX = rational(int(order.Uint32(value)))
		case 283:
			yres, haveY = rational(int(order.Uint32(value)))
		case 296:
			unit = order.Uint16(value)
		}
	}

	if !haveX || !haveY {
		return nil, compression
	}
	switch unit {
	case 2:
		return &DPI{xres, yres}, compression
	case 3:
		return &DPI{xres * 2.54, yres * 2.54}, compression
	}
	return nil, compression
}

var bmpCompressionNames = map[uint32]string{
	0: "raw",
	1: "bmp_rle8",
	2: "bmp_rle4",
	3: "bitfields",
}

// bmpDensity 读取BITMAPINFOHEADER中的每米像素数和压缩方式
func bmpDensity(data []byte) (*DPI, *string) {
	if len(data) < 14+40 {
		return nil, nil
	}
	headerSize := binary.LittleEndian.Uint32(data[14:])
	if headerSize < 40 {
		return nil, nil
	}

	var compression *string
	if name, ok := bmpCompressionNames[binary.LittleEndian.Uint32(data[30:])]; ok {
		compression = &name
	}

	x := int32(binary.LittleEndian.Uint32(data[38:]))
	y := int32(binary.LittleEndian.Uint32(data[42:]))
	if x <= 0 || y <= 0 {
		return nil, compression
	}
	return &DPI{float64(x) / inchesPerMeter, float64(y) / inchesPerMeter}, compression
}
