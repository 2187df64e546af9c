package image

import (
	"encoding/json"
	"fmt"
)

// UnknownFormat 解码失败时的格式名
const UnknownFormat = "unknown"

// DPI 水平与垂直分辨率
type DPI [2]float64

// Metadata 图片元数据。
// 解码成功时填充格式、模式和尺寸；解码失败时只有 ByteSize 和 Error。
type Metadata struct {
	Format      string
	Mode        string
	Width       int
	Height      int
	DPI         *DPI
	Compression *string
	ByteSize    int
	Error       string
}

// Failed 是否为解码失败的降级结果
func (m Metadata) Failed() bool {
	return m.Error != ""
}

type decodedMetadata struct {
	Format      string  `json:"format"`
	Mode        string  `json:"mode,omitempty"`
	Size        [2]int  `json:"size"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	DPI         *DPI    `json:"dpi"`
	Compression *string `json:"compression"`
}

type fallbackMetadata struct {
	Format string `json:"format"`
	Size   int    `json:"size"`
	Error  string `json:"error"`
}

// MarshalJSON 两种形态只输出其中一种
func (m Metadata) MarshalJSON() ([]byte, error) {
	if m.Failed() {
		return json.Marshal(fallbackMetadata{
			Format: UnknownFormat,
			Size:   m.ByteSize,
			Error:  m.Error,
		})
	}
	return json.Marshal(decodedMetadata{
		Format:      m.Format,
		Mode:        m.Mode,
		Size:        [2]int{m.Width, m.Height},
		Width:       m.Width,
		Height:      m.Height,
		DPI:         m.DPI,
		Compression: m.Compression,
	})
}

// UnmarshalJSON 根据 error 字段和 size 的类型区分两种形态
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var probe struct {
		Format      string          `json:"format"`
		Mode        string          `json:"mode"`
		Size        json.RawMessage `json:"size"`
		Width       int             `json:"width"`
		Height      int             `json:"height"`
		DPI         *DPI            `json:"dpi"`
		Compression *string         `json:"compression"`
		Error       string          `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	if probe.Error != "" {
		var size int
		if len(probe.Size) > 0 {
			if err := json.Unmarshal(probe.Size, &size); err != nil {
				return fmt.Errorf("invalid fallback size: %w", err)
			}
		}
		*m = Metadata{Format: UnknownFormat, ByteSize: size, Error: probe.Error}
		return nil
	}

	*m = Metadata{
		Format:      probe.Format,
		Mode:        probe.Mode,
		Width:       probe.Width,
		Height:      probe.Height,
		DPI:         probe.DPI,
		Compression: probe.Compression,
	}
	return nil
}
