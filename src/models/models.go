package models

import (
	"time"

	"gorm.io/datatypes"
)

// ScanRecord 一次成功的OCR识别记录
type ScanRecord struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	RequestID      string         `gorm:"index;size:64" json:"request_id"`
	Endpoint       string         `gorm:"size:32" json:"endpoint"` // process, batch, promotion
	Filename       string         `json:"filename"`
	ContentType    string         `gorm:"size:128" json:"content_type"`
	SizeBytes      int64          `json:"size_bytes"`
	Language       string         `gorm:"size:64" json:"language"`
	Engine         string         `gorm:"size:64" json:"engine"`
	Recognizer     string         `gorm:"size:64" json:"recognizer"`
	Text           string         `gorm:"type:text" json:"text"`
	Confidence     float64        `json:"confidence"`
	WordCount      int            `json:"word_count"`
	CharacterCount int            `json:"character_count"`
	Metadata       datatypes.JSON `json:"metadata"`
	Promotion      datatypes.JSON `json:"promotion,omitempty"`
	ArchiveKey     string         `json:"archive_key,omitempty"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
}
