// Package records 保存扫描历史，未配置数据库时不启用。
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ocr-server-go/src/core/ocr"
	"ocr-server-go/src/core/promotion"
	"ocr-server-go/src/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// DefaultLimit 查询历史时的默认条数
	DefaultLimit = 20
	// MaxLimit 单次查询的最大条数
	MaxLimit = 100
)

// Entry 一条待保存的识别结果
type Entry struct {
	RequestID   string
	Endpoint    string
	Filename    string
	ContentType string
	SizeBytes   int64
	Recognizer  string
	ArchiveKey  string
	Result      *ocr.Result
	Promotion   *promotion.Data
}

// Store 基于gorm的扫描历史存储
type Store struct {
	db *gorm.DB
}

// NewStore 创建存储，表结构由 database.InitDB 迁移
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Save 写入一条记录并返回
func (s *Store) Save(ctx context.Context, entry Entry) (*models.ScanRecord, error) {
	if entry.Result == nil {
		return nil, fmt.Errorf("缺少识别结果")
	}
	metadata, err := json.Marshal(entry.Result.Metadata)
	if err != nil {
		return nil, fmt.Errorf("序列化元数据失败: %w", err)
	}

	record := &models.ScanRecord{
		ID:             uuid.NewString(),
		RequestID:      entry.RequestID,
		Endpoint:       entry.Endpoint,
		Filename:       entry.Filename,
		ContentType:    entry.ContentType,
		SizeBytes:      entry.SizeBytes,
		Language:       entry.Result.Language,
		Engine:         entry.Result.Engine,
		Recognizer:     entry.Recognizer,
		Text:           entry.Result.Text,
		Confidence:     entry.Result.Confidence,
		WordCount:      entry.Result.WordCount,
		CharacterCount: entry.Result.CharacterCount,
		Metadata:       datatypes.JSON(metadata),
		ArchiveKey:     entry.ArchiveKey,
		CreatedAt:      time.Now(),
	}
	if entry.Promotion != nil {
		data, err := json.Marshal(entry.Promotion)
		if err != nil {
			return nil, fmt.Errorf("序列化促销信息失败: %w", err)
		}
		record.Promotion = datatypes.JSON(data)
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("保存扫描记录失败: %w", err)
	}
	return record, nil
}

// Recent 按时间倒序返回最近的记录，limit 超出范围时取默认值或上限
func (s *Store) Recent(ctx context.Context, limit int) ([]models.ScanRecord, error) {
	limit = ClampLimit(limit)
	var list []models.ScanRecord
	err := s.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("查询扫描记录失败: %w", err)
	}
	return list, nil
}

// ClampLimit 非正数取默认值，超过上限取上限
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// Ping 检查数据库连接
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
