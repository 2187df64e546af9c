package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"ocr-server-go/src/configs"
	"ocr-server-go/src/core/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store 把图片上传到 S3 兼容的对象存储（AWS、MinIO等）
type S3Store struct {
	client *s3.Client
	bucket string
	logger *utils.Logger
}

// NewS3Store 创建S3归档。配置了 endpoint 时使用 path-style 访问
func NewS3Store(ctx context.Context, cfg *configs.ArchiveConfig, logger *utils.Logger) (*S3Store, error) {
	if cfg.S3.Bucket == "" {
		return nil, errors.New("S3 bucket 不能为空")
	}

	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.S3.Region),
	}
	if cfg.S3.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			"",
		)))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("加载AWS配置失败: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("S3归档已启用", map[string]interface{}{
		"bucket":   cfg.S3.Bucket,
		"endpoint": cfg.S3.Endpoint,
	})
	return &S3Store{client: client, bucket: cfg.S3.Bucket, logger: logger}, nil
}

// Put 上传对象，返回 s3://bucket/key
func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		s.logger.Error("上传S3失败", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return "", fmt.Errorf("上传S3失败: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
