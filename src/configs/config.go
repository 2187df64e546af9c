package configs

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// 服务标识
	ServiceName    = "Link4Deal OCR Service"
	ServiceID      = "ocr-service"
	ServiceVersion = "1.0.0"
)

// Config 主配置结构，启动时构建一次，之后只读
type Config struct {
	Server struct {
		IP             string   `yaml:"ip"`
		Port           int      `yaml:"port"`
		APIKey         string   `yaml:"api_key"`
		MaxRequestSize int64    `yaml:"max_request_size"` // 单次请求体上限（字节）
		CORSOrigins    []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Log struct {
		LogLevel string `yaml:"log_level"`
		LogDir   string `yaml:"log_dir"`
		LogFile  string `yaml:"log_file"`
	} `yaml:"log"`

	OCR OCRConfig `yaml:"ocr"`

	Archive ArchiveConfig `yaml:"archive"`
}

// OCRConfig OCR处理配置
type OCRConfig struct {
	Engine           string          `yaml:"engine"`     // 响应中回显的引擎名
	Language         string          `yaml:"language"`   // 默认识别语言
	Recognizer       string          `yaml:"recognizer"` // 实际使用的识别器
	MaxUploadSize    int64           `yaml:"max_upload_size"`
	BatchConcurrency int             `yaml:"batch_concurrency"`
	OpenAI           RecognizerEntry `yaml:"openai"`
	Ollama           RecognizerEntry `yaml:"ollama"`
	Tesseract        RecognizerEntry `yaml:"tesseract"`
}

// RecognizerEntry 识别器配置
type RecognizerEntry struct {
	ModelName   string                 `yaml:"model_name"`
	BaseURL     string                 `yaml:"url"`
	APIKey      string                 `yaml:"api_key"`
	Temperature float64                `yaml:"temperature"`
	MaxTokens   int                    `yaml:"max_tokens"`
	Timeout     int                    `yaml:"timeout_seconds"`
	Extra       map[string]interface{} `yaml:",inline"`
}

// ArchiveConfig 上传图片归档配置
type ArchiveConfig struct {
	Type string `yaml:"type"` // none, local, s3
	Dir  string `yaml:"dir"`
	S3   struct {
		Endpoint        string `yaml:"endpoint"`
		Region          string `yaml:"region"`
		Bucket          string `yaml:"bucket"`
		AccessKeyID     string `yaml:"access_key_id"`
		SecretAccessKey string `yaml:"secret_access_key"`
	} `yaml:"s3"`
}

// Default 返回带默认值的配置
func Default() *Config {
	config := &Config{}
	config.Server.IP = "0.0.0.0"
	config.Server.Port = 8000
	config.Server.APIKey = "default-key"
	config.Server.MaxRequestSize = 64 << 20
	config.Server.CORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

	config.Log.LogLevel = "info"
	config.Log.LogFile = "ocr-server.log"

	config.OCR.Engine = "tesseract"
	config.OCR.Language = "spa+eng"
	config.OCR.Recognizer = "simulated"
	config.OCR.MaxUploadSize = 10 << 20
	config.OCR.BatchConcurrency = 4

	config.Archive.Type = "none"
	config.Archive.Dir = "uploads"
	config.Archive.S3.Region = "us-east-1"
	return config
}

// LoadConfig 从文件加载配置，随后应用环境变量覆盖
func LoadConfig() (*Config, string, error) {
	path := ".config.yaml"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = "config.yaml"
	}

	config := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		path = ""
	case err != nil:
		return nil, path, err
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, path, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, path, err
	}
	if err := config.Validate(); err != nil {
		return nil, path, err
	}
	return config, path, nil
}

// applyEnv 使用环境变量覆盖配置项
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) error {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("环境变量 %s 不是有效整数: %q", key, v)
			}
			*dst = n
		}
		return nil
	}
	size := func(key string, dst *int64) error {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("环境变量 %s 不是有效整数: %q", key, v)
			}
			*dst = n
		}
		return nil
	}

	str("OCR_HOST", &c.Server.IP)
	str("OCR_API_KEY", &c.Server.APIKey)
	str("OCR_ENGINE", &c.OCR.Engine)
	str("OCR_LANGUAGE", &c.OCR.Language)
	str("OCR_RECOGNIZER", &c.OCR.Recognizer)
	str("LOG_LEVEL", &c.Log.LogLevel)
	str("OPENAI_API_KEY", &c.OCR.OpenAI.APIKey)
	str("OPENAI_BASE_URL", &c.OCR.OpenAI.BaseURL)
	str("OLLAMA_BASE_URL", &c.OCR.Ollama.BaseURL)
	str("TESSDATA_PREFIX", &c.OCR.Tesseract.BaseURL)
	str("OCR_ARCHIVE_TYPE", &c.Archive.Type)
	str("OCR_ARCHIVE_DIR", &c.Archive.Dir)
	str("S3_ENDPOINT", &c.Archive.S3.Endpoint)
	str("S3_REGION", &c.Archive.S3.Region)
	str("S3_BUCKET_NAME", &c.Archive.S3.Bucket)
	str("S3_ACCESS_KEY_ID", &c.Archive.S3.AccessKeyID)
	str("S3_SECRET_ACCESS_KEY", &c.Archive.S3.SecretAccessKey)

	if v, ok := lookup("OCR_CORS_ORIGINS"); ok && v != "" {
		origins := make([]string, 0)
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.CORSOrigins = origins
	}

	if err := integer("OCR_PORT", &c.Server.Port); err != nil {
		return err
	}
	if err := integer("OCR_BATCH_CONCURRENCY", &c.OCR.BatchConcurrency); err != nil {
		return err
	}
	if err := size("OCR_MAX_UPLOAD_SIZE", &c.OCR.MaxUploadSize); err != nil {
		return err
	}
	return size("OCR_MAX_REQUEST_SIZE", &c.Server.MaxRequestSize)
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("无效的端口: %d", c.Server.Port)
	}
	if c.Server.APIKey == "" {
		return errors.New("server.api_key 不能为空")
	}
	if c.OCR.MaxUploadSize <= 0 {
		return fmt.Errorf("无效的上传大小限制: %d", c.OCR.MaxUploadSize)
	}
	if c.Server.MaxRequestSize < c.OCR.MaxUploadSize {
		return fmt.Errorf("请求体上限(%d)不能小于单文件上限(%d)", c.Server.MaxRequestSize, c.OCR.MaxUploadSize)
	}
	if c.OCR.BatchConcurrency <= 0 {
		return fmt.Errorf("无效的批量并发度: %d", c.OCR.BatchConcurrency)
	}
	switch strings.ToLower(c.Archive.Type) {
	case "", "none", "local", "s3":
	default:
		return fmt.Errorf("不支持的归档类型: %s", c.Archive.Type)
	}
	return nil
}

// Addr 返回监听地址
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.IP, c.Server.Port)
}
