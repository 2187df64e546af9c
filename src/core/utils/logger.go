package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"ocr-server-go/src/configs"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 日志记录器，底层使用 zap
type Logger struct {
	zap     *zap.Logger
	logFile *os.File
}

// NewLogger 创建新的日志记录器，同时输出到控制台和日志文件
func NewLogger(config *configs.Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(config.Log.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	var file *os.File
	if config.Log.LogDir != "" {
		// 确保日志目录存在
		if err := os.MkdirAll(config.Log.LogDir, 0755); err != nil {
			return nil, fmt.Errorf("创建日志目录失败: %w", err)
		}
		logPath := filepath.Join(config.Log.LogDir, config.Log.LogFile)
		file, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("打开日志文件失败: %w", err)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(file), level))
	}

	return &Logger{
		zap:     zap.New(zapcore.NewTee(cores...)),
		logFile: file,
	}, nil
}

// NewLoggerFromZap 包装已有的 zap 记录器
func NewLoggerFromZap(z *zap.Logger) *Logger {
	return &Logger{zap: z}
}

// NewNopLogger 不输出任何内容的记录器
func NewNopLogger() *Logger {
	return NewLoggerFromZap(zap.NewNop())
}

// Zap 返回底层 zap 记录器
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// Close 刷新缓冲并关闭日志文件
func (l *Logger) Close() error {
	_ = l.zap.Sync()
	if l.logFile != nil {
		return l.logFile.Close()
	}
	return nil
}

// log 通用日志记录函数
func (l *Logger) log(level zapcore.Level, tag string, msg string, fields ...interface{}) {
	ce := l.zap.Check(level, msg)
	if ce == nil {
		return
	}
	zfields := toZapFields(fields)
	if tag != "" {
		zfields = append(zfields, zap.String("tag", tag))
	}
	ce.Write(zfields...)
}

// toZapFields 把松散的字段参数转换为 zap 字段
func toZapFields(fields []interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for i, f := range fields {
		switch v := f.(type) {
		case zap.Field:
			out = append(out, v)
		case map[string]interface{}:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				out = append(out, zap.Any(k, v[k]))
			}
		case error:
			if i == 0 {
				out = append(out, zap.Error(v))
			} else {
				out = append(out, zap.NamedError(fmt.Sprintf("error%d", i), v))
			}
		case nil:
		default:
			out = append(out, zap.Any(fmt.Sprintf("field%d", i), v))
		}
	}
	return out
}

// Debug 记录调试级别日志
func (l *Logger) Debug(msg string, fields ...interface{}) {
	l.log(zapcore.DebugLevel, "", msg, fields...)
}

// Info 记录信息级别日志
func (l *Logger) Info(msg string, fields ...interface{}) {
	l.log(zapcore.InfoLevel, "", msg, fields...)
}

// Warn 记录警告级别日志
func (l *Logger) Warn(msg string, fields ...interface{}) {
	l.log(zapcore.WarnLevel, "", msg, fields...)
}

// Error 记录错误级别日志
func (l *Logger) Error(msg string, fields ...interface{}) {
	l.log(zapcore.ErrorLevel, "", msg, fields...)
}

// TaggedLogger 带标签的日志记录器
type TaggedLogger struct {
	*Logger
	tag string
}

// WithTag 创建带标签的日志记录器
func (l *Logger) WithTag(tag string) *TaggedLogger {
	return &TaggedLogger{
		Logger: l,
		tag:    tag,
	}
}

// Debug 记录带标签的调试级别日志
func (l *TaggedLogger) Debug(msg string, fields ...interface{}) {
	l.log(zapcore.DebugLevel, l.tag, msg, fields...)
}

// Info 记录带标签的信息级别日志
func (l *TaggedLogger) Info(msg string, fields ...interface{}) {
	l.log(zapcore.InfoLevel, l.tag, msg, fields...)
}

// Warn 记录带标签的警告级别日志
func (l *TaggedLogger) Warn(msg string, fields ...interface{}) {
	l.log(zapcore.WarnLevel, l.tag, msg, fields...)
}

// Error 记录带标签的错误级别日志
func (l *TaggedLogger) Error(msg string, fields ...interface{}) {
	l.log(zapcore.ErrorLevel, l.tag, msg, fields...)
}
