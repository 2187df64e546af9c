package utils

import (
	"time"
)

// isoLayout 本地时间ISO-8601格式，精确到微秒
const isoLayout = "2006-01-02T15:04:05.000000"

// Timestamp 返回当前时间的ISO-8601字符串
func Timestamp() string {
	return FormatTimestamp(time.Now())
}

// FormatTimestamp 格式化指定时间
func FormatTimestamp(t time.Time) string {
	return t.Format(isoLayout)
}
