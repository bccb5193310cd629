package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup 根据配置初始化结构化日志器。
// 埋点链路的失败只进这里，不会向调用方传播。
func Setup(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})

	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	return logger
}
