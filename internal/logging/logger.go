package logging

import "go.uber.org/zap"

// New 返回带结构化字段的生产 logger。
func New() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	return cfg.Build()
}
