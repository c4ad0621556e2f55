package ioc

import (
	"strings"
	"time"

	"mention2neo/internal/app"
	"mention2neo/internal/storage"

	"go.uber.org/zap"
)

// InitUploader 构建 IPFS 上传客户端。未配置密钥时返回空实现，索引流程
// 会跳过导出上传环节。
func InitUploader(cfg app.Config, logger *zap.Logger) (storage.Uploader, error) {
	if strings.TrimSpace(cfg.Storage.APIKey) == "" {
		logger.Warn("未配置 pinata 密钥，跳过导出上传")
		return nil, nil
	}
	return storage.NewPinataClient(storage.PinataConfig{
		BaseURL:      cfg.Storage.BaseURL,
		GatewayURL:   cfg.Storage.GatewayURL,
		APIKey:       cfg.Storage.APIKey,
		SecretAPIKey: cfg.Storage.SecretAPIKey,
		Timeout:      time.Duration(cfg.Storage.TimeoutSecond) * time.Second,
	}, logger)
}
