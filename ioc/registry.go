package ioc

import (
	"context"
	"strings"

	"mention2neo/internal/app"
	"mention2neo/internal/registry"

	"go.uber.org/zap"
)

// InitLinkRegistry 构建导出地址登记表。未配置 DSN 时返回空实现。
func InitLinkRegistry(ctx context.Context, cfg app.Config, logger *zap.Logger) (*registry.LinkRegistry, func(), error) {
	if strings.TrimSpace(cfg.Registry.DSN) == "" {
		logger.Warn("未配置 postgres dsn，跳过导出地址登记")
		return nil, func() {}, nil
	}
	links, err := registry.Open(ctx, cfg.Registry.DSN, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = links.Close() }
	return links, cleanup, nil
}
