package ioc

import (
	"context"

	"mention2neo/internal/app"
	"mention2neo/internal/registry"
	"mention2neo/internal/scrape"
	"mention2neo/internal/storage"

	"go.uber.org/zap"
)

// InitAppService 构建索引服务。
func InitAppService(ctx context.Context, cfg app.Config, source scrape.Source, uploader storage.Uploader, links *registry.LinkRegistry, logger *zap.Logger) (*app.Service, func(), error) {
	svc, err := app.NewService(ctx, cfg, source, uploader, links, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = svc.Close(context.Background()) }
	return svc, cleanup, nil
}
