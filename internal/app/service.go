package app

import (
	"context"
	"fmt"

	"mention2neo/internal/domain"
	"mention2neo/internal/loader"
	"mention2neo/internal/registry"
	"mention2neo/internal/scrape"
	"mention2neo/internal/storage"

	"go.uber.org/zap"
)

// Service 装配对账管线并提供统一入口。
type Service struct {
	cfg       Config
	neoClient *loader.Client
	cleaner   *loader.Cleaner
	IndexFlow *IndexFlow
	logger    *zap.Logger
}

// NewService 根据配置构建 Service。上传器和登记表允许为空（跳过导出环节）。
func NewService(ctx context.Context, cfg Config, source scrape.Source, uploader storage.Uploader, links *registry.LinkRegistry, logger *zap.Logger) (*Service, error) {
	if source == nil {
		return nil, fmt.Errorf("必须提供数据源")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	neoClient, err := loader.NewClient(ctx, loader.Config{
		URI:                   cfg.Neo4j.URI,
		Username:              cfg.Neo4j.Username,
		Password:              cfg.Neo4j.Password,
		Database:              cfg.Neo4j.Database,
		MaxConnectionPool:     cfg.Neo4j.MaxConnectionPool,
		ConnectTimeoutSec:     cfg.Neo4j.ConnectTimeoutSecond,
		TransactionTimeoutSec: cfg.Neo4j.TxTimeoutSecond,
	})
	if err != nil {
		return nil, err
	}
	if err := loader.NewSchemaManager(neoClient).Ensure(ctx); err != nil {
		_ = neoClient.Close(ctx)
		return nil, err
	}

	entities := loader.NewEntityUpserter(neoClient, logger)
	rels := loader.NewRelationshipUpserter(neoClient, logger)
	cleaner := loader.NewCleaner(neoClient, logger)
	reconciler := loader.NewReconciler(entities, rels, cleaner, logger)

	svc := &Service{
		cfg:       cfg,
		neoClient: neoClient,
		cleaner:   cleaner,
		IndexFlow: &IndexFlow{
			Tokens:     cfg.Scrape.Tokens,
			Source:     source,
			Reconciler: reconciler,
			Uploader:   uploader,
			Links:      links,
			Logger:     logger,
		},
		logger: logger,
	}
	return svc, nil
}

// Close 释放资源。
func (s *Service) Close(ctx context.Context) error {
	if s.logger != nil {
		_ = s.logger.Sync()
	}
	if s.neoClient != nil {
		return s.neoClient.Close(ctx)
	}
	return nil
}

// Index 执行一轮完整索引流程。
func (s *Service) Index(ctx context.Context) error {
	if s.IndexFlow == nil {
		return fmt.Errorf("未初始化 index flow")
	}
	return s.IndexFlow.Run(ctx)
}

// SweepOrphans 单独触发孤儿清扫，供运维命令使用。
func (s *Service) SweepOrphans(ctx context.Context) (domain.CleanupResult, error) {
	if s.cleaner == nil {
		return domain.CleanupResult{}, fmt.Errorf("未初始化 cleaner")
	}
	return s.cleaner.SweepOrphans(ctx)
}
