package ioc

import (
	"strings"
	"time"

	"mention2neo/internal/app"
	"mention2neo/internal/scrape"

	"go.uber.org/zap"
)

// InitSource 构建提及数据源。未配置 apify token 时退化为空数据源，
// 便于本地起服务调试其余链路。
func InitSource(cfg app.Config, logger *zap.Logger) (scrape.Source, error) {
	if strings.TrimSpace(cfg.Scrape.APIToken) == "" {
		logger.Warn("未配置 apify token，使用空数据源")
		return &scrape.StaticSource{}, nil
	}
	return scrape.NewApifyClient(scrape.ApifyConfig{
		BaseURL:      cfg.Scrape.BaseURL,
		ActorID:      cfg.Scrape.ActorID,
		APIToken:     cfg.Scrape.APIToken,
		MaxItems:     cfg.Scrape.MaxItems,
		StartDate:    cfg.Scrape.StartDate,
		MinFavorites: cfg.Scrape.MinFavorites,
		MinReplies:   cfg.Scrape.MinReplies,
		MinRetweets:  cfg.Scrape.MinRetweets,
		Timeout:      time.Duration(cfg.Scrape.TimeoutSecond) * time.Second,
		Retry:        cfg.Scrape.Retry.Attempts,
		RetryBackoff: time.Duration(cfg.Scrape.Retry.BackoffSeconds) * time.Second,
	}, logger)
}
