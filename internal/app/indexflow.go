package app

import (
	"context"
	"fmt"
	"time"

	"mention2neo/internal/export"
	"mention2neo/internal/loader"
	"mention2neo/internal/metrics"
	"mention2neo/internal/registry"
	"mention2neo/internal/scrape"
	"mention2neo/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IndexFlow 串起一次完整索引：抓取 -> 对账写图 -> 导出 -> 上传 -> 登记。
// 单个 token 的失败不影响同一轮里其余 token。
type IndexFlow struct {
	Tokens     []string
	Source     scrape.Source
	Reconciler *loader.Reconciler
	Uploader   storage.Uploader
	Links      *registry.LinkRegistry
	Logger     *zap.Logger
}

// Run 执行一轮索引流程。
func (f *IndexFlow) Run(ctx context.Context) error {
	if f == nil {
		return fmt.Errorf("index flow 未初始化")
	}
	if f.Source == nil || f.Reconciler == nil {
		return fmt.Errorf("index flow 依赖未注入完整")
	}
	if f.Logger == nil {
		f.Logger = zap.NewNop()
	}
	if len(f.Tokens) == 0 {
		f.Logger.Warn("没有配置要跟踪的 token")
		return nil
	}

	runID := uuid.NewString()
	start := time.Now()
	defer func() { metrics.RunDuration.Observe(time.Since(start).Seconds()) }()

	failed := 0
	for _, token := range f.Tokens {
		if err := f.runToken(ctx, runID, token); err != nil {
			failed++
			metrics.RunErrors.Inc()
			f.Logger.Error("token 索引失败",
				zap.String("run_id", runID),
				zap.String("token", token),
				zap.Error(err))
		}
	}

	f.Logger.Info("索引流程结束",
		zap.String("run_id", runID),
		zap.Int("tokens", len(f.Tokens)),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))
	if failed > 0 {
		return fmt.Errorf("%d/%d 个 token 索引失败", failed, len(f.Tokens))
	}
	return nil
}

func (f *IndexFlow) runToken(ctx context.Context, runID, token string) error {
	records, err := f.Source.FetchMentions(ctx, token)
	if err != nil {
		return fmt.Errorf("抓取失败: %w", err)
	}
	if len(records) == 0 {
		// 抓取为空可能是上游故障，用空存活集合清理会误删整个 token 的
		// 账号，这里按上游约定跳过本轮。
		f.Logger.Warn("未抓取到数据，跳过本轮对账",
			zap.String("run_id", runID),
			zap.String("token", token))
		return nil
	}

	result, cleanup, err := f.Reconciler.Reconcile(ctx, token, records)
	f.Logger.Info("批次写图完成",
		zap.String("run_id", runID),
		zap.String("token", token),
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed),
		zap.Int("accounts_removed", cleanup.AccountsRemoved),
		zap.Int("posts_removed", cleanup.PostsRemoved),
		zap.Int("regions_removed", cleanup.RegionsRemoved))
	if err != nil {
		return fmt.Errorf("对账失败: %w", err)
	}

	if f.Uploader == nil || f.Links == nil {
		f.Logger.Debug("未配置导出上传，跳过登记", zap.String("token", token))
		return nil
	}

	content, err := export.Marshal(records)
	if err != nil {
		return err
	}
	fileName := export.FileName(token, content)
	pin, err := f.Uploader.Upload(ctx, fileName, content)
	if err != nil {
		return fmt.Errorf("上传导出文件失败: %w", err)
	}
	if err := f.Links.UpsertLink(ctx, token, pin.CID, fileName); err != nil {
		return err
	}
	return nil
}
