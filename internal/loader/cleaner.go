package loader

import (
	"context"
	"fmt"

	"mention2neo/internal/cypher"
	"mention2neo/internal/domain"

	"go.uber.org/zap"
)

// Cleaner 负责删除不再被最新批次支撑的陈旧节点和关系。
type Cleaner struct {
	runner Runner
	logger *zap.Logger
}

// NewCleaner 创建清理器。
func NewCleaner(runner Runner, logger *zap.Logger) *Cleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cleaner{runner: runner, logger: logger}
}

// ReconcileStale 以 currentAccounts 为存活基准，清理 token 作用域内的陈旧数据。
// 逻辑上是四个阶段，其中账号裁剪拆成两条语句执行（1a/1b 合为一个阶段），
// 执行顺序有依赖关系，不能调换：
//
//	1a. 删除不在存活集合里的账号指向该 token 的 MENTIONS 边；
//	1b. 删除已经不提及任何 token 的账号（连带其所有关系）——
//	    仍提及其他 token 的账号在这一步自然幸存；
//	 2. 删除该 token 作用域内失去存活作者的帖子；
//	 3. 删除没有任何 LOCATED_IN 边指向的地区；
//	 4. 兜底全局清扫失去作者的帖子，覆盖级联删除跨 token 留下的孤儿。
//
// 任何一步存储失败即中止本轮清理，留给下个调度周期重试。
func (c *Cleaner) ReconcileStale(ctx context.Context, token string, currentAccounts []string) (domain.CleanupResult, error) {
	var result domain.CleanupResult
	if currentAccounts == nil {
		currentAccounts = []string{}
	}
	tokenParams := map[string]any{"token": token, "current": currentAccounts}

	if _, err := c.runCleanup(ctx, "cleanup_stale_mentions.cql", tokenParams); err != nil {
		return result, fmt.Errorf("删除陈旧 MENTIONS 边失败: %w", err)
	}

	accounts, err := c.runCleanup(ctx, "cleanup_orphan_accounts.cql", nil)
	if err != nil {
		return result, fmt.Errorf("删除陈旧账号失败: %w", err)
	}
	result.AccountsRemoved = accounts

	posts, err := c.runCleanup(ctx, "cleanup_stale_posts.cql", map[string]any{"token": token})
	if err != nil {
		return result, fmt.Errorf("删除陈旧帖子失败: %w", err)
	}
	result.PostsRemoved = posts

	regions, err := c.runCleanup(ctx, "cleanup_orphan_regions.cql", nil)
	if err != nil {
		return result, fmt.Errorf("删除孤儿地区失败: %w", err)
	}
	result.RegionsRemoved = regions

	orphanPosts, err := c.runCleanup(ctx, "cleanup_orphan_posts.cql", nil)
	if err != nil {
		return result, fmt.Errorf("兜底清扫孤儿帖子失败: %w", err)
	}
	result.PostsRemoved += orphanPosts

	c.logger.Info("陈旧数据清理完成",
		zap.String("token", token),
		zap.Int("accounts_removed", result.AccountsRemoved),
		zap.Int("posts_removed", result.PostsRemoved),
		zap.Int("regions_removed", result.RegionsRemoved))
	return result, nil
}

// SweepOrphans 只做孤儿清扫，不依赖存活集合，供运维命令单独触发。
func (c *Cleaner) SweepOrphans(ctx context.Context) (domain.CleanupResult, error) {
	var result domain.CleanupResult
	accounts, err := c.runCleanup(ctx, "cleanup_orphan_accounts.cql", nil)
	if err != nil {
		return result, fmt.Errorf("清扫孤儿账号失败: %w", err)
	}
	result.AccountsRemoved = accounts

	posts, err := c.runCleanup(ctx, "cleanup_orphan_posts.cql", nil)
	if err != nil {
		return result, fmt.Errorf("清扫孤儿帖子失败: %w", err)
	}
	result.PostsRemoved = posts

	regions, err := c.runCleanup(ctx, "cleanup_orphan_regions.cql", nil)
	if err != nil {
		return result, fmt.Errorf("清扫孤儿地区失败: %w", err)
	}
	result.RegionsRemoved = regions
	return result, nil
}

func (c *Cleaner) runCleanup(ctx context.Context, asset string, params map[string]any) (int, error) {
	if params == nil {
		params = map[string]any{}
	}
	records, err := c.runner.ExecWrite(ctx, cypher.MustAsset(asset), params)
	if err != nil {
		return 0, err
	}
	return firstInt(records, "removed"), nil
}

func firstInt(records []map[string]any, field string) int {
	if len(records) == 0 {
		return 0
	}
	switch v := records[0][field].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
