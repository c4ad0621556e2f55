package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mention2neo/internal/domain"
	"mention2neo/internal/metrics"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Reconciler 驱动一个抓取批次按依赖顺序写图，并在批次结束后触发一次陈旧数据清理。
type Reconciler struct {
	entities *EntityUpserter
	rels     *RelationshipUpserter
	cleaner  *Cleaner
	validate *validator.Validate
	logger   *zap.Logger
}

// NewReconciler 创建批次对账器。
func NewReconciler(entities *EntityUpserter, rels *RelationshipUpserter, cleaner *Cleaner, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		entities: entities,
		rels:     rels,
		cleaner:  cleaner,
		validate: validator.New(),
		logger:   logger,
	}
}

// Reconcile 逐条处理记录：单条记录失败只记日志并计数，不会中断批次里
// 其余记录（历史版本整批回滚的行为是明确修正掉的）。全部记录处理完后，
// 以本批观察到的账号集合为基准执行一次 token 作用域的清理；清理阶段存储
// 不可用时跳过清理并返回错误，已统计的处理计数仍然有效，下个调度周期重试。
func (r *Reconciler) Reconcile(ctx context.Context, token string, records []domain.MentionRecord) (domain.ReconcileResult, domain.CleanupResult, error) {
	var result domain.ReconcileResult
	var cleanup domain.CleanupResult

	seen := make(map[string]struct{})
	currentAccounts := make([]string, 0, len(records))

	for _, rec := range records {
		err := r.applyRecord(ctx, token, rec, func(accountID string) {
			if _, ok := seen[accountID]; !ok {
				seen[accountID] = struct{}{}
				currentAccounts = append(currentAccounts, accountID)
			}
		})
		if err != nil {
			result.Failed++
			metrics.RecordsFailed.Inc()
			if errors.Is(err, ErrDanglingReference) {
				// 端点缺失说明依赖顺序被破坏，按程序错误暴露给运维。
				r.logger.Error("记录写入出现悬空引用",
					zap.String("token", token),
					zap.String("post_id", rec.Post.ID),
					zap.String("account_id", rec.Account.ID),
					zap.Error(err))
			} else {
				r.logger.Warn("记录处理失败，跳过",
					zap.String("token", token),
					zap.String("post_id", rec.Post.ID),
					zap.String("account_id", rec.Account.ID),
					zap.Error(err))
			}
			continue
		}
		result.Processed++
		metrics.RecordsProcessed.Inc()
	}

	cleanup, err := r.cleaner.ReconcileStale(ctx, token, currentAccounts)
	if err != nil {
		r.logger.Error("清理陈旧数据失败，留待下轮重试", zap.String("token", token), zap.Error(err))
		return result, cleanup, err
	}
	metrics.StaleAccountsRemoved.Add(float64(cleanup.AccountsRemoved))
	metrics.StalePostsRemoved.Add(float64(cleanup.PostsRemoved))
	metrics.StaleRegionsRemoved.Add(float64(cleanup.RegionsRemoved))

	r.logger.Info("批次对账完成",
		zap.String("token", token),
		zap.Int("processed", result.Processed),
		zap.Int("failed", result.Failed))
	return result, cleanup, nil
}

// applyRecord 按依赖顺序写入一条记录：先节点后关系。
func (r *Reconciler) applyRecord(ctx context.Context, token string, rec domain.MentionRecord, observe func(accountID string)) error {
	if err := r.validate.Struct(rec); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if rec.Token != token {
		return fmt.Errorf("%w: 记录 token %q 与批次 token %q 不符", ErrMalformedRecord, rec.Token, token)
	}

	if _, err := r.entities.Upsert(ctx, domain.LabelToken, token, nil); err != nil {
		return err
	}
	if _, err := r.entities.Upsert(ctx, domain.LabelPost, rec.Post.ID, postProps(rec.Post)); err != nil {
		return err
	}
	if _, err := r.entities.Upsert(ctx, domain.LabelAccount, rec.Account.ID, accountProps(rec.Account)); err != nil {
		return err
	}
	observe(rec.Account.ID)

	if domain.IsKnownRegion(rec.Account.Region) {
		if _, err := r.entities.Upsert(ctx, domain.LabelRegion, rec.Account.Region, nil); err != nil {
			return err
		}
		if _, err := r.rels.Upsert(ctx, domain.RelLocatedIn,
			domain.LabelAccount, rec.Account.ID, domain.LabelRegion, rec.Account.Region, nil); err != nil {
			return err
		}
	}

	if _, err := r.rels.Upsert(ctx, domain.RelPosted,
		domain.LabelAccount, rec.Account.ID, domain.LabelPost, rec.Post.ID, map[string]any{
			"timestamp": nullableTime(rec.Post.Timestamp),
			"likes":     rec.Post.LikeCount,
		}); err != nil {
		return err
	}
	if _, err := r.rels.Upsert(ctx, domain.RelMentions,
		domain.LabelAccount, rec.Account.ID, domain.LabelToken, token, map[string]any{
			"timestamp":     nullableTime(rec.Post.Timestamp),
			"hashtag_count": rec.HashtagCount,
		}); err != nil {
		return err
	}
	if _, err := r.rels.Upsert(ctx, domain.RelMentionedIn,
		domain.LabelToken, token, domain.LabelPost, rec.Post.ID, nil); err != nil {
		return err
	}
	return nil
}

func postProps(p domain.PostInfo) map[string]any {
	props := map[string]any{
		"url":   p.URL,
		"likes": p.LikeCount,
	}
	if p.Text != nil {
		props["text"] = *p.Text
	}
	if p.Timestamp != nil {
		props["timestamp"] = p.Timestamp.UTC()
	}
	return props
}

func accountProps(a domain.AccountInfo) map[string]any {
	props := map[string]any{
		"username":         a.Handle,
		"is_verified":      a.Verified,
		"follower_count":   a.FollowerCount,
		"engagement_score": a.EngagementScore,
		"post_count":       a.PostCount,
	}
	if a.CreatedAt != nil {
		props["account_created_at"] = a.CreatedAt.UTC()
	}
	return props
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
