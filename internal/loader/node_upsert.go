package loader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mention2neo/internal/cypher"
	"mention2neo/internal/domain"

	"go.uber.org/zap"
)

// EntityUpserter 负责按自然主键幂等写入单个节点。
type EntityUpserter struct {
	runner Runner
	logger *zap.Logger
	now    func() time.Time
}

// NewEntityUpserter 创建节点 upsert 器。
func NewEntityUpserter(runner Runner, logger *zap.Logger) *EntityUpserter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntityUpserter{runner: runner, logger: logger, now: time.Now}
}

// Upsert 写入一个节点：不存在则创建并盖 created_at，存在则整体覆盖属性并盖 updated_at。
// 返回值标识本次是首写还是刷新。
func (u *EntityUpserter) Upsert(ctx context.Context, label, key string, props map[string]any) (bool, error) {
	keyProp := domain.KeyProperty(label)
	if keyProp == "" {
		return false, fmt.Errorf("%w: 未知节点标签 %q", ErrConstraintViolation, label)
	}
	if strings.TrimSpace(key) == "" {
		return false, fmt.Errorf("%w: 节点 %s 缺少主键", ErrConstraintViolation, label)
	}
	if props == nil {
		props = map[string]any{}
	}

	query := cypher.MustTemplate("upsert_node.cql", map[string]string{
		"Label":   label,
		"KeyProp": keyProp,
	})
	params := map[string]any{
		"key":   key,
		"props": props,
		"now":   u.now().UTC(),
	}
	records, err := u.runner.ExecWrite(ctx, query, params)
	if err != nil {
		return false, fmt.Errorf("写入节点失败 label=%s key=%s: %w", label, key, err)
	}
	created := firstBool(records, "created")
	if created {
		u.logger.Debug("节点已创建", zap.String("label", label), zap.String("key", key))
	} else {
		u.logger.Debug("节点已刷新", zap.String("label", label), zap.String("key", key))
	}
	return created, nil
}

func firstBool(records []map[string]any, field string) bool {
	if len(records) == 0 {
		return false
	}
	v, _ := records[0][field].(bool)
	return v
}
