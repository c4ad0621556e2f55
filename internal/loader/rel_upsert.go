package loader

import (
	"context"
	"fmt"
	"strings"

	"mention2neo/internal/cypher"
	"mention2neo/internal/domain"

	"go.uber.org/zap"
)

// RelationshipUpserter 负责按 (类型, 起点, 终点) 幂等写入有向关系。
// 同一有向键下至多一条关系，后写覆盖属性而不是追加平行边。
type RelationshipUpserter struct {
	runner Runner
	logger *zap.Logger
}

// NewRelationshipUpserter 创建关系 upsert 器。
func NewRelationshipUpserter(runner Runner, logger *zap.Logger) *RelationshipUpserter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RelationshipUpserter{runner: runner, logger: logger}
}

// Upsert 写入一条关系。两端节点必须已经存在：MATCH 不到端点时不会静默成功，
// 而是返回 ErrDanglingReference，提示写入顺序出了问题。
func (u *RelationshipUpserter) Upsert(ctx context.Context, relType, fromLabel, fromKey, toLabel, toKey string, props map[string]any) (bool, error) {
	fromKeyProp := domain.KeyProperty(fromLabel)
	toKeyProp := domain.KeyProperty(toLabel)
	if fromKeyProp == "" || toKeyProp == "" {
		return false, fmt.Errorf("%w: 关系 %s 端点标签非法 from=%s to=%s", ErrConstraintViolation, relType, fromLabel, toLabel)
	}
	if strings.TrimSpace(fromKey) == "" || strings.TrimSpace(toKey) == "" {
		return false, fmt.Errorf("%w: 关系 %s 缺少端点主键", ErrConstraintViolation, relType)
	}
	if props == nil {
		props = map[string]any{}
	}

	query := cypher.MustTemplate("upsert_rel.cql", map[string]string{
		"RelType":     relType,
		"FromLabel":   fromLabel,
		"FromKeyProp": fromKeyProp,
		"ToLabel":     toLabel,
		"ToKeyProp":   toKeyProp,
	})
	params := map[string]any{
		"from_key": fromKey,
		"to_key":   toKey,
		"props":    props,
	}
	records, err := u.runner.ExecWrite(ctx, query, params)
	if err != nil {
		return false, fmt.Errorf("写入关系失败 type=%s: %w", relType, err)
	}
	if len(records) == 0 {
		return false, fmt.Errorf("%w: %s (%s:%s)->(%s:%s)", ErrDanglingReference, relType, fromLabel, fromKey, toLabel, toKey)
	}
	created := firstBool(records, "created")
	u.logger.Debug("关系已写入",
		zap.String("type", relType),
		zap.String("from", fromKey),
		zap.String("to", toKey),
		zap.Bool("created", created))
	return created, nil
}
