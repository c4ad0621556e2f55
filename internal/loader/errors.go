package loader

import "errors"

// 错误分级：调用方通过 errors.Is 分类处理。
var (
	// ErrStoreUnavailable 表示图数据库连接或超时失败。
	ErrStoreUnavailable = errors.New("graph store unavailable")
	// ErrConstraintViolation 表示节点或关系缺少必填字段。
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrDanglingReference 表示关系写入时端点节点不存在，属于依赖顺序 bug。
	ErrDanglingReference = errors.New("dangling reference")
	// ErrMalformedRecord 表示输入记录缺少必要键。
	ErrMalformedRecord = errors.New("malformed record")
)
