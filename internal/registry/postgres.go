package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"go.uber.org/zap"
)

// ErrNotFound 表示 token 还没有任何已登记的导出文件。
var ErrNotFound = errors.New("link not found")

// Link 记录某个 token 最新一次导出文件的可检索地址。
type Link struct {
	Token     string    `json:"token"`
	CID       string    `json:"cid"`
	FileName  string    `json:"file_name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LinkRegistry 基于 Postgres 维护 token 到最新导出地址的映射。
type LinkRegistry struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open 连接 Postgres 并确保表结构存在。
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*LinkRegistry, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开 postgres 连接失败: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(time.Hour)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres 无法连通: %w", err)
	}
	r := NewWithDB(db, logger)
	if err := r.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

// NewWithDB 用已有连接构建注册表，便于测试注入。
func NewWithDB(db *sql.DB, logger *zap.Logger) *LinkRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LinkRegistry{db: db, logger: logger}
}

// EnsureSchema 创建登记表。
func (r *LinkRegistry) EnsureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS token_links (
		token      TEXT PRIMARY KEY,
		cid        TEXT NOT NULL,
		file_name  TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("初始化 token_links 表失败: %w", err)
	}
	return nil
}

// UpsertLink 登记 token 最新一次导出的地址，后写覆盖。
func (r *LinkRegistry) UpsertLink(ctx context.Context, token, cid, fileName string) error {
	const query = `INSERT INTO token_links (token, cid, file_name, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (token) DO UPDATE
		SET cid = EXCLUDED.cid, file_name = EXCLUDED.file_name, updated_at = now()`
	if _, err := r.db.ExecContext(ctx, query, token, cid, fileName); err != nil {
		return fmt.Errorf("登记导出地址失败 token=%s: %w", token, err)
	}
	r.logger.Info("导出地址已登记", zap.String("token", token), zap.String("cid", cid))
	return nil
}

// Latest 查询 token 最新登记的地址。
func (r *LinkRegistry) Latest(ctx context.Context, token string) (Link, error) {
	const query = `SELECT token, cid, file_name, updated_at FROM token_links WHERE token = $1`
	var link Link
	err := r.db.QueryRowContext(ctx, query, token).Scan(&link.Token, &link.CID, &link.FileName, &link.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Link{}, ErrNotFound
	}
	if err != nil {
		return Link{}, fmt.Errorf("查询导出地址失败 token=%s: %w", token, err)
	}
	return link, nil
}

// Close 关闭底层连接。
func (r *LinkRegistry) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
