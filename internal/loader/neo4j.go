package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Runner 抽象图数据库的读写执行，便于测试替换实现。
type Runner interface {
	ExecWrite(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
	RunRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// Config 控制 Neo4j 连接参数。
type Config struct {
	URI                   string
	Username              string
	Password              string
	Database              string
	MaxConnectionPool     int
	ConnectTimeoutSec     int
	TransactionTimeoutSec int
}

// Client 封装 Neo4j Driver，提供最小读写接口。
type Client struct {
	driver    neo4j.DriverWithContext
	database  string
	txTimeout time.Duration
}

// NewClient 创建一个新的 Neo4j 客户端并校验连通性。
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j uri 不能为空")
	}
	auth := neo4j.BasicAuth(cfg.Username, cfg.Password, "")
	driver, err := neo4j.NewDriverWithContext(cfg.URI, auth, func(config *neo4j.Config) {
		if cfg.MaxConnectionPool > 0 {
			config.MaxConnectionPoolSize = cfg.MaxConnectionPool
		}
		if cfg.ConnectTimeoutSec > 0 {
			config.SocketConnectTimeout = time.Duration(cfg.ConnectTimeoutSec) * time.Second
		}
	})
	if err != nil {
		return nil, fmt.Errorf("创建 neo4j driver 失败: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	txTimeout := time.Duration(cfg.TransactionTimeoutSec) * time.Second
	if txTimeout <= 0 {
		txTimeout = 30 * time.Second
	}
	return &Client{driver: driver, database: cfg.Database, txTimeout: txTimeout}, nil
}

// Close 关闭底层连接。
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.driver == nil {
		return nil
	}
	return c.driver.Close(ctx)
}

// ExecWrite 执行写事务并返回记录集合。失败统一归类为存储不可用。
func (c *Client) ExecWrite(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.txTimeout)
	defer cancel()
	sess := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: neo4j.AccessModeWrite})
	defer sess.Close(ctx)
	resultAny, err := sess.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collect(ctx, tx, query, params)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return resultAny.([]map[string]any), nil
}

// RunRead 执行只读查询并返回记录集合。
func (c *Client) RunRead(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.txTimeout)
	defer cancel()
	sess := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: neo4j.AccessModeRead})
	defer sess.Close(ctx)
	resultAny, err := sess.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return collect(ctx, tx, query, params)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return resultAny.([]map[string]any), nil
}

// RunRaw 在事务外执行原始语句，用于 schema 类操作。
func (c *Client) RunRaw(ctx context.Context, query string, params map[string]any) error {
	sess := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.database, AccessMode: neo4j.AccessModeWrite})
	defer sess.Close(ctx)
	res, err := sess.Run(ctx, query, params)
	if err != nil {
		return fmt.Errorf("执行语句失败: %w", err)
	}
	for res.Next(ctx) {
		// 消费结果即可
	}
	return res.Err()
}

func collect(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) ([]map[string]any, error) {
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}
	records := make([]map[string]any, 0)
	for res.Next(ctx) {
		records = append(records, res.Record().AsMap())
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
