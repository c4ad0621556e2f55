package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mention2neo/internal/domain"
	"mention2neo/internal/util"

	"go.uber.org/zap"
)

// Source 抽象提及记录的数据源。
type Source interface {
	FetchMentions(ctx context.Context, token string) ([]domain.MentionRecord, error)
}

// StaticSource 用于测试或最小实现，直接返回内存中的记录。
type StaticSource struct {
	Records map[string][]domain.MentionRecord
}

// FetchMentions 返回预设记录。
func (s *StaticSource) FetchMentions(_ context.Context, token string) ([]domain.MentionRecord, error) {
	if s == nil || s.Records == nil {
		return nil, nil
	}
	return s.Records[token], nil
}

const defaultActorID = "61RPP7dywgiy0JPD0"

// ApifyConfig 配置 Apify actor 调用。
type ApifyConfig struct {
	BaseURL      string
	ActorID      string
	APIToken     string
	MaxItems     int
	StartDate    string
	MinFavorites int
	MinReplies   int
	MinRetweets  int
	Timeout      time.Duration
	Retry        int
	RetryBackoff time.Duration
	HTTPClient   *http.Client
}

// ApifyClient 通过 apidojo/tweet-scraper actor 抓取 token 提及数据。
type ApifyClient struct {
	cfg        ApifyConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewApifyClient 根据配置创建采集客户端。
func NewApifyClient(cfg ApifyConfig, logger *zap.Logger) (*ApifyClient, error) {
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, errors.New("apify api token 不能为空")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.apify.com"
	}
	if strings.TrimSpace(cfg.ActorID) == "" {
		cfg.ActorID = defaultActorID
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 1000
	}
	if cfg.StartDate == "" {
		cfg.StartDate = "2021-07-01"
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApifyClient{
		cfg:        cfg,
		httpClient: client,
		logger:     logger,
	}, nil
}

// FetchMentions 以 $TOKEN 搜索串运行 actor，返回映射后的提及记录。
func (c *ApifyClient) FetchMentions(ctx context.Context, token string) ([]domain.MentionRecord, error) {
	searchURL := fmt.Sprintf("https://twitter.com/search?q=%%24%s", url.QueryEscape(token))
	input := map[string]any{
		"includeSearchTerms": false,
		"maxItems":           c.cfg.MaxItems,
		"minimumFavorites":   c.cfg.MinFavorites,
		"minimumReplies":     c.cfg.MinReplies,
		"minimumRetweets":    c.cfg.MinRetweets,
		"onlyImage":          false,
		"onlyQuote":          false,
		"onlyTwitterBlue":    false,
		"onlyVerifiedUsers":  false,
		"onlyVideo":          false,
		"sort":               "Latest",
		"start":              c.cfg.StartDate,
		"startUrls":          []string{searchURL},
		"tweetLanguage":      "en",
		"proxyConfiguration": map[string]any{
			"useApifyProxy": true,
			"groups":        []string{"RESIDENTIAL"},
		},
	}

	c.logger.Info("开始抓取 token 提及数据", zap.String("token", token))
	var items []rawTweet
	attempts := c.cfg.Retry
	if attempts <= 0 {
		attempts = 1
	}
	backoff := c.cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}
	err := util.Retry(ctx, attempts, backoff, func() error {
		fetched, err := c.runActor(ctx, input)
		if err != nil {
			c.logger.Warn("actor 调用失败", zap.String("token", token), zap.Error(err))
			return err
		}
		items = fetched
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("抓取 %s 提及数据失败: %w", token, err)
	}

	records := mapItems(items, token, c.logger)
	c.logger.Info("抓取完成",
		zap.String("token", token),
		zap.Int("raw_items", len(items)),
		zap.Int("mapped", len(records)))
	return records, nil
}

// runActor 调用 run-sync-get-dataset-items 接口，同步拿回数据集。
func (c *ApifyClient) runActor(ctx context.Context, input map[string]any) ([]rawTweet, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("编码 actor 输入失败: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.ActorID, url.QueryEscape(c.cfg.APIToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("构建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求 apify 失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("apify 返回状态码 %d", resp.StatusCode)
	}

	var items []rawTweet
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("解析 apify 响应失败: %w", err)
	}
	return items, nil
}
