package scrape

import (
	"strings"
	"time"

	"mention2neo/internal/domain"

	"go.uber.org/zap"
)

// twitterTimeLayout 是推文 createdAt 的固定格式（%a %b %d %H:%M:%S %z %Y）。
const twitterTimeLayout = time.RubyDate

// mapItems 把原始推文转成结构化提及记录。缺少主键的条目跳过并记日志，
// 不影响同批其余条目。
func mapItems(items []rawTweet, token string, logger *zap.Logger) []domain.MentionRecord {
	if logger == nil {
		logger = zap.NewNop()
	}
	records := make([]domain.MentionRecord, 0, len(items))
	for _, item := range items {
		rec, ok := mapItem(item, token, logger)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records
}

func mapItem(item rawTweet, token string, logger *zap.Logger) (domain.MentionRecord, bool) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(item.ID) == "" || strings.TrimSpace(item.Author.ID) == "" {
		logger.Warn("原始推文缺少主键，跳过",
			zap.String("token", token),
			zap.String("tweet_id", item.ID),
			zap.String("author_id", item.Author.ID))
		return domain.MentionRecord{}, false
	}

	region := strings.TrimSpace(item.Author.Location)
	if region == "" {
		region = domain.UnknownRegion
	}

	var text *string
	if item.Text != "" {
		t := item.Text
		text = &t
	}

	rec := domain.MentionRecord{
		Token: token,
		Post: domain.PostInfo{
			ID:        item.ID,
			URL:       item.TwitterURL,
			Text:      text,
			LikeCount: item.LikeCount,
			Timestamp: parseTwitterTime(item.CreatedAt, logger),
		},
		Account: domain.AccountInfo{
			ID:              item.Author.ID,
			Handle:          item.Author.UserName,
			Verified:        item.Author.IsVerified,
			FollowerCount:   item.Author.Followers,
			CreatedAt:       parseTwitterTime(item.Author.CreatedAt, logger),
			EngagementScore: float64(item.LikeCount + item.RetweetCount + item.ReplyCount),
			PostCount:       item.Author.StatusesCount,
			Region:          region,
		},
		HashtagCount: len(item.Entities.Hashtags),
	}
	return rec, true
}

// parseTwitterTime 解析推文时间，解析失败返回 nil 而不是整条丢弃。
func parseTwitterTime(raw string, logger *zap.Logger) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, err := time.Parse(twitterTimeLayout, raw)
	if err != nil {
		logger.Debug("时间字段无法解析", zap.String("raw", raw), zap.Error(err))
		return nil
	}
	utc := parsed.UTC()
	return &utc
}
