package domain

import "time"

// PostInfo 表示一条帖子实体。
type PostInfo struct {
	ID        string     `json:"id" validate:"required"`
	URL       string     `json:"url" validate:"required"`
	Text      *string    `json:"text,omitempty"`
	LikeCount int        `json:"like_count" validate:"min=0"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// AccountInfo 表示发帖账号实体，Region 为自由文本地区标签。
type AccountInfo struct {
	ID              string     `json:"user_id" validate:"required"`
	Handle          string     `json:"username" validate:"required"`
	Verified        bool       `json:"is_verified"`
	FollowerCount   int        `json:"follower_count" validate:"min=0"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
	EngagementScore float64    `json:"engagement_score"`
	PostCount       int        `json:"post_count" validate:"min=0"`
	Region          string     `json:"region"`
}

// MentionRecord 是采集映射后的一条提及记录，在对账入口统一校验。
type MentionRecord struct {
	Token        string      `json:"token" validate:"required"`
	Post         PostInfo    `json:"post"`
	Account      AccountInfo `json:"account"`
	HashtagCount int         `json:"hashtag_count" validate:"min=0"`
}

// ReconcileResult 汇总一个批次的处理结果。
type ReconcileResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// CleanupResult 汇总一次陈旧数据清理的删除计数。
type CleanupResult struct {
	AccountsRemoved int `json:"accounts_removed"`
	PostsRemoved    int `json:"posts_removed"`
	RegionsRemoved  int `json:"regions_removed"`
}
