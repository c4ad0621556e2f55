package scrape

import (
	"testing"
	"time"

	"mention2neo/internal/domain"
)

func sampleTweet() rawTweet {
	return rawTweet{
		ID:           "1744012345678901234",
		TwitterURL:   "https://twitter.com/bob/status/1744012345678901234",
		Text:         "$PEPE to the moon #pepe #memecoin",
		LikeCount:    12,
		RetweetCount: 3,
		ReplyCount:   5,
		CreatedAt:    "Mon Jan 01 10:30:00 +0000 2024",
		Author: rawAuthor{
			ID:            "9001",
			UserName:      "bob",
			IsVerified:    true,
			Followers:     1500,
			StatusesCount: 420,
			CreatedAt:     "Tue Mar 10 08:00:00 +0000 2020",
			Location:      "New York, USA",
		},
		Entities: rawEntities{Hashtags: []rawHashtag{{Text: "pepe"}, {Text: "memecoin"}}},
	}
}

func TestMapItemFull(t *testing.T) {
	rec, ok := mapItem(sampleTweet(), "PEPE", nil)
	if !ok {
		t.Fatalf("expect record")
	}
	if rec.Token != "PEPE" || rec.Post.ID != "1744012345678901234" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Post.Timestamp == nil {
		t.Fatalf("expect parsed timestamp")
	}
	want := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	if !rec.Post.Timestamp.Equal(want) {
		t.Fatalf("unexpected timestamp: %v", rec.Post.Timestamp)
	}
	// 互动分 = 点赞 + 转发 + 回复。
	if rec.Account.EngagementScore != 20 {
		t.Fatalf("unexpected engagement score: %v", rec.Account.EngagementScore)
	}
	if rec.HashtagCount != 2 {
		t.Fatalf("unexpected hashtag count: %d", rec.HashtagCount)
	}
	if rec.Account.Region != "New York, USA" {
		t.Fatalf("unexpected region: %q", rec.Account.Region)
	}
}

func TestMapItemRegionDefault(t *testing.T) {
	tweet := sampleTweet()
	tweet.Author.Location = "   "
	rec, ok := mapItem(tweet, "PEPE", nil)
	if !ok {
		t.Fatalf("expect record")
	}
	if rec.Account.Region != domain.UnknownRegion {
		t.Fatalf("expect unknown region sentinel, got %q", rec.Account.Region)
	}
}

func TestMapItemBadTimestampKept(t *testing.T) {
	tweet := sampleTweet()
	tweet.CreatedAt = "not a date"
	rec, ok := mapItem(tweet, "PEPE", nil)
	if !ok {
		t.Fatalf("时间解析失败不应丢弃整条记录")
	}
	if rec.Post.Timestamp != nil {
		t.Fatalf("expect nil timestamp, got %v", rec.Post.Timestamp)
	}
}

func TestMapItemsSkipMissingIDs(t *testing.T) {
	noTweetID := sampleTweet()
	noTweetID.ID = ""
	noAuthorID := sampleTweet()
	noAuthorID.Author.ID = " "
	good := sampleTweet()

	records := mapItems([]rawTweet{noTweetID, noAuthorID, good}, "PEPE", nil)
	if len(records) != 1 {
		t.Fatalf("expect 1 record, got %d", len(records))
	}
	if records[0].Post.ID != good.ID {
		t.Fatalf("unexpected surviving record: %+v", records[0])
	}
}
