package scrape

// rawAuthor 对应 apidojo/tweet-scraper 输出里的作者字段。
type rawAuthor struct {
	ID            string `json:"id"`
	UserName      string `json:"userName"`
	IsVerified    bool   `json:"isVerified"`
	Followers     int    `json:"followers"`
	StatusesCount int    `json:"statusesCount"`
	CreatedAt     string `json:"createdAt"`
	Location      string `json:"location"`
}

type rawHashtag struct {
	Text string `json:"text"`
}

type rawEntities struct {
	Hashtags []rawHashtag `json:"hashtags"`
}

// rawTweet 是采集器返回的单条推文原始数据。
type rawTweet struct {
	ID           string      `json:"id"`
	TwitterURL   string      `json:"twitterUrl"`
	Text         string      `json:"text"`
	LikeCount    int         `json:"likeCount"`
	RetweetCount int         `json:"retweetCount"`
	ReplyCount   int         `json:"replyCount"`
	CreatedAt    string      `json:"createdAt"`
	Author       rawAuthor   `json:"author"`
	Entities     rawEntities `json:"entities"`
}
