package domain

const (
	LabelToken   = "Token"
	LabelPost    = "Post"
	LabelAccount = "Account"
	LabelRegion  = "Region"

	RelPosted      = "POSTED"
	RelMentions    = "MENTIONS"
	RelLocatedIn   = "LOCATED_IN"
	RelMentionedIn = "MENTIONED_IN"
)

// UnknownRegion 是采集侧缺失地理位置时的占位值，永远不落图。
const UnknownRegion = "Unknown"

// KeyProperty 返回各标签的自然主键属性名，未知标签返回空串。
func KeyProperty(label string) string {
	switch label {
	case LabelToken:
		return "symbol"
	case LabelPost:
		return "id"
	case LabelAccount:
		return "user_id"
	case LabelRegion:
		return "name"
	default:
		return ""
	}
}

// IsKnownRegion 判断地区值是否应当物化为节点。
func IsKnownRegion(name string) bool {
	return name != "" && name != UnknownRegion
}
