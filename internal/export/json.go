package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"mention2neo/internal/domain"

	"github.com/go-playground/validator/v10"
)

// Marshal 把一个批次的提及记录导出为 JSON 数据集。
func Marshal(records []domain.MentionRecord) ([]byte, error) {
	content, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("导出 JSON 失败: %w", err)
	}
	return content, nil
}

// FileName 生成带内容哈希的导出文件名，同样的内容得到同样的名字。
func FileName(token string, content []byte) string {
	return fmt.Sprintf("%s_mentions_%s.json", strings.ToLower(token), ContentHash(content)[:12])
}

// ContentHash 返回内容的 sha256 十六进制摘要。
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Validate 校验一份导出数据集：能解析且每条记录都满足入口约束。
func Validate(content []byte) error {
	var records []domain.MentionRecord
	if err := json.Unmarshal(content, &records); err != nil {
		return fmt.Errorf("数据集不是合法 JSON: %w", err)
	}
	validate := validator.New()
	for i, rec := range records {
		if err := validate.Struct(rec); err != nil {
			return fmt.Errorf("第 %d 条记录不合法: %w", i, err)
		}
	}
	return nil
}
