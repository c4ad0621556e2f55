package loader

import (
	"context"
	"strings"
)

// fakeRunner 按默认规则响应写入：upsert 返回 created=true，清理返回 removed=0。
// 可以通过 exec 覆盖单个用例的行为。
type fakeRunner struct {
	calls []fakeCall
	exec  func(call int, query string, params map[string]any) ([]map[string]any, error)
}

type fakeCall struct {
	query  string
	params map[string]any
}

func (f *fakeRunner) ExecWrite(_ context.Context, query string, params map[string]any) ([]map[string]any, error) {
	idx := len(f.calls)
	f.calls = append(f.calls, fakeCall{query: query, params: params})
	if f.exec != nil {
		return f.exec(idx, query, params)
	}
	if strings.Contains(query, "MERGE") {
		return []map[string]any{{"created": true}}, nil
	}
	return []map[string]any{{"removed": int64(0)}}, nil
}

func (f *fakeRunner) RunRead(context.Context, string, map[string]any) ([]map[string]any, error) {
	return nil, nil
}

func (f *fakeRunner) queriesContaining(substr string) []fakeCall {
	var matched []fakeCall
	for _, c := range f.calls {
		if strings.Contains(c.query, substr) {
			matched = append(matched, c)
		}
	}
	return matched
}
