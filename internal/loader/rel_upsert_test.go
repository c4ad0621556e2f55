package loader

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mention2neo/internal/domain"
)

func TestRelationshipUpsertParams(t *testing.T) {
	f := &fakeRunner{}
	u := NewRelationshipUpserter(f, nil)

	created, err := u.Upsert(context.Background(), domain.RelMentions,
		domain.LabelAccount, "a1", domain.LabelToken, "PEPE",
		map[string]any{"hashtag_count": 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expect created=true")
	}
	query := f.calls[0].query
	for _, want := range []string{
		"MATCH (a:Account { user_id: $from_key })",
		"MATCH (b:Token { symbol: $to_key })",
		"MERGE (a)-[r:MENTIONS]->(b)",
	} {
		if !strings.Contains(query, want) {
			t.Fatalf("query missing %q:\n%s", want, query)
		}
	}
	params := f.calls[0].params
	if params["from_key"] != "a1" || params["to_key"] != "PEPE" {
		t.Fatalf("unexpected params: %v", params)
	}
}

func TestRelationshipUpsertDanglingReference(t *testing.T) {
	// 端点 MATCH 不到时查询零行返回，必须当成逻辑失败而不是静默成功。
	f := &fakeRunner{exec: func(int, string, map[string]any) ([]map[string]any, error) {
		return []map[string]any{}, nil
	}}
	u := NewRelationshipUpserter(f, nil)

	_, err := u.Upsert(context.Background(), domain.RelPosted,
		domain.LabelAccount, "ghost", domain.LabelPost, "p1", nil)
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("expect dangling reference, got %v", err)
	}
}

func TestRelationshipUpsertEmptyEndpoint(t *testing.T) {
	u := NewRelationshipUpserter(&fakeRunner{}, nil)
	_, err := u.Upsert(context.Background(), domain.RelLocatedIn,
		domain.LabelAccount, "a1", domain.LabelRegion, "", nil)
	if !errors.Is(err, ErrConstraintViolation) {
		t.Fatalf("expect constraint violation, got %v", err)
	}
}
