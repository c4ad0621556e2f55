package loader

import (
	"context"
	"os"
	"testing"
	"time"

	"mention2neo/internal/domain"
)

// 集成测试需要真实 Neo4j，设置 NEO4J_URI / NEO4J_USER / NEO4J_PASSWORD 后运行。
func newIntegrationClient(t *testing.T) *Client {
	t.Helper()
	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set, skip integration test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := NewClient(ctx, Config{
		URI:      uri,
		Username: os.Getenv("NEO4J_USER"),
		Password: os.Getenv("NEO4J_PASSWORD"),
	})
	if err != nil {
		t.Fatalf("connect neo4j: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cleanupCancel()
		// 测试数据都挂在 ITEST 前缀的 token 下，连带清掉。
		_, _ = client.ExecWrite(cleanupCtx,
			"MATCH (t:Token) WHERE t.symbol STARTS WITH 'ITEST' DETACH DELETE t", nil)
		_, _ = client.ExecWrite(cleanupCtx,
			"MATCH (a:Account) WHERE a.user_id STARTS WITH 'itest-' DETACH DELETE a", nil)
		_, _ = client.ExecWrite(cleanupCtx,
			"MATCH (p:Post) WHERE p.id STARTS WITH 'itest-' DETACH DELETE p", nil)
		_, _ = client.ExecWrite(cleanupCtx,
			"MATCH (r:Region) WHERE NOT (r)<-[:LOCATED_IN]-(:Account) DETACH DELETE r", nil)
		_ = client.Close(cleanupCtx)
	})
	if err := NewSchemaManager(client).Ensure(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return client
}

func newIntegrationReconciler(client *Client) *Reconciler {
	return NewReconciler(
		NewEntityUpserter(client, nil),
		NewRelationshipUpserter(client, nil),
		NewCleaner(client, nil),
		nil,
	)
}

func countNodes(t *testing.T, client *Client, query string, params map[string]any) int {
	t.Helper()
	records, err := client.RunRead(context.Background(), query, params)
	if err != nil {
		t.Fatalf("count query: %v", err)
	}
	return firstInt(records, "n")
}

func integrationRecord(token, postID, accountID, region string) domain.MentionRecord {
	rec := sampleRecord(token, "itest-"+postID, "itest-"+accountID, region)
	return rec
}

func TestIntegrationReconcileIdempotent(t *testing.T) {
	client := newIntegrationClient(t)
	r := newIntegrationReconciler(client)
	ctx := context.Background()

	records := []domain.MentionRecord{integrationRecord("ITESTA", "p1", "a1", "USA")}
	for i := 0; i < 2; i++ {
		result, _, err := r.Reconcile(ctx, "ITESTA", records)
		if err != nil {
			t.Fatalf("reconcile pass %d: %v", i, err)
		}
		if result.Processed != 1 {
			t.Fatalf("pass %d: %+v", i, result)
		}
	}

	// 重复应用不产生重复节点或重复边。
	if n := countNodes(t, client,
		"MATCH (a:Account { user_id: 'itest-a1' }) RETURN count(a) AS n", nil); n != 1 {
		t.Fatalf("expect 1 account, got %d", n)
	}
	if n := countNodes(t, client,
		"MATCH (:Account { user_id: 'itest-a1' })-[m:MENTIONS]->(:Token { symbol: 'ITESTA' }) RETURN count(m) AS n", nil); n != 1 {
		t.Fatalf("expect 1 MENTIONS edge, got %d", n)
	}
}

func TestIntegrationStaleAccountCleanup(t *testing.T) {
	client := newIntegrationClient(t)
	r := newIntegrationReconciler(client)
	ctx := context.Background()

	first := []domain.MentionRecord{
		integrationRecord("ITESTB", "p1", "a1", "USA"),
		integrationRecord("ITESTB", "p2", "a2", domain.UnknownRegion),
	}
	if _, _, err := r.Reconcile(ctx, "ITESTB", first); err != nil {
		t.Fatalf("first batch: %v", err)
	}

	// 第二批 a2 消失，清理应删除它连同它的帖子。
	second := []domain.MentionRecord{integrationRecord("ITESTB", "p1", "a1", "USA")}
	_, cleanup, err := r.Reconcile(ctx, "ITESTB", second)
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if cleanup.AccountsRemoved != 1 {
		t.Fatalf("expect 1 stale account removed, got %+v", cleanup)
	}
	if n := countNodes(t, client,
		"MATCH (a:Account { user_id: 'itest-a2' }) RETURN count(a) AS n", nil); n != 0 {
		t.Fatalf("stale account still present")
	}
	if n := countNodes(t, client,
		"MATCH (p:Post { id: 'itest-p2' }) RETURN count(p) AS n", nil); n != 0 {
		t.Fatalf("stale post still present")
	}
	if n := countNodes(t, client,
		"MATCH (a:Account { user_id: 'itest-a1' }) RETURN count(a) AS n", nil); n != 1 {
		t.Fatalf("surviving account was deleted")
	}
}

func TestIntegrationSharedRegionSurvivorship(t *testing.T) {
	client := newIntegrationClient(t)
	r := newIntegrationReconciler(client)
	ctx := context.Background()

	const region = "Itest Harbor"
	both := []domain.MentionRecord{
		integrationRecord("ITESTE", "p1", "a1", region),
		integrationRecord("ITESTE", "p2", "a2", region),
	}
	if _, _, err := r.Reconcile(ctx, "ITESTE", both); err != nil {
		t.Fatalf("first batch: %v", err)
	}

	// 第二批只剩 a1：a2 被删，但地区仍被 a1 引用，必须幸存。
	_, cleanup, err := r.Reconcile(ctx, "ITESTE", both[:1])
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}
	if cleanup.AccountsRemoved != 1 {
		t.Fatalf("expect 1 stale account removed, got %+v", cleanup)
	}
	regionQuery := "MATCH (r:Region { name: $region }) RETURN count(r) AS n"
	if n := countNodes(t, client, regionQuery, map[string]any{"region": region}); n != 1 {
		t.Fatalf("region deleted while still referenced, count=%d", n)
	}

	// 清掉最后一个引用账号后，地区才跟着删除。
	cleanup, err = NewCleaner(client, nil).ReconcileStale(ctx, "ITESTE", nil)
	if err != nil {
		t.Fatalf("final cleanup: %v", err)
	}
	if cleanup.AccountsRemoved != 1 {
		t.Fatalf("expect last account removed, got %+v", cleanup)
	}
	if n := countNodes(t, client, regionQuery, map[string]any{"region": region}); n != 0 {
		t.Fatalf("region survived its last referencing account")
	}
}

func TestIntegrationAttributeRefresh(t *testing.T) {
	client := newIntegrationClient(t)
	r := newIntegrationReconciler(client)
	ctx := context.Background()

	rec := integrationRecord("ITESTF", "p1", "a1", "USA")
	if _, _, err := r.Reconcile(ctx, "ITESTF", []domain.MentionRecord{rec}); err != nil {
		t.Fatalf("first batch: %v", err)
	}

	// 同一条记录换了点赞数重放，节点和 POSTED 边的属性都要刷新。
	rec.Post.LikeCount = 20
	if _, _, err := r.Reconcile(ctx, "ITESTF", []domain.MentionRecord{rec}); err != nil {
		t.Fatalf("second batch: %v", err)
	}

	if n := countNodes(t, client,
		"MATCH (p:Post { id: 'itest-p1' }) RETURN p.likes AS n", nil); n != 20 {
		t.Fatalf("post likes not refreshed, got %d", n)
	}
	if n := countNodes(t, client,
		"MATCH (:Account { user_id: 'itest-a1' })-[e:POSTED]->(:Post { id: 'itest-p1' }) RETURN e.likes AS n", nil); n != 20 {
		t.Fatalf("POSTED edge likes not refreshed, got %d", n)
	}
}

func TestIntegrationMultiTokenAccountSurvives(t *testing.T) {
	client := newIntegrationClient(t)
	r := newIntegrationReconciler(client)
	ctx := context.Background()

	// a1 同时提及两个 token。
	if _, _, err := r.Reconcile(ctx, "ITESTC",
		[]domain.MentionRecord{integrationRecord("ITESTC", "p1", "a1", "USA")}); err != nil {
		t.Fatalf("token C batch: %v", err)
	}
	if _, _, err := r.Reconcile(ctx, "ITESTD",
		[]domain.MentionRecord{integrationRecord("ITESTD", "p2", "a1", "USA")}); err != nil {
		t.Fatalf("token D batch: %v", err)
	}

	// 对 ITESTC 跑一轮空存活集合的清理：a1 对 C 的 MENTIONS 边被删，
	// 但它仍提及 ITESTD，账号必须幸存。
	cleanup, err := NewCleaner(client, nil).ReconcileStale(ctx, "ITESTC", nil)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if cleanup.AccountsRemoved != 0 {
		t.Fatalf("multi-token account must survive, got %+v", cleanup)
	}
	if n := countNodes(t, client,
		"MATCH (:Account { user_id: 'itest-a1' })-[m:MENTIONS]->(:Token { symbol: 'ITESTC' }) RETURN count(m) AS n", nil); n != 0 {
		t.Fatalf("stale MENTIONS edge still present")
	}
	if n := countNodes(t, client,
		"MATCH (:Account { user_id: 'itest-a1' })-[m:MENTIONS]->(:Token { symbol: 'ITESTD' }) RETURN count(m) AS n", nil); n != 1 {
		t.Fatalf("other-token MENTIONS edge lost")
	}
}
