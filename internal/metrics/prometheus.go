package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "indexer_run_duration_seconds",
		Help:    "单次索引流程耗时",
		Buckets: prometheus.DefBuckets,
	})

	RunErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "indexer_run_errors_total",
		Help: "索引流程失败次数",
	})

	RecordsProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "indexer_records_processed_total",
		Help: "成功写图的提及记录数",
	})

	RecordsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "indexer_records_failed_total",
		Help: "校验或写入失败后跳过的记录数",
	})

	StaleAccountsRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "indexer_stale_accounts_removed_total",
		Help: "清理删除的账号节点数",
	})

	StalePostsRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "indexer_stale_posts_removed_total",
		Help: "清理删除的帖子节点数",
	})

	StaleRegionsRemoved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "indexer_stale_regions_removed_total",
		Help: "清理删除的地区节点数",
	})
)

// MustRegister 注册指标，可在启动时调用。
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(RunDuration, RunErrors, RecordsProcessed, RecordsFailed,
		StaleAccountsRemoved, StalePostsRemoved, StaleRegionsRemoved)
}
