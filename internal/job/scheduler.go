package job

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mention2neo/internal/app"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler 负责基于 cron 表达式周期性执行索引任务。同一时间只允许一轮
// 在跑：重叠触发直接跳过，这同时保证了同一 token 的清理不会并发执行。
type Scheduler struct {
	cronExpr string
	logger   *zap.Logger
	cron     *cron.Cron
	indexFn  func(context.Context) error
	parent   context.Context
	mu       sync.Mutex
	running  bool
}

// NewScheduler 根据配置构建调度器。
func NewScheduler(cfg app.Config, indexFn func(context.Context) error, logger *zap.Logger) *Scheduler {
	spec := fmt.Sprintf("0 */%d * * *", cfg.Sync.IntervalHours)
	return &Scheduler{cronExpr: spec, logger: logger, indexFn: indexFn}
}

// Start 启动调度器，返回用于停止任务的函数。
func (s *Scheduler) Start(parent context.Context) context.CancelFunc {
	if s == nil {
		return func() {}
	}
	s.parent = parent
	c := cron.New()
	id, err := c.AddFunc(s.cronExpr, s.runOnce)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to register cron job", zap.String("cron", s.cronExpr), zap.Error(err))
		}
		return func() {}
	}
	s.cron = c
	c.Start()
	if s.logger != nil {
		entry := c.Entry(id)
		s.logger.Info("job scheduler started", zap.String("cron", s.cronExpr), zap.Time("next", entry.Next))
	}

	var once sync.Once
	stop := func() {
		once.Do(func() {
			ctx := s.cron.Stop()
			<-ctx.Done()
			if s.logger != nil {
				s.logger.Info("job scheduler stopped")
			}
		})
	}

	go func() {
		<-parent.Done()
		stop()
	}()

	return stop
}

// TriggerNow 异步触发一轮索引，复用重叠跳过逻辑。
func (s *Scheduler) TriggerNow() {
	go s.runOnce()
}

func (s *Scheduler) runOnce() {
	if s.indexFn == nil {
		if s.logger != nil {
			s.logger.Warn("index function not configured")
		}
		return
	}
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		if s.logger != nil {
			s.logger.Warn("previous run still in progress, skip current schedule")
		}
		return
	}
	s.running = true
	s.mu.Unlock()

	start := time.Now()
	runCtx := context.Background()
	if s.parent != nil {
		select {
		case <-s.parent.Done():
			if s.logger != nil {
				s.logger.Info("scheduler context cancelled, skip run")
			}
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
			return
		default:
		}
		runCtx = s.parent
	}
	err := s.indexFn(runCtx)
	elapsed := time.Since(start)
	if s.logger != nil {
		if err != nil {
			s.logger.Error("scheduled run failed", zap.Duration("duration", elapsed), zap.Error(err))
		} else {
			s.logger.Info("scheduled run completed", zap.Duration("duration", elapsed))
		}
	}
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
