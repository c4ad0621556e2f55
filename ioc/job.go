package ioc

import (
	"context"

	"mention2neo/internal/app"
	"mention2neo/internal/job"

	"go.uber.org/zap"
)

// InitScheduler 构建定时任务调度器。
func InitScheduler(cfg app.Config, svc *app.Service, logger *zap.Logger) *job.Scheduler {
	var indexFn func(context.Context) error
	if svc != nil {
		indexFn = svc.Index
	}
	return job.NewScheduler(cfg, indexFn, logger)
}
