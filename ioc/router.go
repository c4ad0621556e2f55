package ioc

import (
	"mention2neo/internal/job"
	"mention2neo/internal/registry"
	"mention2neo/internal/router"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InitIndexHandler 构建索引 HTTP 处理器。
func InitIndexHandler(scheduler *job.Scheduler, links *registry.LinkRegistry, logger *zap.Logger) *router.IndexHandler {
	return router.NewIndexHandler(scheduler, links, logger)
}

// InitGinEngine 构建 gin 引擎。
func InitGinEngine(handler *router.IndexHandler) *gin.Engine {
	return router.NewEngine(handler)
}
