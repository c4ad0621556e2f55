package router

import (
	"errors"
	"strings"

	"mention2neo/internal/job"
	"mention2neo/internal/registry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IndexHandler 暴露手动触发索引和查询最新导出地址的接口。
type IndexHandler struct {
	scheduler *job.Scheduler
	links     *registry.LinkRegistry
	logger    *zap.Logger
}

// NewIndexHandler 构建 HTTP 处理器。
func NewIndexHandler(scheduler *job.Scheduler, links *registry.LinkRegistry, logger *zap.Logger) *IndexHandler {
	return &IndexHandler{scheduler: scheduler, links: links, logger: logger}
}

// HandleRun 异步触发一轮索引。若上一轮仍在执行，调度器会直接跳过。
func (h *IndexHandler) HandleRun(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(503, gin.H{"error": "scheduler not available"})
		return
	}
	h.scheduler.TriggerNow()
	c.JSON(202, gin.H{"status": "scheduled"})
}

// HandleLatestLink 返回指定 token 最新登记的导出地址。
func (h *IndexHandler) HandleLatestLink(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		c.JSON(400, gin.H{"error": "token is required"})
		return
	}
	if h.links == nil {
		c.JSON(503, gin.H{"error": "link registry not configured"})
		return
	}
	link, err := h.links.Latest(c.Request.Context(), token)
	if errors.Is(err, registry.ErrNotFound) {
		c.JSON(404, gin.H{"error": "no link registered for token"})
		return
	}
	if err != nil {
		if h.logger != nil {
			h.logger.Error("query latest link failed", zap.String("token", token), zap.Error(err))
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, link)
}
