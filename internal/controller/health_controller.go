package controller

import (
	"context"
	"net/http"
	"time"

	"classroom_backend/internal/repository"
	"classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Store  *repository.Store
	Driver string
}

func NewHealthController(store *repository.Store, driver string) *HealthController {
	return &HealthController{Store: store, Driver: driver}
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response "存储不可用"
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.Store.Ping(pingCtx); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Store unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"store": gin.H{"driver": c.Driver, "status": "up"},
		},
	})
}
