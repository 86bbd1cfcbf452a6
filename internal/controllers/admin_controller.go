package controllers

import (
	"context"
	"net/http"

	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/gin-gonic/gin"
)

// SystemStatsCollector агрегатная статистика по системе.
type SystemStatsCollector interface {
	Collect(ctx context.Context) (*services.SystemStats, error)
}

// AdminController поверхность роли admin.
type AdminController struct {
	stats SystemStatsCollector
}

func NewAdminController(stats SystemStatsCollector) *AdminController {
	return &AdminController{stats: stats}
}

func (a *AdminController) Stats(ctx *gin.Context) {
	stats, err := a.stats.Collect(ctx)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}
