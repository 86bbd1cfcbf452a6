package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/fsdevblog/shortkeep/internal/controllers/middlewares"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/gin-gonic/gin"
)

// VisitAnalytics агрегация переходов ссылки.
type VisitAnalytics interface {
	Overview(ctx context.Context, linkID, userID uint, dr repositories.DateRange) (*services.Overview, error)
	Series(ctx context.Context, linkID, userID uint, interval repositories.BucketInterval, dr repositories.DateRange) ([]repositories.SeriesPoint, error)
	History(ctx context.Context, linkID, userID uint, page, limit int) ([]services.VisitEntry, int64, error)
	ExportCSV(ctx context.Context, linkID, userID uint, w io.Writer) error
}

type AnalyticsController struct {
	analytics VisitAnalytics
}

func NewAnalyticsController(analytics VisitAnalytics) *AnalyticsController {
	return &AnalyticsController{analytics: analytics}
}

func (a *AnalyticsController) Overview(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	dr, drErr := queryDateRange(ctx)
	if drErr != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}

	overview, err := a.analytics.Overview(ctx, id, middlewares.CurrentUserID(ctx), dr)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, overview)
}

func (a *AnalyticsController) Series(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	interval := repositories.BucketInterval(ctx.DefaultQuery("interval", string(repositories.BucketDaily)))
	switch interval {
	case repositories.BucketDaily, repositories.BucketWeekly, repositories.BucketMonthly:
	default:
		respondError(ctx, http.StatusBadRequest, "interval must be daily, weekly or monthly")
		return
	}

	dr, drErr := queryDateRange(ctx)
	if drErr != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}

	points, err := a.analytics.Series(ctx, id, middlewares.CurrentUserID(ctx), interval, dr)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"interval": interval, "points": points})
}

// Visits отдает историю переходов. format=csv выгружает файл, иначе JSON
// страница. IP в обоих форматах замаскирован.
func (a *AnalyticsController) Visits(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if ctx.Query("format") == "csv" {
		ctx.Header("Content-Type", "text/csv")
		ctx.Header("Content-Disposition", `attachment; filename="visits.csv"`)
		if err := a.analytics.ExportCSV(ctx, id, middlewares.CurrentUserID(ctx), ctx.Writer); err != nil {
			respondServiceError(ctx, err)
		}
		return
	}

	page, limit := queryPagination(ctx)
	visits, total, err := a.analytics.History(ctx, id, middlewares.CurrentUserID(ctx), page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, listEnvelope(visits, total, page, limit))
}
