package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const DefaultRequestTimeout = 3 * time.Second

// respondError отдает единый конверт ошибки.
func respondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

// respondServiceError транслирует сентинели сервисного слоя в HTTP статусы.
// Неизвестная ошибка наружу не выходит: клиент получает общий 500, детали
// остаются в логе (их уже записал нижний слой).
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		respondError(ctx, http.StatusNotFound, ErrRecordNotFound.Error())
	case errors.Is(err, services.ErrAliasTaken),
		errors.Is(err, services.ErrNameConflict),
		errors.Is(err, services.ErrEmailTaken):
		respondError(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidAliasFormat),
		errors.Is(err, services.ErrInvalidDestination),
		errors.Is(err, services.ErrExpiryNotFuture),
		errors.Is(err, services.ErrFolderUnavailable),
		errors.Is(err, services.ErrNotSoftDeleted),
		errors.Is(err, services.ErrWrongPassword):
		respondError(ctx, http.StatusUnprocessableEntity, err.Error())
	default:
		_ = ctx.Error(err)
		respondError(ctx, http.StatusInternalServerError, ErrInternal.Error())
	}
}

// paramID читает числовой параметр пути.
func paramID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return 0, false
	}
	return uint(id), true
}

// queryPagination читает page и limit из query. Границы нормализует
// сервисный слой.
func queryPagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	return page, limit
}

// queryDateRange читает необязательный диапазон дат. Принимает RFC3339 и
// короткую форму YYYY-MM-DD; конец короткой формы включает весь день.
func queryDateRange(ctx *gin.Context) (repositories.DateRange, error) {
	var dr repositories.DateRange

	if raw := ctx.Query("from"); raw != "" {
		t, err := parseDate(raw, false)
		if err != nil {
			return dr, err
		}
		dr.From = &t
	}
	if raw := ctx.Query("to"); raw != "" {
		t, err := parseDate(raw, true)
		if err != nil {
			return dr, err
		}
		dr.To = &t
	}
	return dr, nil
}

func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parse date %q", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// listEnvelope единый конверт постраничных выдач.
func listEnvelope(items any, total int64, page, limit int) gin.H {
	return gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	}
}
