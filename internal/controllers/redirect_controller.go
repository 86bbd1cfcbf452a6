package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/fsdevblog/shortkeep/internal/cache"
	"github.com/fsdevblog/shortkeep/internal/clientinfo"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// visitRecordTimeout предел фоновой записи перехода.
const visitRecordTimeout = 5 * time.Second

// RedirectResolver разрешение идентификатора и запись перехода.
type RedirectResolver interface {
	Resolve(ctx context.Context, shortID string) (*cache.ResolvedLink, error)
	RecordVisit(ctx context.Context, linkID uint, meta services.VisitMeta)
}

// RedirectController публичная точка перехода по короткой ссылке.
type RedirectController struct {
	redirect RedirectResolver
}

func NewRedirectController(redirect RedirectResolver) *RedirectController {
	return &RedirectController{redirect: redirect}
}

// Redirect обрабатывает GET /:shortID. Ветки политики терминальны:
// не найдена или удалена → 404, выключена или просрочена → 410, кривое
// назначение → 400, иначе редирект. Переход пишется после ответа в
// отдельной горутине — сбой записи на редирект не влияет.
func (r *RedirectController) Redirect(ctx *gin.Context) {
	shortID := ctx.Param("shortID")

	resolved, err := r.redirect.Resolve(ctx, shortID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRecordNotFound):
			ctx.String(http.StatusNotFound, ErrRecordNotFound.Error())
		case errors.Is(err, services.ErrLinkInactive), errors.Is(err, services.ErrLinkExpired):
			ctx.String(http.StatusGone, "link is gone")
		case errors.Is(err, services.ErrBadDestination):
			ctx.String(http.StatusBadRequest, "invalid destination")
		default:
			_ = ctx.Error(err)
			ctx.String(http.StatusInternalServerError, ErrInternal.Error())
		}
		return
	}

	// Метаданные снимаются до ответа: после него запрос переиспользуется.
	meta := services.VisitMeta{
		IP:        clientinfo.ClientIP(ctx.Request),
		UserAgent: ctx.Request.UserAgent(),
		Referrer:  ctx.Request.Referer(),
	}

	ctx.Redirect(http.StatusFound, resolved.Destination)

	go func() {
		recordCtx, cancel := context.WithTimeout(context.Background(), visitRecordTimeout)
		defer cancel()
		r.redirect.RecordVisit(recordCtx, resolved.LinkID, meta)
	}()
}
