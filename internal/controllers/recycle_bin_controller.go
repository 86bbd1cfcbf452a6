package controllers

import (
	"context"
	"net/http"

	"github.com/fsdevblog/shortkeep/internal/controllers/middlewares"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/gin-gonic/gin"
)

// RecycleBin поверхность корзины над мягко удаленными элементами.
type RecycleBin interface {
	List(ctx context.Context, userID uint, itemType services.RecycleItemType, page, limit int) ([]services.RecycleItem, int64, error)
	Restore(ctx context.Context, userID uint, itemType services.RecycleItemType, id uint) error
	Purge(ctx context.Context, userID uint, itemType services.RecycleItemType, id uint) error
}

type RecycleBinController struct {
	bin RecycleBin
}

func NewRecycleBinController(bin RecycleBin) *RecycleBinController {
	return &RecycleBinController{bin: bin}
}

func parseItemType(raw string) (services.RecycleItemType, bool) {
	switch services.RecycleItemType(raw) {
	case services.RecycleItemLink:
		return services.RecycleItemLink, true
	case services.RecycleItemFolder:
		return services.RecycleItemFolder, true
	}
	return "", false
}

// List отдает страницу корзины. Без параметра type ссылки и папки идут
// вперемешку по убыванию времени удаления.
func (r *RecycleBinController) List(ctx *gin.Context) {
	var itemType services.RecycleItemType
	if raw := ctx.Query("type"); raw != "" {
		parsed, ok := parseItemType(raw)
		if !ok {
			respondError(ctx, http.StatusBadRequest, "type must be link or folder")
			return
		}
		itemType = parsed
	}

	page, limit := queryPagination(ctx)
	items, total, err := r.bin.List(ctx, middlewares.CurrentUserID(ctx), itemType, page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, listEnvelope(items, total, page, limit))
}

type recycleItemRequest struct {
	ID   uint   `json:"id" binding:"required"`
	Type string `json:"type" binding:"required"`
}

func (r *RecycleBinController) Restore(ctx *gin.Context) {
	var req recycleItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}
	itemType, ok := parseItemType(req.Type)
	if !ok {
		respondError(ctx, http.StatusBadRequest, "type must be link or folder")
		return
	}

	if err := r.bin.Restore(ctx, middlewares.CurrentUserID(ctx), itemType, req.ID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (r *RecycleBinController) Purge(ctx *gin.Context) {
	var req recycleItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}
	itemType, ok := parseItemType(req.Type)
	if !ok {
		respondError(ctx, http.StatusBadRequest, "type must be link or folder")
		return
	}

	if err := r.bin.Purge(ctx, middlewares.CurrentUserID(ctx), itemType, req.ID); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
