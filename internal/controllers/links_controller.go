package controllers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fsdevblog/shortkeep/internal/controllers/middlewares"
	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/gin-gonic/gin"
)

// LinkManager операции жизненного цикла ссылок.
type LinkManager interface {
	Create(ctx context.Context, p services.CreateLinkParams) (*models.Link, error)
	Get(ctx context.Context, id, userID uint) (*models.Link, error)
	Update(ctx context.Context, id, userID uint, p services.UpdateLinkParams) (*models.Link, error)
	ToggleActive(ctx context.Context, id, userID uint) (*models.Link, error)
	SoftDelete(ctx context.Context, id, userID uint) error
	Restore(ctx context.Context, id, userID uint) (*models.Link, error)
	PermanentDelete(ctx context.Context, id, userID uint) error
	List(ctx context.Context, f repositories.ListLinksFilter) ([]models.Link, int64, error)
}

type LinksController struct {
	links   LinkManager
	baseURL *url.URL
}

func NewLinksController(links LinkManager, baseURL *url.URL) *LinksController {
	return &LinksController{links: links, baseURL: baseURL}
}

// withShortURL дополняет ссылку публичным адресом перехода.
func (l *LinksController) withShortURL(link *models.Link) *models.Link {
	if l.baseURL != nil {
		link.ShortURL = fmt.Sprintf("%s/%s", l.baseURL.String(), link.ShortIdentifier)
	}
	return link
}

type createLinkRequest struct {
	Title       string     `json:"title"`
	Destination string     `json:"destination" binding:"required"`
	CustomAlias string     `json:"customAlias"`
	FolderID    *uint      `json:"folderID"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

func (l *LinksController) Create(ctx *gin.Context) {
	var req createLinkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}

	link, err := l.links.Create(ctx, services.CreateLinkParams{
		UserID:      middlewares.CurrentUserID(ctx),
		Title:       req.Title,
		Destination: req.Destination,
		CustomAlias: req.CustomAlias,
		FolderID:    req.FolderID,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, l.withShortURL(link))
}

func (l *LinksController) Get(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	link, err := l.links.Get(ctx, id, middlewares.CurrentUserID(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, l.withShortURL(link))
}

func (l *LinksController) Update(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var params services.UpdateLinkParams
	if err := ctx.ShouldBindJSON(&params); err != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}

	link, err := l.links.Update(ctx, id, middlewares.CurrentUserID(ctx), params)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, l.withShortURL(link))
}

func (l *LinksController) ToggleActive(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	link, err := l.links.ToggleActive(ctx, id, middlewares.CurrentUserID(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, l.withShortURL(link))
}

func (l *LinksController) SoftDelete(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := l.links.SoftDelete(ctx, id, middlewares.CurrentUserID(ctx)); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (l *LinksController) Restore(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	link, err := l.links.Restore(ctx, id, middlewares.CurrentUserID(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, l.withShortURL(link))
}

func (l *LinksController) PermanentDelete(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := l.links.PermanentDelete(ctx, id, middlewares.CurrentUserID(ctx)); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (l *LinksController) List(ctx *gin.Context) {
	page, limit := queryPagination(ctx)
	filter := repositories.ListLinksFilter{
		UserID: middlewares.CurrentUserID(ctx),
		Status: repositories.LinkStatus(ctx.Query("status")),
		Search: ctx.Query("search"),
		Page:   page,
		Limit:  limit,
	}

	if rawFolder := ctx.Query("folderID"); rawFolder != "" {
		folderID, err := strconv.ParseUint(rawFolder, 10, 32)
		if err != nil {
			respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
			return
		}
		fid := uint(folderID)
		filter.FolderID = &fid
	}

	dr, drErr := queryDateRange(ctx)
	if drErr != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}
	filter.CreatedFrom = dr.From
	filter.CreatedTo = dr.To

	links, total, err := l.links.List(ctx, filter)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	for i := range links {
		l.withShortURL(&links[i])
	}
	ctx.JSON(http.StatusOK, listEnvelope(links, total, page, limit))
}
