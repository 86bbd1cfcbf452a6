package controllers

import (
	"context"
	"net/http"

	"github.com/fsdevblog/shortkeep/internal/controllers/middlewares"
	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/gin-gonic/gin"
)

// FolderManager операции жизненного цикла папок.
type FolderManager interface {
	Create(ctx context.Context, userID uint, name, description string) (*models.Folder, error)
	Get(ctx context.Context, id, userID uint) (*models.Folder, error)
	List(ctx context.Context, userID uint) ([]models.Folder, error)
	Update(ctx context.Context, id, userID uint, p services.UpdateFolderParams) (*models.Folder, error)
	SoftDelete(ctx context.Context, id, userID uint) (int64, error)
	Restore(ctx context.Context, id, userID uint) (*models.Folder, error)
	PermanentDelete(ctx context.Context, id, userID uint) error
	RemoveURLs(ctx context.Context, id, userID uint, linkIDs []uint) (int64, error)
}

type FoldersController struct {
	folders FolderManager
}

func NewFoldersController(folders FolderManager) *FoldersController {
	return &FoldersController{folders: folders}
}

type createFolderRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (f *FoldersController) Create(ctx *gin.Context) {
	var req createFolderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}

	folder, err := f.folders.Create(ctx, middlewares.CurrentUserID(ctx), req.Name, req.Description)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, folder)
}

func (f *FoldersController) Get(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	folder, err := f.folders.Get(ctx, id, middlewares.CurrentUserID(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, folder)
}

func (f *FoldersController) List(ctx *gin.Context) {
	folders, err := f.folders.List(ctx, middlewares.CurrentUserID(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"items": folders})
}

func (f *FoldersController) Update(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var params services.UpdateFolderParams
	if err := ctx.ShouldBindJSON(&params); err != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}

	folder, err := f.folders.Update(ctx, id, middlewares.CurrentUserID(ctx), params)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, folder)
}

// SoftDelete помечает папку удаленной. В ответе число осиротевших ссылок.
func (f *FoldersController) SoftDelete(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	orphaned, err := f.folders.SoftDelete(ctx, id, middlewares.CurrentUserID(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"orphaned": orphaned})
}

func (f *FoldersController) Restore(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	folder, err := f.folders.Restore(ctx, id, middlewares.CurrentUserID(ctx))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, folder)
}

func (f *FoldersController) PermanentDelete(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	if err := f.folders.PermanentDelete(ctx, id, middlewares.CurrentUserID(ctx)); err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

type removeURLsRequest struct {
	LinkIDs []uint `json:"linkIDs" binding:"required"`
}

// RemoveURLs отвязывает перечисленные ссылки от папки. В ответе число
// реально отвязанных — оно может быть меньше размера запроса.
func (f *FoldersController) RemoveURLs(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	var req removeURLsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondError(ctx, http.StatusBadRequest, ErrBadRequest.Error())
		return
	}

	removed, err := f.folders.RemoveURLs(ctx, id, middlewares.CurrentUserID(ctx), req.LinkIDs)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"removed": removed})
}
