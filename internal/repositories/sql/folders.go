package sql

import (
	"context"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type FoldersRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewFoldersRepo(db *gorm.DB, logger *logrus.Logger) *FoldersRepo {
	return &FoldersRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/folders"),
	}
}

func (r *FoldersRepo) Create(ctx context.Context, folder *models.Folder) error {
	if err := r.db.WithContext(ctx).Create(folder).Error; err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			r.logger.WithError(err).Errorf("failed to create folder %+v", *folder)
		}
		return convErr
	}
	return nil
}

func (r *FoldersRepo) GetOwned(ctx context.Context, id, userID uint) (*models.Folder, error) {
	var folder models.Folder
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&folder).Error
	if err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			r.logger.WithError(err).Errorf("failed to get folder %d", id)
		}
		return nil, convErr
	}
	return &folder, nil
}

// ExistsName проверяет занятость имени папки у владельца без учета регистра
// среди не удаленных записей. excludeID исключает текущую запись.
func (r *FoldersRepo) ExistsName(ctx context.Context, userID uint, name string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Folder{}).
		Where("user_id = ? AND name = ? COLLATE NOCASE AND is_deleted = ?", userID, name, false)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		r.logger.WithError(err).Errorf("failed to check folder name %s", name)
		return false, repositories.ErrUnknown
	}
	return count > 0, nil
}

// List возвращает не удаленные папки владельца вместе с количеством живых
// ссылок в каждой.
func (r *FoldersRepo) List(ctx context.Context, userID uint) ([]models.Folder, error) {
	var folders []models.Folder
	err := r.db.WithContext(ctx).
		Model(&models.Folder{}).
		Select(`folders.*, (
			SELECT COUNT(*) FROM links
			WHERE links.folder_id = folders.id AND links.is_deleted = 0
		) AS links_count`).
		Where("folders.user_id = ? AND folders.is_deleted = ?", userID, false).
		Order("folders.created_at DESC").
		Find(&folders).Error
	if err != nil {
		r.logger.WithError(err).Error("failed to list folders")
		return nil, repositories.ErrUnknown
	}
	return folders, nil
}

func (r *FoldersRepo) Update(ctx context.Context, folder *models.Folder) error {
	if err := r.db.WithContext(ctx).Save(folder).Error; err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			r.logger.WithError(err).Errorf("failed to update folder %d", folder.ID)
		}
		return convErr
	}
	return nil
}

func (r *FoldersRepo) ListDeleted(ctx context.Context, userID uint, page, limit int) ([]models.Folder, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Folder{}).
		Where("user_id = ? AND is_deleted = ?", userID, true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.logger.WithError(err).Error("failed to count deleted folders")
		return nil, 0, repositories.ErrUnknown
	}

	var folders []models.Folder
	err := q.Order("deleted_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&folders).Error
	if err != nil {
		r.logger.WithError(err).Error("failed to list deleted folders")
		return nil, 0, repositories.ErrUnknown
	}
	return folders, total, nil
}

func (r *FoldersRepo) HardDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Folder{}, id)
	if res.Error != nil {
		r.logger.WithError(res.Error).Errorf("failed to hard delete folder %d", id)
		return repositories.ErrUnknown
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *FoldersRepo) DeleteByUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Folder{}).Error; err != nil {
		r.logger.WithError(err).Errorf("failed to delete folders of user %d", userID)
		return repositories.ErrUnknown
	}
	return nil
}
