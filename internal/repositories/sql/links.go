package sql

import (
	"context"
	"time"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type LinksRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewLinksRepo(db *gorm.DB, logger *logrus.Logger) *LinksRepo {
	return &LinksRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/links"),
	}
}

func (r *LinksRepo) Create(ctx context.Context, link *models.Link) error {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			r.logger.WithError(err).Errorf("failed to create link %+v", *link)
		}
		return convErr
	}
	return nil
}

// GetByShortIdentifier ищет ссылку по идентификатору без учета регистра,
// включая мягко удаленные записи. Используется диспетчером редиректов.
func (r *LinksRepo) GetByShortIdentifier(ctx context.Context, shortID string) (*models.Link, error) {
	var link models.Link
	err := r.db.WithContext(ctx).
		Where("short_identifier = ? COLLATE NOCASE", shortID).
		First(&link).Error
	if err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			r.logger.WithError(err).Errorf("failed to get link by short identifier %s", shortID)
		}
		return nil, convErr
	}
	return &link, nil
}

// ExistsShortIdentifier проверяет занятость идентификатора без учета
// регистра среди всех записей. excludeID исключает текущую запись при
// переименовании алиаса.
func (r *LinksRepo) ExistsShortIdentifier(ctx context.Context, shortID string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Link{}).
		Where("short_identifier = ? COLLATE NOCASE", shortID)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		r.logger.WithError(err).Errorf("failed to check short identifier %s", shortID)
		return false, repositories.ErrUnknown
	}
	return count > 0, nil
}

// GetOwned возвращает ссылку по ID в рамках владельца.
func (r *LinksRepo) GetOwned(ctx context.Context, id, userID uint) (*models.Link, error) {
	var link models.Link
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&link).Error
	if err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			r.logger.WithError(err).Errorf("failed to get link %d", id)
		}
		return nil, convErr
	}
	return &link, nil
}

func (r *LinksRepo) Update(ctx context.Context, link *models.Link) error {
	// Save с картой не работает для обнуляемых полей, поэтому пишем всю
	// структуру целиком: частичность обновления решается в сервисном слое.
	if err := r.db.WithContext(ctx).Save(link).Error; err != nil {
		convErr := convertErrorType(err)
		if errors.Is(convErr, repositories.ErrUnknown) {
			r.logger.WithError(err).Errorf("failed to update link %d", link.ID)
		}
		return convErr
	}
	return nil
}

func (r *LinksRepo) List(ctx context.Context, f repositories.ListLinksFilter) ([]models.Link, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Link{}).
		Where("user_id = ? AND is_deleted = ?", f.UserID, false)

	if f.FolderID != nil {
		q = q.Where("folder_id = ?", *f.FolderID)
	}
	switch f.Status {
	case repositories.LinkStatusActive:
		q = q.Where("is_active = ?", true).
			Where("expires_at IS NULL OR expires_at > ?", time.Now())
	case repositories.LinkStatusInactive:
		q = q.Where("is_active = ?", false)
	case repositories.LinkStatusExpired:
		q = q.Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now())
	}
	if f.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("created_at <= ?", *f.CreatedTo)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(
			"title LIKE ? OR short_identifier LIKE ? OR destination LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.logger.WithError(err).Error("failed to count links")
		return nil, 0, repositories.ErrUnknown
	}

	var links []models.Link
	err := q.Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&links).Error
	if err != nil {
		r.logger.WithError(err).Error("failed to list links")
		return nil, 0, repositories.ErrUnknown
	}
	return links, total, nil
}

// ListDeleted возвращает мягко удаленные ссылки владельца для корзины.
func (r *LinksRepo) ListDeleted(ctx context.Context, userID uint, page, limit int) ([]models.Link, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Link{}).
		Where("user_id = ? AND is_deleted = ?", userID, true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.logger.WithError(err).Error("failed to count deleted links")
		return nil, 0, repositories.ErrUnknown
	}

	var links []models.Link
	err := q.Order("deleted_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&links).Error
	if err != nil {
		r.logger.WithError(err).Error("failed to list deleted links")
		return nil, 0, repositories.ErrUnknown
	}
	return links, total, nil
}

func (r *LinksRepo) HardDelete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Link{}, id)
	if res.Error != nil {
		r.logger.WithError(res.Error).Errorf("failed to hard delete link %d", id)
		return repositories.ErrUnknown
	}
	if res.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ClearFolderRefs снимает привязку к папке со всех не удаленных ссылок
// владельца. Возвращает количество измененных записей.
func (r *LinksRepo) ClearFolderRefs(ctx context.Context, folderID, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Link{}).
		Where("folder_id = ? AND user_id = ? AND is_deleted = ?", folderID, userID, false).
		Update("folder_id", nil)
	if res.Error != nil {
		r.logger.WithError(res.Error).Errorf("failed to clear folder refs for folder %d", folderID)
		return 0, repositories.ErrUnknown
	}
	return res.RowsAffected, nil
}

// ClearFolderRefsByIDs снимает привязку только с перечисленных ссылок,
// при условии что они принадлежат папке и владельцу и не удалены.
func (r *LinksRepo) ClearFolderRefsByIDs(ctx context.Context, folderID, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&models.Link{}).
		Where("id IN ? AND folder_id = ? AND user_id = ? AND is_deleted = ?", ids, folderID, userID, false).
		Update("folder_id", nil)
	if res.Error != nil {
		r.logger.WithError(res.Error).Errorf("failed to unlink urls from folder %d", folderID)
		return 0, repositories.ErrUnknown
	}
	return res.RowsAffected, nil
}

// CountByFolder считает не удаленные ссылки в папке.
func (r *LinksRepo) CountByFolder(ctx context.Context, folderID, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Link{}).
		Where("folder_id = ? AND user_id = ? AND is_deleted = ?", folderID, userID, false).
		Count(&count).Error
	if err != nil {
		r.logger.WithError(err).Errorf("failed to count links in folder %d", folderID)
		return 0, repositories.ErrUnknown
	}
	return count, nil
}

// DeleteByUser удаляет все ссылки пользователя. Используется каскадом
// удаления аккаунта; шаг идемпотентен.
func (r *LinksRepo) DeleteByUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Link{}).Error; err != nil {
		r.logger.WithError(err).Errorf("failed to delete links of user %d", userID)
		return repositories.ErrUnknown
	}
	return nil
}

// IDsByUser возвращает идентификаторы всех ссылок пользователя.
func (r *LinksRepo) IDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Link{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error
	if err != nil {
		r.logger.WithError(err).Errorf("failed to get link ids of user %d", userID)
		return nil, repositories.ErrUnknown
	}
	return ids, nil
}

// ShortIdentifiersByUser возвращает короткие идентификаторы всех ссылок
// пользователя. Используется каскадом удаления аккаунта для инвалидации
// кеша редиректов.
func (r *LinksRepo) ShortIdentifiersByUser(ctx context.Context, userID uint) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Link{}).
		Where("user_id = ?", userID).
		Pluck("short_identifier", &ids).Error
	if err != nil {
		r.logger.WithError(err).Errorf("failed to get link identifiers of user %d", userID)
		return nil, repositories.ErrUnknown
	}
	return ids, nil
}

// Count общее число не удаленных ссылок. Используется админской статистикой.
func (r *LinksRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Link{}).
		Where("is_deleted = ?", false).
		Count(&count).Error
	if err != nil {
		r.logger.WithError(err).Error("failed to count links")
		return 0, repositories.ErrUnknown
	}
	return count, nil
}

// CreatedSeries считает созданные ссылки по дням за trailing-окно.
func (r *LinksRepo) CreatedSeries(ctx context.Context, since time.Time) ([]repositories.SeriesPoint, error) {
	var points []repositories.SeriesPoint
	err := r.db.WithContext(ctx).Model(&models.Link{}).
		Select("strftime('%Y-%m-%d', created_at) AS bucket, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("bucket").
		Order("bucket").
		Scan(&points).Error
	if err != nil {
		r.logger.WithError(err).Error("failed to build created links series")
		return nil, repositories.ErrUnknown
	}
	return points, nil
}
