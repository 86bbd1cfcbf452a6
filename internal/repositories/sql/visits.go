package sql

import (
	"context"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BreakdownField разрез категориальной аналитики. Значения замкнуты на
// имена колонок, произвольная строка в SQL не попадает.
type BreakdownField string

const (
	BreakdownDevice   BreakdownField = "device"
	BreakdownReferrer BreakdownField = "referrer"
	BreakdownCountry  BreakdownField = "country"
	BreakdownCity     BreakdownField = "city"
)

// TopLink строка админского топа ссылок по числу переходов.
type TopLink struct {
	LinkID          uint   `json:"linkID"`
	ShortIdentifier string `json:"shortIdentifier"`
	Title           string `json:"title"`
	Count           int64  `json:"count"`
}

type VisitsRepo struct {
	db     *gorm.DB
	logger *logrus.Entry
}

func NewVisitsRepo(db *gorm.DB, logger *logrus.Logger) *VisitsRepo {
	return &VisitsRepo{
		db:     db,
		logger: logger.WithField("module", "repository/sql/visits"),
	}
}

func (r *VisitsRepo) Create(ctx context.Context, visit *models.Visit) error {
	if err := r.db.WithContext(ctx).Create(visit).Error; err != nil {
		r.logger.WithError(err).Errorf("failed to create visit for link %d", visit.LinkID)
		return repositories.ErrUnknown
	}
	return nil
}

func (r *VisitsRepo) rangeScope(q *gorm.DB, dr repositories.DateRange) *gorm.DB {
	if dr.From != nil {
		q = q.Where("created_at >= ?", *dr.From)
	}
	if dr.To != nil {
		q = q.Where("created_at <= ?", *dr.To)
	}
	return q
}

func (r *VisitsRepo) CountByLink(ctx context.Context, linkID uint, dr repositories.DateRange) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Visit{}).Where("link_id = ?", linkID)
	if err := r.rangeScope(q, dr).Count(&count).Error; err != nil {
		r.logger.WithError(err).Errorf("failed to count visits of link %d", linkID)
		return 0, repositories.ErrUnknown
	}
	return count, nil
}

// Breakdown возвращает топ-N значений разреза с количеством переходов.
func (r *VisitsRepo) Breakdown(
	ctx context.Context,
	linkID uint,
	field BreakdownField,
	dr repositories.DateRange,
	topN int,
) ([]repositories.FieldCount, error) {
	var column string
	switch field {
	case BreakdownDevice:
		column = "device"
	case BreakdownReferrer:
		column = "referrer"
	case BreakdownCountry:
		column = "country"
	case BreakdownCity:
		column = "city"
	default:
		return nil, repositories.ErrUnknown
	}

	var rows []repositories.FieldCount
	q := r.db.WithContext(ctx).Model(&models.Visit{}).
		Select(column+" AS value, COUNT(*) AS count").
		Where("link_id = ?", linkID)
	err := r.rangeScope(q, dr).
		Group(column).
		Order("count DESC").
		Limit(topN).
		Scan(&rows).Error
	if err != nil {
		r.logger.WithError(err).Errorf("failed to build %s breakdown for link %d", field, linkID)
		return nil, repositories.ErrUnknown
	}
	return rows, nil
}

// Series строит временную серию переходов. Недельные корзины начинаются
// с понедельника, формат корзины — дата начала (для месячных YYYY-MM).
func (r *VisitsRepo) Series(
	ctx context.Context,
	linkID uint,
	interval repositories.BucketInterval,
	dr repositories.DateRange,
) ([]repositories.SeriesPoint, error) {
	var bucketExpr string
	switch interval {
	case repositories.BucketWeekly:
		bucketExpr = "strftime('%Y-%m-%d', created_at, 'weekday 0', '-6 days')"
	case repositories.BucketMonthly:
		bucketExpr = "strftime('%Y-%m', created_at)"
	default:
		bucketExpr = "strftime('%Y-%m-%d', created_at)"
	}

	var points []repositories.SeriesPoint
	q := r.db.WithContext(ctx).Model(&models.Visit{}).
		Select(bucketExpr + " AS bucket, COUNT(*) AS count").
		Where("link_id = ?", linkID)
	err := r.rangeScope(q, dr).
		Group("bucket").
		Order("bucket").
		Scan(&points).Error
	if err != nil {
		r.logger.WithError(err).Errorf("failed to build visit series for link %d", linkID)
		return nil, repositories.ErrUnknown
	}
	return points, nil
}

// History возвращает страницу переходов, новые сверху.
func (r *VisitsRepo) History(ctx context.Context, linkID uint, page, limit int) ([]models.Visit, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Visit{}).Where("link_id = ?", linkID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		r.logger.WithError(err).Errorf("failed to count visits of link %d", linkID)
		return nil, 0, repositories.ErrUnknown
	}

	var visits []models.Visit
	err := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&visits).Error
	if err != nil {
		r.logger.WithError(err).Errorf("failed to list visits of link %d", linkID)
		return nil, 0, repositories.ErrUnknown
	}
	return visits, total, nil
}

func (r *VisitsRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Visit{}).Count(&count).Error; err != nil {
		r.logger.WithError(err).Error("failed to count visits")
		return 0, repositories.ErrUnknown
	}
	return count, nil
}

// TopLinks возвращает ссылки с наибольшим числом переходов.
func (r *VisitsRepo) TopLinks(ctx context.Context, limit int) ([]TopLink, error) {
	var rows []TopLink
	err := r.db.WithContext(ctx).Model(&models.Visit{}).
		Select(`visits.link_id AS link_id,
			links.short_identifier AS short_identifier,
			links.title AS title,
			COUNT(*) AS count`).
		Joins("JOIN links ON links.id = visits.link_id AND links.is_deleted = 0").
		Group("visits.link_id, links.short_identifier, links.title").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		r.logger.WithError(err).Error("failed to build top links")
		return nil, repositories.ErrUnknown
	}
	return rows, nil
}

// DeleteByLinkIDs удаляет переходы перечисленных ссылок. Используется
// каскадом удаления аккаунта.
func (r *VisitsRepo) DeleteByLinkIDs(ctx context.Context, linkIDs []uint) error {
	if len(linkIDs) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("link_id IN ?", linkIDs).Delete(&models.Visit{}).Error; err != nil {
		r.logger.WithError(err).Error("failed to delete visits by link ids")
		return repositories.ErrUnknown
	}
	return nil
}
