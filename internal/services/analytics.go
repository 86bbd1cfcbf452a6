package services

import (
	"context"
	"io"
	"time"

	"github.com/fsdevblog/shortkeep/internal/clientinfo"
	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	sqlrepo "github.com/fsdevblog/shortkeep/internal/repositories/sql"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// topBreakdownN размер топа категориальных разбивок.
const topBreakdownN = 10

// exportLimit потолок строк выгрузки истории переходов.
const exportLimit = 10000

// VisitsRepository хранилище переходов для агрегатора.
type VisitsRepository interface {
	CountByLink(ctx context.Context, linkID uint, dr repositories.DateRange) (int64, error)
	Breakdown(ctx context.Context, linkID uint, field sqlrepo.BreakdownField, dr repositories.DateRange, topN int) ([]repositories.FieldCount, error)
	Series(ctx context.Context, linkID uint, interval repositories.BucketInterval, dr repositories.DateRange) ([]repositories.SeriesPoint, error)
	History(ctx context.Context, linkID uint, page, limit int) ([]models.Visit, int64, error)
}

// LinkOwnershipReader проверка принадлежности ссылки вызывающему.
type LinkOwnershipReader interface {
	GetOwned(ctx context.Context, id, userID uint) (*models.Link, error)
}

// BreakdownRow строка категориальной разбивки с долей от общего числа.
type BreakdownRow struct {
	Value      string `json:"value"`
	Count      int64  `json:"count"`
	Percentage int    `json:"percentage"`
}

// Overview сводка аналитики ссылки.
type Overview struct {
	Total     int64          `json:"total"`
	Devices   []BreakdownRow `json:"devices"`
	Referrers []BreakdownRow `json:"referrers"`
	Countries []BreakdownRow `json:"countries"`
	Cities    []BreakdownRow `json:"cities"`
}

// VisitEntry запись истории переходов для выдачи наружу. IP всегда
// замаскирован, сырое значение из этого слоя не выходит.
type VisitEntry struct {
	UUID      string             `json:"UUID" csv:"uuid"`
	CreatedAt time.Time          `json:"createdAt" csv:"created_at"`
	MaskedIP  string             `json:"maskedIP" csv:"masked_ip"`
	Device    models.DeviceClass `json:"device" csv:"device"`
	UserAgent string             `json:"userAgent" csv:"user_agent"`
	Referrer  string             `json:"referrer" csv:"referrer"`
	Country   string             `json:"country" csv:"country"`
	City      string             `json:"city" csv:"city"`
}

// AnalyticsService агрегирует переходы принадлежащей вызывающему ссылки:
// счетчики, временные серии, категориальные разбивки, история.
type AnalyticsService struct {
	links  LinkOwnershipReader
	visits VisitsRepository
}

func NewAnalyticsService(links LinkOwnershipReader, visits VisitsRepository) *AnalyticsService {
	return &AnalyticsService{links: links, visits: visits}
}

func (s *AnalyticsService) Overview(ctx context.Context, linkID, userID uint, dr repositories.DateRange) (*Overview, error) {
	if err := s.checkOwnership(ctx, linkID, userID); err != nil {
		return nil, err
	}

	total, totalErr := s.visits.CountByLink(ctx, linkID, dr)
	if totalErr != nil {
		return nil, ErrUnknown
	}

	overview := Overview{Total: total}
	fields := []struct {
		field sqlrepo.BreakdownField
		dst   *[]BreakdownRow
	}{
		{sqlrepo.BreakdownDevice, &overview.Devices},
		{sqlrepo.BreakdownReferrer, &overview.Referrers},
		{sqlrepo.BreakdownCountry, &overview.Countries},
		{sqlrepo.BreakdownCity, &overview.Cities},
	}
	for _, f := range fields {
		rows, err := s.visits.Breakdown(ctx, linkID, f.field, dr, topBreakdownN)
		if err != nil {
			return nil, ErrUnknown
		}
		*f.dst = withPercentages(rows, total)
	}
	return &overview, nil
}

func (s *AnalyticsService) Series(
	ctx context.Context,
	linkID, userID uint,
	interval repositories.BucketInterval,
	dr repositories.DateRange,
) ([]repositories.SeriesPoint, error) {
	if err := s.checkOwnership(ctx, linkID, userID); err != nil {
		return nil, err
	}
	points, err := s.visits.Series(ctx, linkID, interval, dr)
	if err != nil {
		return nil, ErrUnknown
	}
	return points, nil
}

func (s *AnalyticsService) History(ctx context.Context, linkID, userID uint, page, limit int) ([]VisitEntry, int64, error) {
	if err := s.checkOwnership(ctx, linkID, userID); err != nil {
		return nil, 0, err
	}
	page, limit = ClampPagination(page, limit)
	visits, total, err := s.visits.History(ctx, linkID, page, limit)
	if err != nil {
		return nil, 0, ErrUnknown
	}
	return toVisitEntries(visits), total, nil
}

// ExportCSV выгружает историю переходов в CSV.
func (s *AnalyticsService) ExportCSV(ctx context.Context, linkID, userID uint, w io.Writer) error {
	if err := s.checkOwnership(ctx, linkID, userID); err != nil {
		return err
	}
	visits, _, err := s.visits.History(ctx, linkID, 1, exportLimit)
	if err != nil {
		return ErrUnknown
	}
	if csvErr := gocsv.Marshal(toVisitEntries(visits), w); csvErr != nil {
		return errors.Wrap(ErrUnknown, "marshal visits csv")
	}
	return nil
}

func (s *AnalyticsService) checkOwnership(ctx context.Context, linkID, userID uint) error {
	if _, err := s.links.GetOwned(ctx, linkID, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRecordNotFound
		}
		return ErrUnknown
	}
	return nil
}

// withPercentages дополняет разбивку долей от total. Доля округляется
// вниз: сумма долей по разбивке не превышает 100. Ноль при нулевом total.
func withPercentages(rows []repositories.FieldCount, total int64) []BreakdownRow {
	out := make([]BreakdownRow, 0, len(rows))
	for _, row := range rows {
		var pct int
		if total > 0 {
			pct = int(row.Count * 100 / total)
		}
		value := row.Value
		if value == "" {
			value = "unknown"
		}
		out = append(out, BreakdownRow{Value: value, Count: row.Count, Percentage: pct})
	}
	return out
}

func toVisitEntries(visits []models.Visit) []VisitEntry {
	entries := make([]VisitEntry, 0, len(visits))
	for _, v := range visits {
		entries = append(entries, VisitEntry{
			UUID:      v.UUID,
			CreatedAt: v.CreatedAt,
			MaskedIP:  clientinfo.MaskIP(v.IP),
			Device:    v.Device,
			UserAgent: v.UserAgent,
			Referrer:  v.Referrer,
			Country:   v.Country,
			City:      v.City,
		})
	}
	return entries
}
