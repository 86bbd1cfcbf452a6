package services

import (
	"context"
	"time"

	"github.com/fsdevblog/shortkeep/internal/repositories"
	sqlrepo "github.com/fsdevblog/shortkeep/internal/repositories/sql"
)

// statsWindow trailing-окно серии созданных ссылок.
const statsWindow = 30 * 24 * time.Hour

// topLinksN размер админского топа ссылок.
const topLinksN = 10

// Counter счетчик записей коллекции.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// LinkSeriesReader серия созданных ссылок по дням.
type LinkSeriesReader interface {
	CreatedSeries(ctx context.Context, since time.Time) ([]repositories.SeriesPoint, error)
}

// TopLinksReader топ ссылок по числу переходов.
type TopLinksReader interface {
	TopLinks(ctx context.Context, limit int) ([]sqlrepo.TopLink, error)
}

// SystemStats агрегатная статистика по всей системе. Админская поверхность.
type SystemStats struct {
	TotalUsers   int64                      `json:"totalUsers"`
	TotalLinks   int64                      `json:"totalLinks"`
	TotalVisits  int64                      `json:"totalVisits"`
	LinksPerDay  []repositories.SeriesPoint `json:"linksPerDay"`
	TopLinks     []sqlrepo.TopLink          `json:"topLinks"`
	GeneratedAt  time.Time                  `json:"generatedAt"`
}

// StatsService собирает агрегатную статистику для роли admin.
type StatsService struct {
	users      Counter
	links      Counter
	visits     Counter
	linkSeries LinkSeriesReader
	topLinks   TopLinksReader
}

func NewStatsService(
	users, links, visits Counter,
	linkSeries LinkSeriesReader,
	topLinks TopLinksReader,
) *StatsService {
	return &StatsService{
		users:      users,
		links:      links,
		visits:     visits,
		linkSeries: linkSeries,
		topLinks:   topLinks,
	}
}

func (s *StatsService) Collect(ctx context.Context) (*SystemStats, error) {
	stats := SystemStats{GeneratedAt: time.Now()}

	var err error
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, ErrUnknown
	}
	if stats.TotalLinks, err = s.links.Count(ctx); err != nil {
		return nil, ErrUnknown
	}
	if stats.TotalVisits, err = s.visits.Count(ctx); err != nil {
		return nil, ErrUnknown
	}
	if stats.LinksPerDay, err = s.linkSeries.CreatedSeries(ctx, time.Now().Add(-statsWindow)); err != nil {
		return nil, ErrUnknown
	}
	if stats.TopLinks, err = s.topLinks.TopLinks(ctx, topLinksN); err != nil {
		return nil, ErrUnknown
	}
	return &stats, nil
}
