package services

import (
	"context"
	"net/url"
	"time"

	"github.com/fsdevblog/shortkeep/internal/cache"
	"github.com/fsdevblog/shortkeep/internal/clientinfo"
	"github.com/fsdevblog/shortkeep/internal/geoip"
	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/repositories"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// LinkResolver поиск ссылки по идентификатору для редиректа.
type LinkResolver interface {
	GetByShortIdentifier(ctx context.Context, shortID string) (*models.Link, error)
}

// VisitWriter запись перехода.
type VisitWriter interface {
	Create(ctx context.Context, visit *models.Visit) error
}

// ResolvedCache кеш успешных разрешений редиректа.
type ResolvedCache interface {
	Get(ctx context.Context, shortID string) (*cache.ResolvedLink, error)
	Set(ctx context.Context, shortID string, resolved cache.ResolvedLink) error
}

// GeoResolver определение страны и города по IP. Сбои гасятся внутри.
type GeoResolver interface {
	Lookup(ip string) geoip.Location
}

// VisitMeta сырые метаданные посетителя, снятые с HTTP запроса.
type VisitMeta struct {
	IP        string
	UserAgent string
	Referrer  string
}

// RedirectService разрешает идентификатор в адрес назначения по политике:
// не найдена или мягко удалена → ErrRecordNotFound; выключена →
// ErrLinkInactive; просрочена → ErrLinkExpired; назначение не http(s) →
// ErrBadDestination. Ветки терминальны и проверяются строго в этом порядке.
type RedirectService struct {
	links  LinkResolver
	visits VisitWriter
	cache  ResolvedCache
	geo    GeoResolver
	logger *logrus.Entry
}

func NewRedirectService(
	links LinkResolver,
	visits VisitWriter,
	resolvedCache ResolvedCache,
	geo GeoResolver,
	logger *logrus.Logger,
) *RedirectService {
	return &RedirectService{
		links:  links,
		visits: visits,
		cache:  resolvedCache,
		geo:    geo,
		logger: logger.WithField("module", "service/redirect"),
	}
}

// Resolve возвращает результат разрешения идентификатора. Кеш опрашивается
// до базы; кладутся в него только полностью прошедшие политику ссылки,
// поэтому попадание не требует повторных проверок.
func (s *RedirectService) Resolve(ctx context.Context, shortID string) (*cache.ResolvedLink, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, shortID); err == nil {
			return cached, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			s.logger.WithError(err).Warn("redirect cache read failed")
		}
	}

	link, err := s.links.GetByShortIdentifier(ctx, shortID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, ErrUnknown
	}

	switch {
	case link.IsDeleted:
		return nil, ErrRecordNotFound
	case !link.IsActive:
		return nil, ErrLinkInactive
	case link.IsExpired(time.Now()):
		return nil, ErrLinkExpired
	}

	if !isHTTPDestination(link.Destination) {
		return nil, ErrBadDestination
	}

	resolved := cache.ResolvedLink{LinkID: link.ID, Destination: link.Destination}
	if s.cache != nil {
		// Ссылка с ближайшим сроком жизни в кеш не кладется, чтобы
		// просроченный адрес не выдавался до конца TTL.
		if link.ExpiresAt == nil {
			if cacheErr := s.cache.Set(ctx, shortID, resolved); cacheErr != nil {
				s.logger.WithError(cacheErr).Warn("redirect cache write failed")
			}
		}
	}
	return &resolved, nil
}

// RecordVisit пишет запись перехода. Вызывается после отправки редиректа
// в отдельной горутине: сбой записи логируется и никогда не влияет на
// ответ посетителю.
func (s *RedirectService) RecordVisit(ctx context.Context, linkID uint, meta VisitMeta) {
	location := geoip.Location{}
	if s.geo != nil {
		location = s.geo.Lookup(meta.IP)
	}

	visit := models.Visit{
		UUID:      uuid.NewString(),
		LinkID:    linkID,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Device:    clientinfo.DetectDevice(meta.UserAgent),
		Referrer:  clientinfo.ReferrerOrigin(meta.Referrer),
		Country:   location.Country,
		City:      location.City,
	}
	if err := s.visits.Create(ctx, &visit); err != nil {
		s.logger.WithError(err).Errorf("failed to record visit for link %d", linkID)
	}
}

func isHTTPDestination(destination string) bool {
	parsed, err := url.Parse(destination)
	if err != nil {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}
