package services

import (
	"context"
	"fmt"

	"github.com/fsdevblog/shortkeep/internal/cache"
	"github.com/fsdevblog/shortkeep/internal/geoip"
	"github.com/fsdevblog/shortkeep/internal/models"
	sqlrepo "github.com/fsdevblog/shortkeep/internal/repositories/sql"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Services сервисный слой приложения.
type Services struct {
	Users      *UsersService
	Links      *LinksService
	Folders    *FoldersService
	Redirect   *RedirectService
	Analytics  *AnalyticsService
	RecycleBin *RecycleBinService
	Stats      *StatsService
	Ping       *PingService
}

// Options внешние коллабораторы и настройки сервисного слоя. Cache и Geo
// необязательны: без них редирект ходит в базу напрямую, а геолокация
// не заполняется.
type Options struct {
	Cache      *cache.Cache
	Geo        *geoip.Resolver
	BcryptCost int
}

// Factory строит сервисный слой поверх подключения к базе.
func Factory(conn *gorm.DB, logger *logrus.Logger, opts Options) *Services {
	usersRepo := sqlrepo.NewUsersRepo(conn, logger)
	linksRepo := sqlrepo.NewLinksRepo(conn, logger)
	foldersRepo := sqlrepo.NewFoldersRepo(conn, logger)
	visitsRepo := sqlrepo.NewVisitsRepo(conn, logger)

	allocator := NewIdentifierAllocator(linksRepo, models.ShortIdentifierLength)

	var invalidator ResolvedInvalidator
	var resolvedCache ResolvedCache
	if opts.Cache != nil {
		invalidator = opts.Cache
		resolvedCache = opts.Cache
	}
	var geo GeoResolver
	if opts.Geo != nil {
		geo = opts.Geo
	}

	links := NewLinksService(linksRepo, foldersRepo, allocator, invalidator)
	folders := NewFoldersService(foldersRepo, linksRepo)

	return &Services{
		Users: NewUsersService(usersRepo, &cascadeAdapter{
			links:   linksRepo,
			folders: foldersRepo,
			visits:  visitsRepo,
		}, invalidator, opts.BcryptCost),
		Links:      links,
		Folders:    folders,
		Redirect:   NewRedirectService(linksRepo, visitsRepo, resolvedCache, geo, logger),
		Analytics:  NewAnalyticsService(linksRepo, visitsRepo),
		RecycleBin: NewRecycleBinService(linksRepo, foldersRepo, links, folders),
		Stats:      NewStatsService(usersRepo, linksRepo, visitsRepo, linksRepo, visitsRepo),
		Ping:       NewPingService(&gormPinger{conn: conn}),
	}
}

// cascadeAdapter сводит шаги каскада удаления аккаунта к репозиториям.
type cascadeAdapter struct {
	links   *sqlrepo.LinksRepo
	folders *sqlrepo.FoldersRepo
	visits  *sqlrepo.VisitsRepo
}

func (c *cascadeAdapter) IDsByUser(ctx context.Context, userID uint) ([]uint, error) {
	return c.links.IDsByUser(ctx, userID)
}

func (c *cascadeAdapter) ShortIdentifiersByUser(ctx context.Context, userID uint) ([]string, error) {
	return c.links.ShortIdentifiersByUser(ctx, userID)
}

func (c *cascadeAdapter) DeleteLinksByUser(ctx context.Context, userID uint) error {
	return c.links.DeleteByUser(ctx, userID)
}

func (c *cascadeAdapter) DeleteFoldersByUser(ctx context.Context, userID uint) error {
	return c.folders.DeleteByUser(ctx, userID)
}

func (c *cascadeAdapter) DeleteVisitsByLinkIDs(ctx context.Context, linkIDs []uint) error {
	return c.visits.DeleteByLinkIDs(ctx, linkIDs)
}

// gormPinger проверка соединения для /ping.
type gormPinger struct {
	conn *gorm.DB
}

func (p *gormPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.conn.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
