package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/shortkeep/internal/cache"
	"github.com/fsdevblog/shortkeep/internal/config"
	"github.com/fsdevblog/shortkeep/internal/controllers"
	"github.com/fsdevblog/shortkeep/internal/db"
	"github.com/fsdevblog/shortkeep/internal/geoip"
	"github.com/fsdevblog/shortkeep/internal/logs"
	"github.com/fsdevblog/shortkeep/internal/services"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     config.Config
	dbServices *services.Services
	cache      *cache.Cache
	geo        *geoip.Resolver
	Logger     *logrus.Logger
}

func New(appConf config.Config) (*App, error) {
	logger := logs.New(os.Stdout)

	conn, connErr := db.NewSQLite(appConf.SQLitePath)
	if connErr != nil {
		return nil, fmt.Errorf("open sqlite `%s`: %w", appConf.SQLitePath, connErr)
	}

	// Redis и GeoIP необязательны: без адреса редиректы ходят в базу
	// напрямую, без базы GeoLite страна и город остаются пустыми.
	var resolvedCache *cache.Cache
	if appConf.RedisAddr != "" {
		var cacheErr error
		resolvedCache, cacheErr = cache.ConnectRedis(appConf.RedisAddr, appConf.RedisPassword, appConf.RedisTTL)
		if cacheErr != nil {
			return nil, fmt.Errorf("connect redis `%s`: %w", appConf.RedisAddr, cacheErr)
		}
	}

	var geo *geoip.Resolver
	if appConf.GeoIPPath != "" {
		var geoErr error
		geo, geoErr = geoip.New(appConf.GeoIPPath)
		if geoErr != nil {
			return nil, fmt.Errorf("open geoip database `%s`: %w", appConf.GeoIPPath, geoErr)
		}
	}

	dbServices := services.Factory(conn, logger, services.Options{
		Cache:      resolvedCache,
		Geo:        geo,
		BcryptCost: appConf.BcryptCost,
	})

	return &App{
		config:     appConf,
		dbServices: dbServices,
		cache:      resolvedCache,
		geo:        geo,
		Logger:     logger,
	}, nil
}

// Must вызывает панику если произошла ошибка.
func Must(a *App, err error) *App {
	if err != nil {
		panic(err)
	}
	return a
}

// Run запускает web сервер и блокируется до SIGINT/SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router := controllers.SetupRouter(controllers.RouterParams{
		Users:     a.dbServices.Users,
		Links:     a.dbServices.Links,
		BaseURL:   a.config.BaseURL,
		Folders:   a.dbServices.Folders,
		Redirect:  a.dbServices.Redirect,
		Analytics: a.dbServices.Analytics,
		Bin:       a.dbServices.RecycleBin,
		Stats:     a.dbServices.Stats,
		Conn:      a.dbServices.Ping,
		Session: controllers.SessionConfig{
			AccessSecret:  []byte(a.config.AccessSecret),
			RefreshSecret: []byte(a.config.RefreshSecret),
			AccessTTL:     a.config.AccessTTL,
			RefreshTTL:    a.config.RefreshTTL,
			Secure:        a.config.CookieSecure,
		},
		Logger: a.Logger,
	})

	server := &http.Server{
		Addr:    a.config.ServerAddress,
		Handler: router,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown command received")
	case serverErr = <-errChan:
		a.Logger.WithError(serverErr).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
		a.Logger.WithError(shutdownErr).Error("server shutdown error")
	}

	a.close()
	return serverErr
}

// close освобождает необязательные внешние ресурсы.
func (a *App) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.Logger.WithError(err).Error("redis close error")
		}
	}
	if a.geo != nil {
		if err := a.geo.Close(); err != nil {
			a.Logger.WithError(err).Error("geoip close error")
		}
	}
}
