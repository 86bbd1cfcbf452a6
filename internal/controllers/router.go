package controllers

import (
	"net/url"

	"github.com/fsdevblog/shortkeep/internal/controllers/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RouterParams зависимости маршрутизатора.
type RouterParams struct {
	Users     UserAccounts
	Links     LinkManager
	BaseURL   *url.URL
	Folders   FolderManager
	Redirect  RedirectResolver
	Analytics VisitAnalytics
	Bin       RecycleBin
	Stats     SystemStatsCollector
	Conn      ConnectionChecker
	Session   SessionConfig
	Logger    *logrus.Logger
}

func SetupRouter(p RouterParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware(p.Logger))
	r.Use(middlewares.GzipMiddleware())

	authController := NewAuthController(p.Users, p.Session)
	linksController := NewLinksController(p.Links, p.BaseURL)
	foldersController := NewFoldersController(p.Folders)
	redirectController := NewRedirectController(p.Redirect)
	analyticsController := NewAnalyticsController(p.Analytics)
	binController := NewRecycleBinController(p.Bin)
	adminController := NewAdminController(p.Stats)
	pingController := NewPingController(p.Conn)

	r.GET("/ping", pingController.Ping)
	r.GET("/:shortID", redirectController.Redirect)

	api := r.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", authController.SignUp)
	auth.POST("/login", authController.Login)
	auth.POST("/logout", authController.Logout)
	auth.POST("/refresh", authController.Refresh)

	authed := api.Group("/")
	authed.Use(middlewares.AuthMiddleware(p.Session.AccessSecret))

	authed.GET("/me", authController.Me)
	authed.PATCH("/me", authController.UpdateMe)
	authed.PUT("/me/password", authController.ChangePassword)
	authed.DELETE("/me", authController.DeleteMe)

	authed.POST("/links", linksController.Create)
	authed.GET("/links", linksController.List)
	authed.GET("/links/:id", linksController.Get)
	authed.PATCH("/links/:id", linksController.Update)
	authed.POST("/links/:id/toggle", linksController.ToggleActive)
	authed.DELETE("/links/:id", linksController.SoftDelete)
	authed.POST("/links/:id/restore", linksController.Restore)
	authed.DELETE("/links/:id/permanent", linksController.PermanentDelete)
	authed.GET("/links/:id/analytics", analyticsController.Overview)
	authed.GET("/links/:id/analytics/series", analyticsController.Series)
	authed.GET("/links/:id/visits", analyticsController.Visits)

	authed.POST("/folders", foldersController.Create)
	authed.GET("/folders", foldersController.List)
	authed.GET("/folders/:id", foldersController.Get)
	authed.PATCH("/folders/:id", foldersController.Update)
	authed.DELETE("/folders/:id", foldersController.SoftDelete)
	authed.POST("/folders/:id/restore", foldersController.Restore)
	authed.DELETE("/folders/:id/permanent", foldersController.PermanentDelete)
	authed.POST("/folders/:id/remove-urls", foldersController.RemoveURLs)

	authed.GET("/recycle-bin", binController.List)
	authed.POST("/recycle-bin/restore", binController.Restore)
	authed.POST("/recycle-bin/purge", binController.Purge)

	admin := api.Group("/admin")
	admin.Use(middlewares.AuthMiddleware(p.Session.AccessSecret), middlewares.AdminMiddleware())
	admin.GET("/stats", adminController.Stats)

	return r
}
