package app

import (
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/auth"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/cache"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/config"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/handlers"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/repo"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	sessionStore := auth.NewStore(rdb, cfg.Redis.SessionTTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userSvc := service.NewUserService(userRepo)
	authHandler := handlers.NewAuthHandler(sessionStore, userSvc)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireSession(sessionStore))

	boardCache := cache.NewBoardCache(rdb, cfg.Redis.BoardTTL.Duration())
	characterRepo := repo.NewPGCharacterRepo(db)
	stateRepo := repo.NewPGStateRepo(db)
	progressSvc := service.NewProgressService(characterRepo, stateRepo, boardCache)
	progressHandler := handlers.NewProgressHandler(progressSvc)
	registerProgressRoutes(protected, progressHandler)

	characterSvc := service.NewCharacterService(characterRepo, progressSvc)
	characterHandler := handlers.NewCharacterHandler(characterSvc)
	registerCharacterRoutes(protected, characterHandler)

	logRepo := repo.NewPGLogRepo(db)
	logSvc := service.NewLogService(logRepo)
	logHandler := handlers.NewLogHandler(logSvc)
	registerLogRoutes(protected, logHandler)

	adminRepo := repo.NewPGAdminRepo(db)
	adminSvc := service.NewAdminService(adminRepo, progressSvc)
	adminHandler := handlers.NewAdminHandler(adminSvc)
	registerAdminRoutes(protected, adminHandler)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "DN Tracker API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerProgressRoutes(api *gin.RouterGroup, h *handlers.ProgressHandler) {
	api.GET("/progress", h.Board)
	api.PATCH("/progress/:characterID", h.Edit)
}

func registerCharacterRoutes(api *gin.RouterGroup, h *handlers.CharacterHandler) {
	api.GET("/characters", h.List)
	api.POST("/characters", h.Create)
}

func registerLogRoutes(api *gin.RouterGroup, h *handlers.LogHandler) {
	api.GET("/logs", h.List)
	api.GET("/logs/export", h.Export)
}

func registerAdminRoutes(api *gin.RouterGroup, h *handlers.AdminHandler) {
	api.POST("/admin/snapshot", h.Snapshot)
	api.POST("/admin/reset", h.Reset)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
}
