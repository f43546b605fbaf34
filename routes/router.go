package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/suisen-cp/algopedia/cms"
	"github.com/suisen-cp/algopedia/config"
	"github.com/suisen-cp/algopedia/controllers"
	"github.com/suisen-cp/algopedia/middleware"
	"github.com/suisen-cp/algopedia/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.RequestID())

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	svc := cms.NewService(db)
	userController := controllers.NewUserController(db, svc)
	articleController := controllers.NewArticleController(svc)
	taxonomyController := controllers.NewTaxonomyController(svc)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", userController.Register)
	authGroup.POST("/login", userController.Login)
	authGroup.GET("/me", middleware.AuthRequired(), userController.Me)

	// Browsing is public; OptionalAuth feeds the viewer-relative filters and
	// the favorited flag when a token is present.
	api.GET("/articles", middleware.OptionalAuth(), articleController.SearchArticles)
	api.GET("/articles/:id", middleware.OptionalAuth(), articleController.GetArticle)
	api.GET("/categories", taxonomyController.ListCategories)
	api.GET("/tags", taxonomyController.ListTags)
	api.GET("/users/:username", middleware.OptionalAuth(), userController.Profile)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/articles", articleController.CreateArticle)
	protected.PUT("/articles/:id", articleController.UpdateArticle)
	protected.DELETE("/articles/:id", articleController.DeleteArticle)
	protected.POST("/articles/:id/favorite", articleController.ToggleFavorite)
	protected.POST("/categories", taxonomyController.CreateCategory)
	protected.POST("/tags", taxonomyController.CreateTag)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
