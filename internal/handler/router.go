package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/config"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/middleware"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/service"
	"go.uber.org/zap"
)

// RouterDeps зависимости роутера
type RouterDeps struct {
	LinkService    service.LinkService
	UserService    service.UserService
	AuthService    service.AuthService
	ClickProcessor service.ClickProcessor
	HealthHandler  *HealthHandler
	RateLimiter    *middleware.RateLimiter
	JWTConfig      config.JWTConfig
	Logger         *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Middleware для логгирования
	router.Use(func(c *gin.Context) {
		deps.Logger.Info("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("ip", c.ClientIP()),
		)
		c.Next()
	})

	// Rate limiting для всех запросов
	router.Use(deps.RateLimiter.Middleware())

	// Централизованная обработка ошибок
	router.Use(ErrorHandler(deps.Logger))

	linkHandler := NewLinkHandler(deps.LinkService, deps.ClickProcessor, deps.Logger)
	userHandler := NewUserHandler(deps.UserService)
	accountHandler := NewAccountHandler(deps.AuthService)

	requireJWT := middleware.RequireJWT(deps.JWTConfig)

	router.GET("/health", deps.HealthHandler.Check)

	api := router.Group("/api")
	{
		// Регистр путей сохраняет исходный контракт API,
		// включая опечатку в GeyByKey
		api.POST("/Account/Authenticate", accountHandler.Authenticate)

		links := api.Group("/links")
		{
			links.GET("/GeyByKey", linkHandler.GetByKey)

			protected := links.Group("", requireJWT)
			{
				protected.GET("", linkHandler.List)
				protected.GET("/MostClickedLinks", linkHandler.MostClickedLinks)
				protected.GET("/:id", linkHandler.Get)
				protected.GET("/:id/stats", linkHandler.Stats)
				protected.POST("", linkHandler.Create)
				protected.PUT("/:id", linkHandler.Update)
				protected.DELETE("/:id", linkHandler.Delete)
			}
		}

		users := api.Group("/users", requireJWT)
		{
			users.GET("", userHandler.List)
			users.GET("/MostLinkShortenerUser", userHandler.MostLinkShortenerUser)
			users.GET("/:id", userHandler.Get)
			users.POST("", userHandler.Create)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}
	}

	// Редирект (корневой путь) - без аутентификации
	router.GET("/:key", linkHandler.Navigate)

	// Swagger документация (без аутентификации)
	AddSwaggerRoutes(router)

	return router
}
