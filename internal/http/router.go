package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/raffreitas/blog/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	tokenSvc *service.TokenService,
	accountH *AccountHandler,
	categoryH *CategoryHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	authRequired := JWTAuthMiddleware(tokenSvc)

	v1 := r.Group("/v1")

	accounts := v1.Group("/accounts")
	accounts.POST("", accountH.Register)
	accounts.POST("/login", accountH.Login)
	accounts.POST("/upload-image", authRequired, accountH.UploadImage)

	categories := v1.Group("/categories")
	categories.GET("", categoryH.List)
	categories.GET("/:id", categoryH.GetByID)
	categories.POST("", authRequired, categoryH.Create)
	categories.PUT("/:id", authRequired, categoryH.Update)
	categories.DELETE("/:id", authRequired, categoryH.Delete)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
