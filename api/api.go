package api

import (
	"fmt"
	"time"

	"agripredict/internal/logger"
	"agripredict/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const serviceVersion = "1.0.0"

type ApiHandler struct {
	ForecastService   service.ForecastService
	ComparisonService service.ComparisonService
	Logger            *zap.SugaredLogger
}

func (m ApiHandler) StartApi(port int) error {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", m.root)
	router.GET("/health", m.health)
	router.GET("/models", m.listModels)
	router.POST("/forecast", m.forecast)
	router.POST("/compare", m.compare)

	return router.Run(fmt.Sprintf(":%d", port))
}

func (m ApiHandler) root(c *gin.Context) {
	c.JSON(200, gin.H{
		"service":     "AgriPredict Analysis Service",
		"status":      "running",
		"version":     serviceVersion,
		"description": "Agricultural demand forecasting using ensemble models",
		"endpoints": gin.H{
			"health":   "/health",
			"models":   "/models",
			"forecast": "/forecast",
			"compare":  "/compare",
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (m ApiHandler) health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "healthy",
		"service":   "analysis-service",
		"version":   serviceVersion,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (m ApiHandler) returnErrorJson(err error, c *gin.Context) {
	m.returnErrorJsonCode(err, c, 500)
}

func (m ApiHandler) returnErrorJsonCode(err error, c *gin.Context, code int) {
	m.Logger.Errorw("request failed", "error", err, "route", c.Request.URL.Path)
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// logRequestMiddleware tags every request with an id, stashes a
// request-scoped logger on the context, and logs timing and status once
// the handler chain finishes.
func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	requestID := uuid.New()
	ctx.Set("requestID", requestID.String())
	ctx.Set(logger.ContextKey, m.Logger.With("requestID", requestID.String()))

	start := time.Now().UTC()
	ctx.Next()

	m.Logger.Infow("handled request",
		"requestID", requestID.String(),
		"method", ctx.Request.Method,
		"route", ctx.Request.URL.Path,
		"status", ctx.Writer.Status(),
		"durationMs", time.Since(start).Milliseconds(),
		"ip", ctx.ClientIP(),
	)
}
