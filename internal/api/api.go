package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/supplyops/planner/internal/api/handlers"
	"github.com/supplyops/planner/internal/api/middleware"
	"github.com/supplyops/planner/internal/service"
)

// NewRouter wires the planning API.
func NewRouter(svc *service.PlanningService, uploadDir string, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Logger(),
		middleware.Recovery(),
	)

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalized, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalized) > 0 {
			corsConfig.AllowOrigins = normalized
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	sessionHandler := handlers.NewSessionHandler(svc, uploadDir)

	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("/upload", sessionHandler.Upload)
			sessions.GET("/:id/plan", sessionHandler.GetPlan)
			sessions.PUT("/:id/selection", sessionHandler.UpdateSelection)
			sessions.PUT("/:id/stocks", sessionHandler.UpdateStocks)
			sessions.PUT("/:id/demand", sessionHandler.UpdateDemand)
			sessions.PUT("/:id/plan", sessionHandler.SubmitPlan)
			sessions.GET("/:id/export", sessionHandler.Export)
			sessions.GET("/:id/runs", sessionHandler.ListRuns)
			sessions.DELETE("/:id", sessionHandler.Delete)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
