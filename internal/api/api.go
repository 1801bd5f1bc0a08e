package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/stockdash/internal/api/handlers"
	"github.com/andresuchdata/stockdash/internal/api/middleware"
	"github.com/andresuchdata/stockdash/internal/service"
)

type Services struct {
	Dashboard *service.DashboardService
	// MaxUploadBytes caps multipart uploads; 0 keeps gin's default.
	MaxUploadBytes int64
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.Dashboard != nil {
		if services.MaxUploadBytes > 0 {
			router.MaxMultipartMemory = services.MaxUploadBytes
		}

		catalogHandler := handlers.NewCatalogHandler(services.Dashboard.Catalog())
		catalogGroup := apiGroup.Group("/catalog")
		{
			catalogGroup.GET("/countries", catalogHandler.ListCountries)
			catalogGroup.GET("/countries/:country/stores", catalogHandler.ListStores)
			catalogGroup.GET("/categories", catalogHandler.ListCategories)
		}

		dashboardHandler := handlers.NewDashboardHandler(services.Dashboard, services.MaxUploadBytes)
		dashboardGroup := apiGroup.Group("/dashboard")
		{
			dashboardGroup.POST("/:country", dashboardHandler.Consolidate)
			dashboardGroup.POST("/:country/export", dashboardHandler.Export)
			dashboardGroup.DELETE("/cache", dashboardHandler.Invalidate)
			dashboardGroup.GET("/archive", dashboardHandler.ListArchive)
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
		parts := strings.Split(origin, ",")
		for _, part := range parts {
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
