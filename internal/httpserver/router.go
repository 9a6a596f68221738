package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true), ginzap.RecoveryWithZap(logger, true))
	router.Use(corsMiddleware(deps.CORSOrigins))

	router.GET("/healthz", healthHandler)
	var ready readiness
	if db != nil {
		ready = db
	}
	router.GET("/readyz", readyHandler(ready))
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1", requireUUIDParams)
	if deps.CategorySvc != nil {
		registerCategoryRoutes(api, deps.CategorySvc)
	}
	if deps.ProductTypeSvc != nil {
		registerProductTypeRoutes(api, deps.ProductTypeSvc)
	}
	if deps.PriceSvc != nil {
		registerPriceRoutes(api, deps.PriceSvc)
	}
	if deps.ProductSvc != nil {
		registerProductRoutes(api, deps.ProductSvc)
	}
	if deps.QuestionSvc != nil {
		registerQuestionRoutes(api, deps.QuestionSvc)
	}
	if deps.TagSvc != nil {
		registerTagRoutes(api, deps.TagSvc)
	}
	if deps.ConditionSvc != nil {
		registerConditionRoutes(api, deps.ConditionSvc)
	}
	if deps.LocationSvc != nil {
		registerLocationRoutes(api, deps.LocationSvc)
	}
	if deps.FileSvc != nil {
		registerFileRoutes(api, deps.FileSvc)
	}

	return router
}

// requireUUIDParams answers 404 for path ids that cannot name a row.
func requireUUIDParams(c *gin.Context) {
	for _, p := range c.Params {
		if _, err := uuid.Parse(p.Value); err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "Not found."})
			return
		}
	}
	c.Next()
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	return cors.New(cfg)
}
