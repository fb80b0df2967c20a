package handlers

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/javierocuenta1-de/simple-crud-maker/internal/infrastructure/config"
	"github.com/javierocuenta1-de/simple-crud-maker/internal/infrastructure/metrics"
)

// NewRouter wires the HTTP surface: CORS, metrics middleware, auth
// requirement and the item/share/websocket routes.
func NewRouter(
	cfg *config.CORSConfig,
	collector *metrics.Collector,
	exporter *metrics.PrometheusExporter,
	items *ItemHandler,
	shares *ShareHandler,
	ws *WSHandler,
) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", userIDHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(metrics.Middleware(collector, exporter))

	api := r.Group("/api", RequireUser())
	{
		api.GET("/items", items.List)
		api.POST("/items", items.Create)
		api.PUT("/items/:id", items.Update)
		api.DELETE("/items/:id", items.Delete)
		api.POST("/items/:id/share", shares.Share)
	}

	r.GET("/ws", RequireUser(), ws.Serve)

	return r
}
