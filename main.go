package main

import (
	"database/sql"
	"log"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"ici_dashboard/internal/config"
	"ici_dashboard/internal/contact"
	"ici_dashboard/internal/dashboard"
	"ici_dashboard/internal/download"
	"ici_dashboard/internal/export"
	"ici_dashboard/internal/mailer"
	"ici_dashboard/internal/pages"
	"ici_dashboard/pkg/storage"
)

func main() {
	cfg := config.Load()

	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	if err := dbConn.Ping(); err != nil {
		log.Fatalf("Database ping failed: %v", err)
	}

	// One store for the whole process: raw queries behind a TTL cache.
	// The cache is a performance layer only, outputs do not depend on it.
	store := storage.NewCached(storage.NewDB(dbConn), cfg.CacheTTL)

	r := setupRouter(store, cfg)

	log.Printf("Starting server on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func setupRouter(store storage.Store, cfg config.Config) *gin.Engine {
	r := gin.Default()

	sender := mailer.New(cfg.SMTP)

	api := r.Group("/api")
	dashboard.SetupRoutes(api, store, cfg.FetchTimeout)
	export.SetupRoutes(api, store, cfg.FetchTimeout)
	download.SetupRoutes(api, store, sender, cfg.FetchTimeout)
	contact.SetupRoutes(api, sender)
	pages.SetupRoutes(api)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	log.Printf("[ROUTER] Routes initialized:")
	log.Printf("[ROUTER] GET /api/dashboard/{metrics,evolution,comparison,radar,ranking}")
	log.Printf("[ROUTER] GET /api/{countries,years,observations,export}")
	log.Printf("[ROUTER] POST /api/{download/request,contact}")
	log.Printf("[ROUTER] GET /health")

	return r
}
