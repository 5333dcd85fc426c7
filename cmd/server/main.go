package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/arnavshah/readiness-api-go/pkg/auth"
	"github.com/arnavshah/readiness-api-go/pkg/cache"
	"github.com/arnavshah/readiness-api-go/pkg/database"
	"github.com/arnavshah/readiness-api-go/pkg/engine"
	"github.com/arnavshah/readiness-api-go/pkg/events"
	"github.com/arnavshah/readiness-api-go/pkg/handlers"
	"github.com/arnavshah/readiness-api-go/pkg/live"
	"github.com/arnavshah/readiness-api-go/pkg/warehouse"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.InitDB()
	_ = auth.EnsureAdminExists(db)

	hub := live.NewHub()
	snapshotCache := cache.New()
	publisher := events.Connect()
	defer publisher.Close()
	wh := warehouse.New(db)

	eng := engine.New(db, hub, snapshotCache, publisher, wh, evalInterval())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	h := &handlers.Handler{
		DB:        db,
		Engine:    eng,
		Hub:       hub,
		Cache:     snapshotCache,
		Events:    publisher,
		Warehouse: wh,
	}

	r := gin.Default()

	// Admin interface - serve static files from embedded FS
	r.StaticFS("/static", h.GetStaticFS())

	// Routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Unit Readiness API",
			"version": "1.0.0",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r.GET("/admin", h.AdminInterface)
	r.POST("/admin/login", h.Login)

	// Admin Endpoints
	admin := r.Group("/admin")
	admin.Use(h.AuthMiddleware())
	{
		admin.POST("/keys", h.GenerateKey)
		admin.GET("/keys", h.ListKeys)
		admin.PUT("/keys/:id", h.UpdateKeyLimit)
		admin.DELETE("/keys/:id", h.RevokeKey)
		admin.GET("/usage/:id", h.GetUsage)
	}

	// API Endpoints
	api := r.Group("/api")
	api.Use(h.APIKeyMiddleware())
	{
		api.POST("/personnel", h.CreatePersonnel)
		api.GET("/personnel", h.ListPersonnel)
		api.GET("/personnel/:id", h.GetPersonnel)
		api.PUT("/personnel/:id", h.UpdatePersonnel)

		api.POST("/units", h.CreateUnit)
		api.GET("/units", h.ListUnits)
		api.GET("/units/:id", h.GetUnit)
		api.PUT("/units/:id", h.UpdateUnit)

		api.POST("/unit-assignments", h.CreateAssignment)
		api.GET("/unit-assignments", h.ListAssignments)

		api.POST("/certifications", h.CreateCertification)
		api.GET("/certifications", h.ListCertifications)
		api.GET("/certifications/expiring", h.GetExpiringCertifications)
		api.GET("/certifications/expired", h.GetExpiredCertifications)
		api.POST("/certifications/check-expirations", h.CheckExpirations)
		api.GET("/certifications/:id", h.GetCertification)
		api.PUT("/certifications/:id", h.UpdateCertification)
		api.DELETE("/certifications/:id", h.DeleteCertification)

		api.GET("/readiness/units", h.GetAllUnitsReadiness)
		api.GET("/readiness/units/:id", h.GetUnitReadiness)
		api.GET("/readiness/units/:id/history", h.GetUnitReadinessHistory)
		api.POST("/readiness/facts", h.IngestFacts)

		api.GET("/usage", h.GetMyUsage)
	}

	// Live readiness stream per unit
	r.GET("/ws/units/:id", h.ServeUnitSocket)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}

func evalInterval() time.Duration {
	v := os.Getenv("EVAL_INTERVAL")
	if v == "" {
		return engine.DefaultInterval
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid EVAL_INTERVAL %q, using default", v)
		return engine.DefaultInterval
	}
	return d
}
