package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"paper-trail/config"
	"paper-trail/models"
	"paper-trail/services"
	"paper-trail/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	searchesTotal     prometheus.Counter
	papersLoadedGauge prometheus.Gauge
)

func init() {
	searchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paper_searches_total",
			Help: "Total number of filtered search requests served.",
		},
	)
	papersLoadedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "papers_loaded",
			Help: "Number of paper records in the store.",
		},
	)
	prometheus.MustRegister(searchesTotal, papersLoadedGauge)
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection. Ohne erreichbaren Store wird nicht serviert.
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to papers database", zap.Error(err))
	}
	if err := db.AutoMigrate(&models.Paper{}); err != nil {
		logging.Fatal("Database auto-migration failed", zap.Error(err))
	}

	paperService := services.NewPaperService(db, logging)
	papersLoaded, err := paperService.CountAll(context.Background())
	if err != nil {
		logging.Fatal("Initial paper count failed, store not usable", zap.Error(err))
	}
	papersLoadedGauge.Set(float64(papersLoaded))
	logging.Info("Database connected", zap.Int64("papers_loaded", papersLoaded))

	optionsService := services.NewOptionsService(db, logging, cfg.OptionsCacheTTL)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupPaperRoutes(router, paperService, logging)
	setupOptionRoutes(router, optionsService, cfg, logging)
	setupHealthRoutes(router, paperService)

	// Setup Cron: regelmäßiger Dataset-Snapshot nach S3.
	if cfg.SnapshotEnabled && cfg.S3Configured() {
		s3Client, err := storage.NewS3Client(context.Background(), cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		snapshotService := services.NewSnapshotService(cfg, db, s3Client, logging)
		cronScheduler := cron.New()
		cronScheduler.AddFunc(cfg.SnapshotSchedule, func() {
			logging.Info("Running scheduled snapshot export...")
			if err := snapshotService.Run(context.Background()); err != nil {
				logging.Error("Snapshot export failed", zap.Error(err))
				return
			}
			if count, err := paperService.CountAll(context.Background()); err == nil {
				papersLoadedGauge.Set(float64(count))
			}
		})
		cronScheduler.Start()
	} else {
		logging.Info("Snapshot export disabled or S3 not configured, skipping cron setup")
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func setupPaperRoutes(router *gin.Engine, papers *services.PaperService, log *zap.Logger) {
	rg := router.Group("/api")

	// Paginierte Gesamtliste für die Tabellenansicht.
	rg.GET("/papers", func(c *gin.Context) {
		page := parsePositiveInt(c.Query("page"), 1)
		limit := parsePositiveInt(c.Query("limit"), services.DefaultPageSize)

		result, err := papers.ListPage(c.Request.Context(), page, limit)
		if err != nil {
			log.Error("Failed to get papers", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get papers"})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	// Body-gesteuerte Suche: Filterobjekt plus Paginierung.
	rg.POST("/search", func(c *gin.Context) {
		var req models.SearchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		page := req.Page
		if page < 1 {
			page = 1
		}

		searchesTotal.Inc()
		result, err := papers.SearchPage(c.Request.Context(), &req.SearchFilter, page, req.Limit)
		if err != nil {
			log.Error("Failed to search papers", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search papers"})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func setupOptionRoutes(router *gin.Engine, options *services.OptionsService, cfg *config.Config, log *zap.Logger) {
	maxAge := int(cfg.OptionsCacheTTL / time.Second)

	router.GET("/api/options", func(c *gin.Context) {
		opts, err := options.Get(c.Request.Context())
		if err != nil {
			log.Error("Failed to get options", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get options"})
			return
		}
		c.Header("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
		c.JSON(http.StatusOK, opts)
	})
}

func setupHealthRoutes(router *gin.Engine, papers *services.PaperService) {
	router.GET("/api/health", func(c *gin.Context) {
		count, err := papers.CountAll(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": "error",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"papersLoaded": count,
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
		})
	})
}

// parsePositiveInt liest einen Query-Parameter; unbrauchbare Werte fallen
// auf den Default zurück.
func parsePositiveInt(raw string, def int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
