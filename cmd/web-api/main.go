package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rube11/Mo-Data-builder-project/internal/api"
	exportapi "github.com/rube11/Mo-Data-builder-project/internal/api/export"
	"github.com/rube11/Mo-Data-builder-project/internal/api/visualization"
	"github.com/rube11/Mo-Data-builder-project/internal/export"
	"github.com/rube11/Mo-Data-builder-project/internal/pkg/config"
	"github.com/rube11/Mo-Data-builder-project/internal/pkg/logger"
	"github.com/rube11/Mo-Data-builder-project/internal/pkg/redis"
	"github.com/rube11/Mo-Data-builder-project/internal/repository"
	"github.com/rube11/Mo-Data-builder-project/internal/service"
	"github.com/rube11/Mo-Data-builder-project/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting report visualization API")

	// Initialize database
	if err := repository.InitDB(cfg.Database.Path); err != nil {
		zap.L().Fatal("Failed to initialize database",
			zap.Error(err))
	}
	defer repository.Close()

	// Initialize Redis (optional)
	if err := redis.Init(cfg); err != nil {
		zap.L().Warn("Redis initialization failed, in-flight guard will be local only",
			zap.Error(err))
	} else {
		defer redis.Close()
	}

	// Initialize blob store
	blobs, err := storage.New(&cfg.Storage, logger.Get())
	if err != nil {
		zap.L().Fatal("Failed to initialize blob store",
			zap.Error(err))
	}

	// Wire services
	timeout := cfg.RequestTimeout()
	records := service.SQLiteRecords{}
	sink := export.NewSink(cfg.Export.Dir)
	guard := service.NewInFlightGuard(2 * timeout)
	browser := service.NewBrowser(blobs, records, guard, timeout)

	vizHandler := visualization.New(blobs, records, sink, browser, timeout)
	exportHandler := exportapi.New(sink)

	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Create router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	// Setup routes
	api.SetupRouter(r, vizHandler, exportHandler)

	// Print startup info
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Starting Report Visualization API")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("URL: http://%s\n", cfg.GetWebServiceAddr())
	fmt.Printf("Database: %s\n", cfg.Database.Path)
	fmt.Printf("Bucket: %s\n", cfg.Storage.Bucket)
	fmt.Printf("Exports: %s\n", cfg.Export.Dir)
	fmt.Println(strings.Repeat("=", 60))

	// Start server
	if err := r.Run(cfg.GetWebServiceAddr()); err != nil {
		zap.L().Fatal("Failed to start server",
			zap.Error(err))
	}
}
