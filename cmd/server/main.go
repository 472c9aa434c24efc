package main

import (
	"context"
	"fmt"
	"log"

	"github.com/davissontiago/Mateco/internal/batch"
	"github.com/davissontiago/Mateco/internal/cache"
	"github.com/davissontiago/Mateco/internal/config"
	"github.com/davissontiago/Mateco/internal/database"
	"github.com/davissontiago/Mateco/internal/fiscal"
	"github.com/davissontiago/Mateco/internal/handler"
	"github.com/davissontiago/Mateco/internal/repository"
	"github.com/davissontiago/Mateco/internal/selection"
	"github.com/davissontiago/Mateco/internal/server"
	"github.com/davissontiago/Mateco/internal/service"
	"github.com/davissontiago/Mateco/internal/storage"

	_ "github.com/davissontiago/Mateco/docs"
)

// @title Mateco Batch Emission API
// @version 1.0
// @description Drafts batches of fiscal invoices from a target total and emits them sequentially.
// @BasePath /v1
func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Token cache: Redis when configured, in-memory otherwise
	var tokens cache.TokenCache = cache.NewMemoryTokenCache()
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisTokenCache(cfg.RedisAddr, "", cfg.RedisDB)
		if err != nil {
			log.Printf("Warning: Redis unavailable (%v), falling back to in-memory token cache", err)
		} else {
			tokens = redisCache
		}
	}

	// Initialize clients for the two external collaborators
	selectionClient := selection.NewClient(&selection.Config{
		BaseURL: cfg.SelectionBaseURL,
		Timeout: cfg.SelectionTimeout,
	})

	fiscalClient := fiscal.NewClient(&fiscal.Config{
		BaseURL:      cfg.FiscalBaseURL,
		AuthURL:      cfg.FiscalAuthURL,
		ClientID:     cfg.FiscalClientID,
		ClientSecret: cfg.FiscalClientSecret,
		EmitterCNPJ:  cfg.EmitterCNPJ,
		Environment:  cfg.FiscalEnvironment,
		Timeout:      cfg.FiscalTimeout,
		TokenCache:   tokens,
	})

	// Create the batch engine and its controller
	log.Println("Creating batch emission service...")
	builder := batch.NewBuilder(selectionClient, batch.NewPartitioner(), cfg.MaxBatchSize)
	batchService := service.NewBatchService(builder, fiscalClient)

	// Create and configure server
	log.Println("Configuring server...")
	appServer := server.NewServer(cfg)

	// Issued-document ledger (optional)
	if cfg.PostgresURL != "" {
		log.Println("Connecting to PostgreSQL...")
		db, err := database.NewPostgresDB(context.Background(), cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		appServer.OnShutdown(db.Close)
		batchService.SetDocumentRepository(repository.NewPostgresDocumentRepository(db.GetPool()))
	}

	// DANFE archive (optional)
	if cfg.S3Endpoint != "" {
		uploader, err := storage.NewS3Uploader(&storage.Config{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			AccessKeySecret: cfg.S3AccessKeySecret,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
		})
		if err != nil {
			log.Printf("Warning: DANFE archiving disabled: %v", err)
		} else {
			batchService.SetArchiver(uploader)
		}
	}

	// Register routes
	handler.NewBatchHandler(batchService).RegisterRoutes(appServer.GetRouter())
	handler.NewDocumentHandler(batchService).RegisterRoutes(appServer.GetRouter())

	// Start server (blocking call)
	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server shutdown complete")
}
