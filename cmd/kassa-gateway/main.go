package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/kassa-sdk/internal/api"
	"github.com/hypernova-labs/kassa-sdk/internal/config"
	"github.com/hypernova-labs/kassa-sdk/internal/database"
	"github.com/hypernova-labs/kassa-sdk/internal/email"
	"github.com/hypernova-labs/kassa-sdk/internal/logging"
	"github.com/hypernova-labs/kassa-sdk/internal/services"
	"github.com/hypernova-labs/kassa-sdk/internal/workflows"
	"github.com/hypernova-labs/kassa-sdk/pkg/client"
)

func main() {
	// Cargar configuración
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := logging.New(cfg.Logging)
	logger.Info("Starting kassa gateway...")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Conectar a la base de datos
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatalf("Error connecting to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		logger.Fatalf("Error creating schema: %v", err)
	}
	db.LogStats(logger)

	// Caché de estados: Redis si está configurado, LRU en proceso si no
	var (
		cache database.TaskCache
		redis *database.Redis
	)
	if cfg.HasRedis() {
		redis, err = database.ConnectRedis(cfg)
		if err != nil {
			logger.Warnf("Error connecting to Redis: %v", err)
			redis = nil
		} else {
			defer redis.Close()
			cache = redis
		}
	}
	if cache == nil {
		memory, err := database.NewMemoryTaskCache(10000, cfg.Redis.LockTTL)
		if err != nil {
			logger.Fatalf("Error creating in-memory cache: %v", err)
		}
		cache = memory
		logger.Warn("Redis not available, using in-memory task cache")
	}

	var opts []services.FiscalOption

	// Archivo de documentos
	if cfg.HasStorage() {
		s3Client, err := database.NewS3Client(ctx, &cfg.Storage)
		if err != nil {
			logger.Warnf("Error initializing S3 client: %v", err)
		} else {
			opts = append(opts, services.WithArchive(database.NewDocumentArchive(s3Client, cfg.Storage.Bucket, logger)))
			logger.WithField("bucket", cfg.Storage.Bucket).Info("Document archive enabled")
		}
	} else {
		logger.Warn("Storage credentials not provided, documents will not be archived")
	}

	// Avisos por email
	if cfg.Email.ResendAPIKey != "" {
		opts = append(opts, services.WithNotifier(email.NewResendService(
			cfg.Email.ResendAPIKey, cfg.Email.From, cfg.Email.NotifyTo, cfg.Server.BaseURL, logger,
		)))
		logger.Info("Resend service initialized successfully")
	} else {
		logger.Warn("Resend API key not provided, failure notices will not be sent")
	}

	kassaClient := client.New(cfg.Kassa.ShopID, cfg.Kassa.SecretKey,
		client.WithHost(cfg.Kassa.Host),
		client.WithAPIVersion(cfg.Kassa.APIVersion),
		client.WithDefaultQueue(cfg.Kassa.DefaultQueue),
		client.WithNamedQueues(cfg.Kassa.NamedQueues),
		client.WithTimeout(cfg.Kassa.Timeout),
		client.WithLogger(logger),
	)

	fiscalService := services.NewFiscalService(kassaClient, database.NewSubmissionRepository(db, logger), cache, logger, opts...)

	// Workflows de seguimiento
	var workflowHandler http.Handler
	inngestClient, err := workflows.NewInngestClient(cfg, logger)
	if err != nil {
		logger.Warnf("Inngest not available, workflows will not run: %v", err)
	} else {
		tracker := workflows.NewTaskWorkflow(fiscalService, cfg.Kassa.PollInterval, cfg.Kassa.MaxPolls, logger)
		sweeper := workflows.NewSweepWorkflow(fiscalService, 100, workflows.DefaultSweepSchedule, logger)
		if err := inngestClient.RegisterWorkflows(tracker, sweeper); err != nil {
			logger.Warnf("Error registering workflows: %v", err)
		} else {
			fiscalService.SetPublisher(inngestClient)
			workflowHandler = inngestClient.Handler()
		}
	}

	apiHandler := api.NewAPI(fiscalService, cfg.Server.APIKey, logger)
	apiHandler.AddHealthCheck("database", db)
	if redis != nil {
		apiHandler.AddHealthCheck("redis", redis)
	}

	router := api.NewRouter(apiHandler, api.RouterOptions{
		AllowCORS: cfg.IsDevelopment(),
		Workflows: workflowHandler,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Kassa.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Infof("Server starting on %s:%s", cfg.Server.Host, cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
