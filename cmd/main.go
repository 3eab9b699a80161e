package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/recibo/receipts-server/internal/api/http/handler"
	"github.com/recibo/receipts-server/internal/api/http/middleware"
	"github.com/recibo/receipts-server/internal/api/http/router"
	"github.com/recibo/receipts-server/internal/config"
	"github.com/recibo/receipts-server/internal/logger"
	"github.com/recibo/receipts-server/internal/repository/postgres"
	"github.com/recibo/receipts-server/internal/service"
	storage "github.com/recibo/receipts-server/internal/storage/minio"
	"github.com/recibo/receipts-server/internal/token"
	"github.com/recibo/receipts-server/internal/validation"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	receiptRepo := postgres.NewReceiptRepository(db)
	purgeRepo := postgres.NewPurgeRepository(db)

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatal("failed to create minio client", "error", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket, cfg.Storage.PublicBaseURL, logger)
	if err != nil {
		logger.Fatal("failed to initialize storage client", "error", err)
	}

	tokenManager := token.NewJWT(cfg.Token.Secret, cfg.Token.TTL)
	validate := validation.New()

	sessionService := service.NewSession(userRepo, sessionRepo, tokenManager, validate, logger)
	receiptService := service.NewReceipt(receiptRepo, storageClient, validate, logger)
	accountService := service.NewAccount(userRepo, sessionRepo, receiptRepo, purgeRepo,
		storageClient, tokenManager, validate, cfg.Password.BcryptCost, logger)

	app := router.New(
		handler.NewSession(sessionService, logger),
		handler.NewUser(accountService, logger),
		handler.NewReceipt(receiptService, logger),
		middleware.NewAuthenticate(sessionService, logger),
		middleware.NewLogging(logger),
	).App()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		addr := fmt.Sprintf(":%s", cfg.HTTP.Port)
		logger.Info("Starting server on", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}()

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("error during server shutdown", "error", err)
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
