package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"paintshop/internal/config"
	"paintshop/internal/handler"
	"paintshop/internal/infra/db"
	"paintshop/internal/infra/events"
	infraRepo "paintshop/internal/infra/repository"
	"paintshop/internal/infra/token"
	"paintshop/internal/logger"
	"paintshop/internal/metrics"
	"paintshop/internal/notification"
	"paintshop/internal/server"
	"paintshop/internal/shutdown"
	"paintshop/internal/usecase"
	"paintshop/internal/validator"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const shopName = "Paint Shop"

func main() {
	//.envは無くてもよい
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("load .env", "err", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Service: "paintshop-api", Env: cfg.GoEnv, Level: cfg.LogLevel})

	if err := run(cfg, log); err != nil {
		log.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}

	m := metrics.New()

	//通知ワーカー（リクエストとは別のcontextで動かす）
	dispatcher := notification.NewDispatcher(notification.DispatcherConfig{
		Workers:     cfg.NotifyWorkers,
		QueueSize:   cfg.NotifyQueueSize,
		TaskTimeout: cfg.NotifySendTimeout,
	}, log, m)
	dispatcher.Start(context.Background())

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)

	var mailer notification.Mailer = notification.NewLogMailer(log)
	if cfg.SMTPEnabled() {
		mailer = notification.NewSMTPMailer(notification.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
	}

	//Repository（GORM実装）生成
	txm := infraRepo.NewTxManagerGorm(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	statsRepo := infraRepo.NewStatsGormRepository(gormDB)

	notifier := notification.NewNotifier(notification.NotifierConfig{ShopName: shopName}, dispatcher, mailer, publisher, productRepo, log)

	//usecaseに渡す部品
	clock := usecase.SystemClock{}
	v := validator.NewUserValidator()
	hasher := usecase.NewBcryptPasswordHasher(bcrypt.DefaultCost)
	verifier := usecase.NewBcryptPasswordVerifier()
	issuer := token.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTokenTTL)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, v, verifier, issuer, clock)
	userUC := usecase.NewUserUsecase(userRepo, v, hasher, clock)
	productUC := usecase.NewProductUsecase(productRepo, clock)
	cartUC := usecase.NewCartUsecase(txm, clock)
	orderUC := usecase.NewOrderUsecase(txm, notifier, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(txm, notifier, clock, log)
	inventoryUC := usecase.NewInventoryUsecase(txm, clock)
	statsUC := usecase.NewStatsUsecase(statsRepo, clock)
	receiptUC := usecase.NewReceiptUsecase(txm, notification.NewPDFReceipt(shopName))
	auditUC := usecase.NewAuditUsecase(txm)

	//Handler生成
	srv := server.New(cfg, log, m, server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		User:         handler.NewUserHandler(userUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC, receiptUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		Inventory:    handler.NewInventoryHandler(inventoryUC),
		Stats:        handler.NewStatsHandler(statsUC),
		Audit:        handler.NewAuditHandler(auditUC),
	})

	//Server起動
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case serveErr = <-errCh:
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "err", err)
	}
	//キューに残った通知を流し切る
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Error("dispatcher shutdown", "err", err)
	}
	if err := publisher.Close(); err != nil {
		log.Error("publisher close", "err", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("bye")
	return serveErr
}
