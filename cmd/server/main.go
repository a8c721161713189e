package main

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/skillbazar/backend/internal/autoreply"
	"github.com/skillbazar/backend/internal/config"
	"github.com/skillbazar/backend/internal/db"
	"github.com/skillbazar/backend/internal/http/handlers"
	"github.com/skillbazar/backend/internal/http/router"
	"github.com/skillbazar/backend/internal/logger"
	"github.com/skillbazar/backend/internal/repository"
	"github.com/skillbazar/backend/internal/service"
	"github.com/skillbazar/backend/internal/storage"
	"github.com/skillbazar/backend/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("не удалось загрузить конфигурацию: %v", err)
	}

	logger.Init("info")
	if cfg.Env != "production" {
		logger.SetTextFormatter()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("не удалось подключиться к базе данных: %v", err)
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
		logger.Log.Fatalf("не удалось применить миграции: %v", err)
	}

	photoStorage, err := storage.NewPhotoStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		logger.Log.Fatalf("не удалось инициализировать хранилище: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	// Seed позволяет получать воспроизводимые автоответы в тестовых стендах
	var replies *autoreply.Generator
	if cfg.AutoReplySeed != 0 {
		replies = autoreply.NewSeeded(cfg.AutoReplySeed)
	} else {
		replies = autoreply.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	}

	userRepo := repository.NewUserRepository(conn)
	catalogRepo := repository.NewCatalogRepository(conn)
	orderRepo := repository.NewOrderRepository(conn)
	paymentRepo := repository.NewPaymentRepository(conn)
	reviewRepo := repository.NewReviewRepository(conn)
	conversationRepo := repository.NewConversationRepository(conn)
	mediaRepo := repository.NewMediaRepository(conn)

	// Фоновая чистка протухших refresh-сессий
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := userRepo.DeleteExpiredSessions(ctx)
				if err != nil {
					logger.Log.Errorf("не удалось удалить просроченные сессии: %v", err)
					continue
				}
				if deleted > 0 {
					logger.Log.WithField("deleted", deleted).Info("Просроченные сессии удалены")
				}
			}
		}
	}()

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	authService := service.NewAuthService(userRepo, tokens)
	gigService := service.NewGigService(catalogRepo, userRepo)
	orderService := service.NewOrderService(orderRepo, catalogRepo, userRepo, reviewRepo)
	paymentService := service.NewPaymentService(paymentRepo, orderRepo, catalogRepo, userRepo, service.PaymentConfig{
		KhaltiPublicKey: cfg.KhaltiPublicKey,
		EsewaMerchantID: cfg.EsewaMerchantID,
		BaseURL:         cfg.BaseURL,
	})
	reviewService := service.NewReviewService(reviewRepo, catalogRepo, orderRepo)
	conversationService := service.NewConversationService(conversationRepo, userRepo, replies, ws.NewMessageAdapter(hub))

	engine := router.New(router.Deps{
		Config:        cfg,
		Tokens:        tokens,
		Auth:          handlers.NewAuthHandler(authService),
		Gigs:          handlers.NewGigHandler(gigService),
		Orders:        handlers.NewOrderHandler(orderService),
		Payments:      handlers.NewPaymentHandler(paymentService),
		Reviews:       handlers.NewReviewHandler(reviewService),
		Conversations: handlers.NewConversationHandler(conversationService),
		Media:         handlers.NewMediaHandler(mediaRepo, photoStorage),
		Health:        handlers.NewHealthHandler(conn),
		WS:            handlers.NewWSHandler(hub, tokens),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("port", cfg.HTTPPort).Info("HTTP сервер запущен")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("ошибка HTTP сервера: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("получен сигнал остановки, завершаем работу")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("ошибка при остановке сервера: %v", err)
	}

	logger.Log.Info("сервер остановлен")
}
