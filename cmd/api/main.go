package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"greia/internal/adapter/api"
	"greia/internal/adapter/api/handler"
	apimiddleware "greia/internal/adapter/api/middleware"
	"greia/internal/adapter/api/router"
	"greia/internal/adapter/repository"
	"greia/internal/adapter/repository/memory"
	domain "greia/internal/domain/repository"
	"greia/internal/infrastructure/firebase"
	"greia/internal/infrastructure/metrics"
	"greia/internal/infrastructure/presence"
	"greia/internal/infrastructure/ratelimit"
	"greia/internal/infrastructure/storage"
	"greia/internal/infrastructure/token"
	"greia/internal/infrastructure/websocket"
	"greia/internal/usecase"
	"greia/pkg/config"
	"greia/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Configure(cfg.Environment, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.HealthCheck{}

	var (
		repos      domain.Repositories
		identity   usecase.IdentityProvider
		fileStore  usecase.FileStorage
		firestoreC *firestore.Client
	)

	opts, ok := firebase.Credentials(cfg)
	if ok {
		clients, err := firebase.NewClients(ctx, cfg, opts...)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		defer clients.Close()

		firestoreC = clients.Firestore
		identity = clients.Auth
		repos = repository.NewFirestoreRepositories(firestoreC)
		checks["firestore"] = func(ctx context.Context) error {
			_, err := firestoreC.Collection("users").Limit(1).Documents(ctx).GetAll()
			return err
		}

		if cfg.StorageBucket != "" {
			storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.AllowedOrigins, opts...)
			if err != nil {
				log.Fatalf("Failed to initialize Cloud Storage: %v", err)
			}
			defer storageClient.Close()
			fileStore = storageClient
		}
	} else {
		if cfg.IsProduction() {
			log.Fatalf("Firebase credentials are required in production")
		}
		logger.Warn("No Firebase credentials found, using the in-memory store")
		repos = memory.NewStore().Repositories()
	}

	sessionTokens := token.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)

	sendLimiter := ratelimit.NewSendLimiter()
	roomLimiter := ratelimit.NewRoomLimiter()
	typingLimiter := ratelimit.NewTypingLimiter()
	authLimiter := ratelimit.NewRateLimiter(20, 3*time.Second)
	for _, rl := range []*ratelimit.RateLimiter{sendLimiter, roomLimiter, typingLimiter, authLimiter} {
		rl.StartCleanupRoutine(ctx.Done())
	}

	notificationUseCase := usecase.NewNotificationUseCase(repos.Notifications, repos.Users, nil, nil)
	authUseCase := usecase.NewAuthUseCase(repos.Users, identity, sessionTokens, nil)
	userUseCase := usecase.NewUserUseCase(repos.Users, nil)
	verificationUseCase := usecase.NewVerificationUseCase(repos.Verifications, repos.Users, notificationUseCase, nil)
	listingUseCase := usecase.NewListingUseCase(repos.Listings, repos.Users, repos.Verifications, nil)
	inquiryUseCase := usecase.NewInquiryUseCase(repos.Inquiries, repos.Listings, repos.Users, notificationUseCase, nil)
	transactionUseCase := usecase.NewTransactionUseCase(repos.Transactions, nil)
	chatUseCase := usecase.NewChatUseCase(repos.Chat, repos.Users, notificationUseCase, nil, usecase.ChatLimiters{
		Send:   sendLimiter,
		Room:   roomLimiter,
		Typing: typingLimiter,
	}, cfg.ChatHistoryLimit, nil)
	portfolioUseCase := usecase.NewPortfolioUseCase(repos.Portfolios, repos.Users, nil)
	feedUseCase := usecase.NewFeedUseCase(repos.Posts, repos.Follows, repos.Users, cfg.StoryTTL, nil)
	dashboardUseCase := usecase.NewDashboardUseCase(repos.Users, repos.Listings, repos.Inquiries, repos.Transactions, repos.Verifications)
	fileUseCase := usecase.NewFileUseCase(fileStore, repos.Files, cfg.MaxUploadBytes, nil)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(cfg.MetricsNamespace, registry)

	hubOpts := []websocket.HubOption{websocket.WithMetrics(appMetrics)}
	if cfg.RedisURL != "" {
		presenceStore, err := presence.NewStoreFromURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer presenceStore.Close()
		hubOpts = append(hubOpts, websocket.WithPresence(presenceStore), websocket.WithRelay(presenceStore))
		checks["redis"] = presenceStore.Ping
	}

	hub := websocket.NewHub(chatUseCase, hubOpts...)
	chatUseCase.SetBroadcaster(hub)
	notificationUseCase.SetBroadcaster(hub)
	go hub.Run(ctx)

	handler.Setup(
		authUseCase,
		userUseCase,
		verificationUseCase,
		listingUseCase,
		inquiryUseCase,
		transactionUseCase,
		chatUseCase,
		notificationUseCase,
		portfolioUseCase,
		feedUseCase,
		dashboardUseCase,
	)
	handler.SetupFileHandler(fileUseCase)
	handler.SetupWebSocketHandler(hub, cfg.AllowedOrigins)
	handler.SetupHealthHandler(checks)
	if !cfg.IsProduction() {
		handler.SetupDevTokenHandler(authUseCase)
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Idempotency-Key"},
	}))
	e.Use(appMetrics.Middleware())
	e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
		Timeout: cfg.RequestTimeout,
		// Websocket handlers live as long as the connection.
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/v1/ws")
		},
	}))
	e.Use(middleware.BodyLimit("12M"))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authUseCase)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userUseCase)

	router.Setup(e, authMiddleware, adminMiddleware, authLimiter)
	router.SetupHealthRouter(e, appMetrics.Handler())
	router.SetupDevRouter(e, cfg.IsProduction())

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error: %v", err)
	}
}
