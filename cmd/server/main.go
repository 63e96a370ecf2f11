package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/driaaomar7-tech/maghrebcar/internal/adapter/geocode"
	httphandler "github.com/driaaomar7-tech/maghrebcar/internal/adapter/http/handler"
	"github.com/driaaomar7-tech/maghrebcar/internal/adapter/http/router"
	natsadapter "github.com/driaaomar7-tech/maghrebcar/internal/adapter/messaging/nats"
	"github.com/driaaomar7-tech/maghrebcar/internal/adapter/repository/cache"
	"github.com/driaaomar7-tech/maghrebcar/internal/adapter/repository/mongodb"
	"github.com/driaaomar7-tech/maghrebcar/internal/adapter/storage/s3"
	"github.com/driaaomar7-tech/maghrebcar/internal/auth"
	"github.com/driaaomar7-tech/maghrebcar/internal/config"
	"github.com/driaaomar7-tech/maghrebcar/internal/content"
	"github.com/driaaomar7-tech/maghrebcar/internal/mailer"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/nav"
	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/usecase"
	"github.com/driaaomar7-tech/maghrebcar/internal/platform/logger"
	"github.com/driaaomar7-tech/maghrebcar/internal/platform/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel, cfg.LogFmt)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	tp := tracer.InitTracer()
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			zapLogger.Error("failed to shut down tracer provider", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		zapLogger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDB)

	redisClient, err := cache.Connect(ctx, cfg.RedisAddress)
	if err != nil {
		zapLogger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	storage, err := s3.NewStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL, []string{"ads", "avatars"}, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to initialize storage", zap.Error(err))
	}

	natsConn, err := natsadapter.Connect(cfg.NATSURL)
	if err != nil {
		zapLogger.Fatal("failed to connect to NATS", zap.Error(err))
	}
	publisher := natsadapter.NewPublisher(natsConn)
	defer publisher.Close()

	adRepo := mongodb.NewAdRepository(db, zapLogger)
	profileRepo := mongodb.NewProfileRepository(db, zapLogger)
	userRepo := mongodb.NewUserRepository(db, zapLogger)

	provisioner, err := natsadapter.NewProvisioner(natsConn, profileRepo, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to start profile provisioner", zap.Error(err))
	}
	defer provisioner.Stop()

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)
	tokenCache := cache.NewTokenCache(redisClient)
	authSvc := auth.NewService(userRepo, tokenCache, mail, publisher, cfg.JWTSecret, zapLogger)

	sugar := zapLogger.Sugar()
	alerts := usecase.LogAlerts{Log: sugar}

	// The machine gates protected pages on the session holder, and the
	// holder navigates through the machine, so the session check goes in
	// as a closure over a variable assigned right after.
	var session *usecase.SessionUsecase
	machine := nav.New(func() bool {
		return session != nil && session.IsLoggedIn()
	}, nil)
	session = usecase.NewSessionUsecase(profileRepo, authSvc, machine, storage, alerts, sugar)
	catalog := usecase.NewCatalogUsecase(adRepo, profileRepo, storage, publisher, alerts, sugar)

	go session.Run(ctx, authSvc.Subscribe())
	catalog.Refresh(ctx)

	nominatim := geocode.NewClient(cfg.GeocodeBaseURL, cfg.GeocodeCountry, zapLogger)
	geocoder := geocode.NewCachedGeocoder(nominatim, cache.NewGeocodeCache(redisClient))

	contentStore := content.NewStore()
	handlers := httphandler.New(catalog, session, authSvc, machine, contentStore, geocoder, zapLogger)
	mux := router.New(handlers, cfg.JWTSecret, cfg.CORSOrigin, zapLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      otelhttp.NewHandler(mux, "http.server"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server starting", zap.Int("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	cancel()
}
