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

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/member-portal-api/api/swagger"
	"github.com/noah-isme/member-portal-api/internal/handler"
	"github.com/noah-isme/member-portal-api/internal/middleware"
	"github.com/noah-isme/member-portal-api/internal/repository"
	"github.com/noah-isme/member-portal-api/internal/service"
	"github.com/noah-isme/member-portal-api/pkg/cache"
	"github.com/noah-isme/member-portal-api/pkg/config"
	"github.com/noah-isme/member-portal-api/pkg/database"
	"github.com/noah-isme/member-portal-api/pkg/jobs"
	"github.com/noah-isme/member-portal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/member-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/member-portal-api/pkg/middleware/requestid"
	"github.com/noah-isme/member-portal-api/pkg/storage"
)

// @title Member Portal API
// @version 1.0.0
// @description Student association portal: events, notifications, magazines, gallery, certificate requests and member profiles.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// certificateBacklog bounds both the issuance buffer and the startup backfill sweep.
const certificateBacklog = 512

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db.DB, "up"); err != nil {
			return err
		}
		logr.Info("database migrations applied")
	}

	checks := map[string]handler.ReadinessCheck{"database": db.PingContext}

	metricsSvc := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, content caching disabled", zap.Error(err))
		} else {
			defer client.Close()
			cacheRepo = repository.NewCacheRepository(client, "portal:")
			checks["redis"] = cacheRepo.Ping
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, cacheRepo != nil)

	store, localStore, err := newObjectStore(ctx, cfg)
	if err != nil {
		return err
	}
	if s3Store, ok := store.(*storage.S3Store); ok {
		checks["storage"] = s3Store.Ping
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	eventRepo := repository.NewEventRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	magazineRepo := repository.NewMagazineRepository(db)
	galleryRepo := repository.NewGalleryRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)

	authz := service.NewAuthorizer(profileRepo, cfg.Policy)
	authSvc := service.NewAuthService(userRepo, profileRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	certDeps := service.CertificateServiceDeps{
		Repo:       certificateRepo,
		Store:      store,
		Audit:      userRepo,
		Authorizer: authz,
		Validator:  validate,
		Metrics:    metricsSvc,
		Logger:     logr,
	}
	if cfg.Certificates.IssueEnabled {
		issuer := service.NewCertificateIssuer(certificateRepo, store, cfg.Certificates.IssuerName, metricsSvc, logr)
		queue := jobs.NewQueue("certificates", issuer.Handle, jobs.QueueConfig{
			Workers:     cfg.Certificates.WorkerConcurrency,
			BufferSize:  certificateBacklog,
			MaxRetries:  cfg.Certificates.WorkerRetries,
			OnExhausted: issuer.OnExhausted,
			Logger:      logr,
		})
		// Workers outlive the signal so approvals accepted while srv.Shutdown drains are still
		// issued. The deferred Stop runs after Shutdown returns and drains the buffer.
		queue.Start(context.WithoutCancel(ctx))
		defer queue.Stop()
		if _, err := issuer.Backfill(ctx, queue, certificateBacklog); err != nil {
			logr.Warn("certificate backfill failed", zap.Error(err))
		}
		certDeps.Issuer = queue
	}

	handlers := handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Events:        handler.NewEventHandler(service.NewEventService(eventRepo, store, cacheSvc, authz, validate, logr)),
		Notifications: handler.NewNotificationHandler(service.NewNotificationService(notificationRepo, cacheSvc, authz, validate, logr)),
		Magazines:     handler.NewMagazineHandler(service.NewMagazineService(magazineRepo, store, cacheSvc, authz, validate, logr)),
		Gallery:       handler.NewGalleryHandler(service.NewGalleryService(galleryRepo, eventRepo, store, cacheSvc, authz, validate, logr)),
		Uploads:       handler.NewUploadHandler(service.NewUploadService(store, authz)),
		Certificates:  handler.NewCertificateHandler(service.NewCertificateService(certDeps)),
		Profiles:      handler.NewProfileHandler(service.NewProfileService(profileRepo, userRepo, userRepo, authz, validate, logr)),
	}
	if localStore != nil {
		handlers.Storage = handler.NewStorageHandler(localStore, cfg.Storage.MaxUploadBytes)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handlers, authSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logr.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newObjectStore returns the configured store. The local driver is also returned on its own so
// its signed upload and download routes can be mounted.
func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, *storage.LocalObjectStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		store, err := storage.NewS3Store(ctx, cfg.Storage)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case config.StorageDriverLocal, "":
		files, err := storage.NewLocalStorage(cfg.Storage.LocalDir)
		if err != nil {
			return nil, nil, err
		}
		signer := storage.NewSignedURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL)
		local := storage.NewLocalObjectStore(files, signer, cfg.PublicBaseURL+cfg.APIPrefix)
		return local, local, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
