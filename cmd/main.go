package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/oksasatya/go-user-accounts/config"
	"github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/internal/container"
	repo "github.com/oksasatya/go-user-accounts/internal/domain/repository"
	"github.com/oksasatya/go-user-accounts/internal/domain/rules"
	"github.com/oksasatya/go-user-accounts/internal/infrastructure/imagestore"
	"github.com/oksasatya/go-user-accounts/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/go-user-accounts/internal/infrastructure/postgres"
	sqliteinfra "github.com/oksasatya/go-user-accounts/internal/infrastructure/sqlite"
	"github.com/oksasatya/go-user-accounts/internal/interface/middleware"
	"github.com/oksasatya/go-user-accounts/internal/router"
	"github.com/oksasatya/go-user-accounts/pkg/helpers"
	mailtpl "github.com/oksasatya/go-user-accounts/pkg/mailer/templates"
	"github.com/oksasatya/go-user-accounts/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	if err := validation.Init(); err != nil {
		log.Fatalf("validator init: %v", err)
	}
	mode, err := rules.ParseMode(cfg.ValidationMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	c := container.New(cfg, logger)
	defer func() {
		if err := c.Close(); err != nil {
			logger.WithError(err).Warn("close resources")
		}
	}()

	users, err := openStore(ctx, cfg, c)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreDriver, err)
	}

	backend, err := openImageBackend(ctx, cfg, c)
	if err != nil {
		log.Fatalf("failed to init %s image backend: %v", cfg.ImageBackend, err)
	}
	intake := imagestore.NewIntake(imagestore.Policy{
		AllowedTypes: cfg.ImageTypes(),
		MaxBytes:     cfg.MaxUploadBytes,
	}, backend)

	var notifier application.Notifier
	if cfg.NotifyEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		c.OnClose(func() error { pub.Close(); return nil })
		notifier = notify.NewEmailNotifier(pub, mailtpl.Brand{
			AppName:     cfg.AppName,
			CompanyName: cfg.CompanyName,
			SupportURL:  cfg.SupportURL,
		})
	}

	c.Users = application.NewService(
		users,
		helpers.NewBcryptHasher(cfg.BcryptCost),
		intake,
		rules.New(mode),
		notifier,
		logger,
	)

	// Gin engine and global middleware
	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(middleware.AccessLog(logger))
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.WithFields(logrus.Fields{
			"store":      cfg.StoreDriver,
			"images":     cfg.ImageBackend,
			"validation": mode,
		}).Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// openStore connects the configured record store and registers its cleanup on c.
func openStore(ctx context.Context, cfg *config.Config, c *container.Container) (repo.UserRepository, error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, err
		}
		c.OnClose(func() error { pool.Close(); return nil })
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, c.Logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return pginfra.NewUserRepository(pool), nil
	case "sqlite":
		db, err := sqliteinfra.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		c.OnClose(db.Close)
		r := sqliteinfra.NewUserRepository(db)
		if err := r.Init(ctx); err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}

func openImageBackend(ctx context.Context, cfg *config.Config, c *container.Container) (imagestore.Backend, error) {
	switch cfg.ImageBackend {
	case "local":
		return imagestore.NewLocalBackend(cfg.UploadDir, cfg.UploadURLPrefix)
	case "gcs":
		if cfg.GCSBucket == "" {
			return nil, errors.New("GCS_BUCKET is required")
		}
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, err
		}
		c.OnClose(client.Close)
		return imagestore.NewGCSBackend(client, cfg.GCSBucket, cfg.GCSPrefix), nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, errors.New("S3_BUCKET is required")
		}
		client, err := helpers.NewS3Client(ctx, cfg.S3Region, cfg.AWSProfile, cfg.S3Endpoint)
		if err != nil {
			return nil, err
		}
		return imagestore.NewS3Backend(client, cfg.S3Bucket, cfg.S3KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown IMAGE_BACKEND %q", cfg.ImageBackend)
	}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
