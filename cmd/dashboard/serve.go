package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-dashboard/internal/server"
	"github.com/fekuna/omnipos-dashboard/migrations"
	"github.com/fekuna/omnipos-dashboard/pkg/broker"
	"github.com/fekuna/omnipos-dashboard/pkg/cache"
	"github.com/fekuna/omnipos-dashboard/pkg/database"
	"github.com/fekuna/omnipos-dashboard/pkg/mailer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), skipMigrate)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply pending migrations on start")
	return cmd
}

func runServe(ctx context.Context, skipMigrate bool) error {
	// 1. Load Configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// 2. Initialize Logger
	appLogger := newLogger(cfg)
	defer appLogger.Sync()

	// 3. Migrate and connect to Database
	dsn := cfg.Postgres.DSN()
	if !skipMigrate {
		if err := migrations.Migrate(dsn); err != nil {
			return err
		}
		appLogger.Info("Database migrated")
	}

	db, err := database.NewPostgres(&database.Config{
		DSN:             dsn,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	deps := server.Deps{DB: db}

	// 4. Optional Redis; the catalog runs uncached without it
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Warn("Could not connect to Redis, product lists will not be cached", zap.Error(err))
		} else {
			defer redisClient.Close()
			deps.Cache = redisClient
			appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	// 5. Optional Kafka producer for sale events
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(&broker.Config{
			Brokers:        cfg.Kafka.Brokers,
			Topic:          cfg.Kafka.Topic,
			PublishTimeout: cfg.Kafka.PublishTimeout,
		}, appLogger)
		defer producer.Close()
		deps.Events = producer
		appLogger.Info("Kafka producer ready", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	// 6. Mail delivery, logged when no SMTP host is configured
	if cfg.Mail.Host != "" {
		deps.Mailer = mailer.NewSMTPMailer(mailer.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
	}

	// 7. Build and run the server until SIGINT/SIGTERM
	srv, err := server.New(cfg, deps, appLogger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}
