package commands

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/iliyamo/bookstore/internal/config"
	"github.com/iliyamo/bookstore/internal/database"
	"github.com/iliyamo/bookstore/internal/handler"
	"github.com/iliyamo/bookstore/internal/middleware"
	"github.com/iliyamo/bookstore/internal/queue"
	"github.com/iliyamo/bookstore/internal/repository"
	"github.com/iliyamo/bookstore/internal/router"
	"github.com/iliyamo/bookstore/internal/service"
	"github.com/iliyamo/bookstore/internal/validation"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API on APP_PORT.  The schema is created on startup.  Redis
backs the response cache and rate limiter when reachable, and order events
go to RabbitMQ.  Set QUEUE_CONSUMER_ENABLED=true to also run the consumer
that appends events to ORDER_LOG_DIR/orders.log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var logLevels = map[string]glog.Lvl{
	"debug": glog.DEBUG,
	"info":  glog.INFO,
	"warn":  glog.WARN,
	"error": glog.ERROR,
	"off":   glog.OFF,
}

// newServer builds the Echo instance with the global middleware chain and
// every route.  A nil rdb disables caching and rate limiting.
func newServer(cfg config.Config, db *sql.DB, rdb *redis.Client, pub service.Publisher) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.NewEchoValidator()
	if lvl, ok := logLevels[cfg.LogLevel]; ok {
		e.Logger.SetLevel(lvl)
	}

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.LoggerWithConfig(echomw.LoggerConfig{
		Format: "${time_rfc3339} ${id} ${method} ${uri} ${status} ${latency_human}\n",
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Static("/images", cfg.ImagesDir)

	users := repository.NewUserRepo(db)
	books := repository.NewBookRepo(db)
	orders := repository.NewOrderRepo(db)
	items := repository.NewOrderItemRepo(db)

	router.RegisterAll(e, router.Handlers{
		Auth:   handler.NewAuthHandler(cfg, users),
		Users:  handler.NewUserHandler(cfg, users),
		Books:  handler.NewBookHandler(books),
		Orders: handler.NewOrderHandler(orders, items, books, pub),
		Items:  handler.NewOrderItemHandler(items, books),
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		Cache:     config.LoadCacheConfig(),
		Redis:     rdb,
	})
	return e
}

func runServe(parent context.Context) error {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = database.Migrate(migrateCtx, db)
	cancel()
	if err != nil {
		return err
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unreachable; cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	if cfg.ConsumerOn {
		consumer := queue.NewConsumer(cfg.AMQPURL, cfg.OrderLogDir)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("order-consumer stopped: %v", err)
			}
		}()
		log.Printf("order-consumer writing to %s", consumer.LogPath())
	}

	e := newServer(cfg, db, rdb, service.NewAMQPPublisher(cfg.AMQPURL))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Printf("shutting down")
	return e.Shutdown(shutdownCtx)
}
