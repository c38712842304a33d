package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"auction-marketplace/internal/api/handlers"
	"auction-marketplace/internal/api/middleware"
	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/infrastructure/leader"
	"auction-marketplace/internal/infrastructure/mysql"
	"auction-marketplace/internal/infrastructure/redis"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
)

const itemCacheTTL = 30 * time.Second

func main() {
	log := logger.New()
	log.Info("Starting auction marketplace service")

	cfg, err := config.Load()
	if err != nil {
		log.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize Redis
	rdb := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Connected to Redis", "address", cfg.Redis.Address)

	// Initialize MySQL (connects, pings, bootstraps schema)
	db, err := mysql.Open(ctx, cfg.MySQL)
	if err != nil {
		log.Error("Failed to connect to MySQL", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close MySQL connection", "error", err)
		}
	}()
	log.Info("Connected to MySQL")

	// Initialize repositories
	itemRepo := mysql.NewMySQLItemRepository(db)
	userRepo := mysql.NewMySQLUserRepository(db)
	bidLedger := mysql.NewMySQLBidLedger(db)

	// Initialize Redis based components
	itemCache := redis.NewRedisItemCache(rdb, itemCacheTTL)
	eventPublisher := redis.NewRedisEventPublisher(rdb)
	leaderElection := leader.NewRedisLeaderElection(rdb, cfg.Leader.TTL)

	// Initialize auth
	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	passwordHasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	// Initialize services
	accountService := services.NewAccountService(userRepo, passwordHasher, jwtManager, log)
	itemService := services.NewItemService(itemRepo, itemCache, log)
	bidService := services.NewBidService(itemRepo, bidLedger, eventPublisher, itemCache, log)
	sweeper := services.NewSweeper(itemRepo, eventPublisher, itemCache, leaderElection,
		cfg.Instance.ID, cfg.Sweep.Interval, log)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.LoggerWithConfig(echomiddleware.LoggerConfig{
		Format: `{"time":"${time_rfc3339}","id":"${id}","remote_ip":"${remote_ip}","host":"${host}","method":"${method}","uri":"${uri}","user_agent":"${user_agent}","status":${status},"error":"${error}","latency":${latency},"latency_human":"${latency_human}","bytes_in":${bytes_in},"bytes_out":${bytes_out}}` + "\n",
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
	}))

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(accountService, log)
	itemHandler := handlers.NewItemHandler(itemService, log)
	bidHandler := handlers.NewBidHandler(bidService, log)

	requireIdentity := middleware.RequireIdentity(jwtManager)

	// API routes
	api := e.Group("/api/v1")
	api.POST("/signup", accountHandler.Signup)
	api.POST("/signin", accountHandler.Signin)
	api.POST("/items", itemHandler.CreateItem, requireIdentity)
	api.GET("/items", itemHandler.ListItems)
	api.GET("/items/:id", itemHandler.GetItem)
	api.POST("/items/:id/bids", bidHandler.PlaceBid, requireIdentity)
	api.GET("/items/:id/bids", bidHandler.BidHistory)

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"service":   "auction-marketplace",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Start the proactive closing sweep
	if cfg.Sweep.Enabled {
		if err := sweeper.Start(context.Background()); err != nil {
			log.Error("Failed to start sweeper", "error", err)
			os.Exit(1)
		}

		// Keep trying for the sweep lease; whoever holds it sweeps.
		go func() {
			for {
				acquired, err := leaderElection.AcquireLease(context.Background(), cfg.Instance.ID)
				if err != nil {
					log.Error("Failed to acquire sweep lease", "error", err)
					time.Sleep(5 * time.Second)
					continue
				}
				if acquired {
					log.Info("Acquired sweep lease", "instance_id", cfg.Instance.ID)
				}
				time.Sleep(10 * time.Second)
			}
		}()
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Starting HTTP server", "address", serverAddr)

	go func() {
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down auction marketplace service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if cfg.Sweep.Enabled {
		if err := sweeper.Stop(); err != nil {
			log.Error("Failed to stop sweeper", "error", err)
		}
		if err := leaderElection.ReleaseLease(shutdownCtx, cfg.Instance.ID); err != nil {
			log.Error("Failed to release sweep lease", "error", err)
		}
	}

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Auction marketplace service stopped")
}
