package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/lanes/internal/api"
	"github.com/playmatatu/lanes/internal/auth"
	"github.com/playmatatu/lanes/internal/config"
	"github.com/playmatatu/lanes/internal/database"
	"github.com/playmatatu/lanes/internal/game"
	"github.com/playmatatu/lanes/internal/migrations"
	"github.com/playmatatu/lanes/internal/physics"
	"github.com/playmatatu/lanes/internal/redis"
	"github.com/playmatatu/lanes/internal/ws"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize configuration (loads .env when present)
	cfg := config.Load()

	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		log.Fatalf("Failed to load tuning: %v", err)
	}
	if cfg.TuningFile != "" {
		log.Printf("Loaded gameplay tuning from %s", cfg.TuningFile)
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations on start if requested
	if cfg.MigrateOnStart {
		log.Println("↗ Running DB migrations on startup...")
		if err := migrations.RunMigrations(cfg.DatabaseURL, migrations.DefaultDir); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	// Initialize Redis
	rdb, err := redis.Connect(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer rdb.Close()

	manager := game.NewManager(db, rdb, game.ManagerOptions{
		Settings: tuning.Settings(),
		NewWorld: func(lane game.Lane) game.World {
			return physics.NewWorld(lane, tuning.Physics)
		},
		TickRateHz:  cfg.TickRateHz,
		BroadcastHz: cfg.BroadcastHz,
		MaxSessions: cfg.MaxSessions,
	})
	defer manager.Shutdown()

	// WebSocket fan-out: Redis pub/sub for every process, local delivery
	// when a publish fails
	hub := ws.NewHub()
	go hub.Run(ctx)
	ws.StartEventSubscriber(ctx, rdb, hub)
	manager.Subscribe(hub.Broadcast)

	game.StartIdleWorker(ctx, manager,
		time.Duration(cfg.IdleTimeoutSeconds)*time.Second,
		time.Duration(cfg.IdleWorkerPollSeconds)*time.Second)

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// origins are checked by middleware.WebSocketCORSCheck on the route
	wsHandler := ws.NewHandler(hub, manager, func(*http.Request) bool { return true })

	api.SetupRoutes(router, api.Deps{
		Config:  cfg,
		Tuning:  tuning,
		Manager: manager,
		Issuer:  auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.LaneTokenTTLMinutes)*time.Minute),
		WS:      wsHandler,
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		log.Printf("Starting lanes server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
