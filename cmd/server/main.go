package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/zaqqye/attendance_backend/internal/checkin"
	"github.com/zaqqye/attendance_backend/internal/config"
	"github.com/zaqqye/attendance_backend/internal/controllers"
	"github.com/zaqqye/attendance_backend/internal/database"
	"github.com/zaqqye/attendance_backend/internal/jobs"
	"github.com/zaqqye/attendance_backend/internal/locks"
	"github.com/zaqqye/attendance_backend/internal/routes"
	"github.com/zaqqye/attendance_backend/internal/store"
	"github.com/zaqqye/attendance_backend/internal/ws"
)

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	if err := database.SeedAdmin(db, cfg); err != nil {
		log.Fatalf("admin seed failed: %v", err)
	}
	if err := database.SeedSettings(db, cfg); err != nil {
		log.Fatalf("settings seed failed: %v", err)
	}

	var locker locks.Locker = locks.NewLocal()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
		locker = locks.NewRedis(redisClient, cfg.LockTTL)
		log.Printf("admission locks backed by redis at %s", cfg.RedisAddr)
	}

	if err := controllers.RegisterValidators(); err != nil {
		log.Fatalf("validator registration failed: %v", err)
	}

	st := store.New(db)
	hub := ws.NewHub()
	go hub.Run(ctx)
	jobs.StartSessionCloseJob(ctx, cfg, st, hub)

	r := gin.Default()
	routes.Register(r, routes.Deps{
		Store:   st,
		Config:  cfg,
		Hub:     hub,
		CheckIn: checkin.New(st, locker, hub, cfg.LockWait),
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("attendance http listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
