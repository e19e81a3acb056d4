package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"p2p-chat-be/internal/bootstrap"
	"p2p-chat-be/internal/config"
	"p2p-chat-be/internal/server"
	"p2p-chat-be/internal/tracer"
	"p2p-chat-be/pkg/database"
)

func main() {
	// 1. Load configuration
	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// 2. Initialize database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.LogLevel)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap dependencies
	container := bootstrap.NewContainer(gormDB, cfg)

	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled, container.Logger)

	// 4. Start background services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := container.Start(ctx); err != nil {
		container.Logger.Error("Main", "Failed to start background services", map[string]interface{}{"error": err.Error()})
	}

	// 5. Serve until signalled
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			container.Logger.Error("Main", "Server stopped", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	_ = shutdownTracer(shutdownCtx)
}
