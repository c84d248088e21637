package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-studyaid-be/internal/bootstrap"
	"ai-studyaid-be/internal/config"
	"ai-studyaid-be/internal/server"
	"ai-studyaid-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 4. Start Background Services
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()

	log.Println("Background: Starting Consumer Service...")
	if err := container.StartConsumers(consumerCtx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// 6. Wait for shutdown signal, then drain
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	cancelConsumer()

	if err := srv.GetApp().ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	if container.NatsPub != nil {
		container.NatsPub.Close()
	}
	if err := container.PubSub.Close(); err != nil {
		log.Printf("PubSub close error: %v", err)
	}
	_ = container.Logger.Sync()

	log.Println("Bye.")
}
