package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/bootstrap"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/config"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/server"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/tracer"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/database"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, gormDB, cfg)
	defer container.Close()

	shutdownTracer := tracer.InitTracer(ctx, cfg.Tracing, container.Logger)
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Tracer shutdown error: %v", err)
		}
	}()

	// 4. Start Background Services
	if err := container.Start(ctx); err != nil {
		log.Printf("Background services error: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
