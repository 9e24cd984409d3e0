package main

import (
	"context"
	"log"

	"travel-assistant-be/internal/bootstrap"
	"travel-assistant-be/internal/config"
	"travel-assistant-be/internal/server"
	"travel-assistant-be/internal/tracer"
	"travel-assistant-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 0. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database (optional; feedback degrades to memory without it)
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	} else {
		log.Println("Note: DB_CONNECTION_STRING not set, running without a database")
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer func() {
		if container.NatsPub != nil {
			container.NatsPub.Close()
		}
		if err := container.VectorIndex.Close(); err != nil {
			log.Printf("Failed to close vector index: %v", err)
		}
	}()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server
	log.Fatal(srv.Run())
}
