package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndewijer/Fund-Trading-Backend/internal/api"
	"github.com/ndewijer/Fund-Trading-Backend/internal/config"
	"github.com/ndewijer/Fund-Trading-Backend/internal/database"
	"github.com/ndewijer/Fund-Trading-Backend/internal/repository"
	"github.com/ndewijer/Fund-Trading-Backend/internal/scheduler"
	"github.com/ndewijer/Fund-Trading-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	fundRepo := repository.NewFundRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	tradeRepo := repository.NewTradeRepository(db)
	indexDataRepo := repository.NewIndexDataRepository(db)
	systemRepo := repository.NewSystemRepository(db)

	// Create services
	systemService, err := service.NewSystemService(db, systemRepo, cfg.Security.FernetKey)
	if err != nil {
		log.Fatalf("Failed to create system service: %v", err)
	}
	fundService := service.NewFundService(fundRepo)
	portfolioService := service.NewPortfolioService(portfolioRepo, positionRepo)
	calendarService := service.NewCalendarService(calendarRepo)
	tradeService := service.NewTradeService(tradeRepo)
	generationService := service.NewGenerationService(db, portfolioRepo, positionRepo, fundRepo, calendarRepo, tradeRepo)
	importService := service.NewImportService(db, fundRepo, portfolioRepo, positionRepo, calendarRepo, indexDataRepo)

	// Create router
	router := api.NewRouter(api.Services{
		System:     systemService,
		Fund:       fundService,
		Portfolio:  portfolioService,
		Calendar:   calendarService,
		Trade:      tradeService,
		Generation: generationService,
		Import:     importService,
	}, cfg)

	// Start the position file sweep
	sweep, err := scheduler.New(importService, cfg.Importer.DropDir, cfg.Importer.CronSpec)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	sweep.Start()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	sweep.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
