package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "equipment-dispatch-backend/internal/api/http"
	"equipment-dispatch-backend/internal/config"
	"equipment-dispatch-backend/internal/logger"
	"equipment-dispatch-backend/internal/repository/postgres"
	"equipment-dispatch-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Equipment Dispatch Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("SMTP configuration", "host", cfg.SMTP.Host, "port", cfg.SMTP.Port)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.SMTP.Host,
		fmt.Sprintf("%d", cfg.SMTP.Port),
		cfg.SMTP.User,
		cfg.SMTP.Password,
		cfg.SMTP.From,
	)
	auditSvc := service.NewAuditService(store.AuditRepository)
	senioritySvc := service.NewSeniorityService(store.SeniorityRepository, auditSvc, cfg.Dispatch.SeniorityWeights)
	rotationSvc := service.NewRotationService(
		store.EquipmentRepository,
		store.RentalRequestRepository,
		store.RotationListRepository,
		auditSvc,
		cfg.Dispatch.BlockCallOutOrder,
	)
	dispatchSvc := service.NewDispatchService(
		store.RotationListRepository,
		store.RentalRequestRepository,
		store.EquipmentRepository,
		store.SeniorityRepository,
		auditSvc,
		emailSvc,
		time.Duration(cfg.Dispatch.OfferWindowHours)*time.Hour,
	)

	// Initialize Router
	router := httpapi.NewRouter(&cfg.Dispatch, httpapi.Services{
		Dispatch:  dispatchSvc,
		Rotation:  rotationSvc,
		Seniority: senioritySvc,
		Audit:     auditSvc,
		Requests:  store.RentalRequestRepository,
	})

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
