package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/mstagni/pacplan/internal/config"
	"github.com/mstagni/pacplan/internal/handler"
	"github.com/mstagni/pacplan/internal/integrations/btcmarket"
	"github.com/mstagni/pacplan/internal/integrations/ecb"
	"github.com/mstagni/pacplan/internal/middleware"
	"github.com/mstagni/pacplan/internal/repository"
	"github.com/mstagni/pacplan/internal/scheduler"
	"github.com/mstagni/pacplan/internal/service"
	"github.com/mstagni/pacplan/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	ecbClient := ecb.NewClient(cfg, logger)
	spotClient := btcmarket.NewClient(cfg, logger)
	svc := service.NewService(repo, logger, ecbClient, spotClient)
	h := handler.NewHandler(svc)

	// Contribution reminder job
	if cfg.SMTPConfigured() {
		sched := scheduler.New(cfg, repo, email.NewSender(cfg, logger), logger)
		if err := sched.Start(); err != nil {
			logger.Fatalf("Failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	} else {
		logger.Warn("SMTP not configured, contribution reminders disabled")
	}

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.Recovery(logger), middleware.Logging(logger))
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/users", h.CreateUser).Methods("POST")
	r.HandleFunc("/users/{userID}/plans", h.CreatePlan).Methods("POST")
	r.HandleFunc("/users/{userID}/plans", h.ListPlans).Methods("GET")
	r.HandleFunc("/users/{userID}/plans/{planID}", h.GetPlan).Methods("GET")
	r.HandleFunc("/users/{userID}/plans/{planID}", h.UpdatePlan).Methods("PUT")
	r.HandleFunc("/users/{userID}/plans/{planID}", h.DeletePlan).Methods("DELETE")
	r.HandleFunc("/users/{userID}/plans/{planID}/projection", h.ProjectPlan).Methods("GET")
	r.HandleFunc("/projection/preview", h.Preview).Methods("POST")
	r.HandleFunc("/users/{userID}/trades", h.OpenTrade).Methods("POST")
	r.HandleFunc("/users/{userID}/trades", h.ListTrades).Methods("GET")
	r.HandleFunc("/users/{userID}/trades/{tradeID}/close", h.CloseTrade).Methods("POST")
	r.HandleFunc("/users/{userID}/trades/stats", h.TradeStats).Methods("GET")
	// ECB reference rate endpoint
	r.HandleFunc("/rates/eurusd", func(w http.ResponseWriter, r *http.Request) {
		rate, err := ecbClient.EURUSD()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get EUR/USD rate: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"eur_usd": rate})
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
}
