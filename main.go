package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/aanchallguptaa/mgnrega-tracker/config"
	"github.com/aanchallguptaa/mgnrega-tracker/geocode"
	"github.com/aanchallguptaa/mgnrega-tracker/handlers"
	"github.com/aanchallguptaa/mgnrega-tracker/middleware"
	"github.com/aanchallguptaa/mgnrega-tracker/seed"
	"github.com/aanchallguptaa/mgnrega-tracker/store"
)

const seedRefreshInterval = 24 * time.Hour

func main() {
	startTime := time.Now()
	log.Printf("Starting server initialization at %s", startTime.Format(time.RFC3339))

	cfg := config.Load()

	log.Println("Connecting to MongoDB...")
	st, err := store.Connect(cfg.MongoURI, cfg.MongoDBName, cfg.ConnectRetries)
	if err != nil {
		log.Fatalf("Failed to initialize MongoDB: %v", err)
	}
	defer st.Close()

	// Seed reference districts and the current month's synthetic data
	// before accepting traffic.
	seeder := seed.New(st)
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 2*time.Minute)
	if _, err := seeder.Run(seedCtx, "startup"); err != nil {
		log.Fatalf("Failed to seed data: %v", err)
	}
	cancelSeed()

	geocoder := geocode.New(cfg.GeocoderBaseURL)
	h := handlers.New(st, geocoder, seeder)

	r := mux.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Requested-With",
			"Origin",
		},
		MaxAge: 86400,
	})

	r.Use(corsHandler.Handler)
	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	h.Register(api)
	log.Println("Routes registered successfully")

	srv := &http.Server{
		Handler:           r,
		Addr:              ":" + cfg.Port,
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Starting server on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	// Re-run the idempotent seeder daily so a process alive across a month
	// boundary picks up the new target month.
	refreshDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(seedRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
				if _, err := seeder.Run(ctx, "daily"); err != nil {
					log.Printf("Daily data refresh failed: %v", err)
				}
				cancel()
			case <-refreshDone:
				return
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("Shutdown signal received")
	case err := <-serverErrors:
		log.Printf("Server error received: %v", err)
	}

	close(refreshDone)

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	} else {
		log.Println("Server shutdown completed successfully")
	}
}
