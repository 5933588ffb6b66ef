package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go-workua-scraper/internal/api"
	"go-workua-scraper/internal/app"
	"go-workua-scraper/internal/config"
)

func main() {
	cfg, err := config.Load(os.Getenv("SCRAPER_CONFIG"))
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	rt, err := app.New(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to init scraper: %v", err)
	}
	defer rt.Close()

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           api.NewRouter(rt.Scraper, cfg.SearchLimit),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server listening on port %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
}
