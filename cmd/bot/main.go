package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-workua-scraper/internal/app"
	"go-workua-scraper/internal/config"
	"go-workua-scraper/internal/session"
	"go-workua-scraper/internal/telegram"
)

func main() {
	cfg, err := config.Load(os.Getenv("SCRAPER_CONFIG"))
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("❌ %v", err)
	}

	rt, err := app.New(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to init scraper: %v", err)
	}
	defer rt.Close()

	bot, err := telegram.NewBot(cfg.TelegramToken, rt.Scraper, session.NewStore(cfg.CacheTTL()), cfg.SearchLimit)
	if err != nil {
		log.Fatalf("❌ Failed to init Telegram Bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Println("🚀 Work.ua bot is running...")
	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("❌ Bot stopped: %v", err)
	}
	log.Println("🏁 Bot stopped.")
}
