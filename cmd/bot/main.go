package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/studymate/studymate-bot/internal/api"
	"github.com/studymate/studymate-bot/internal/bot"
	"github.com/studymate/studymate-bot/internal/config"
	"github.com/studymate/studymate-bot/internal/database"
	"github.com/studymate/studymate-bot/internal/digest"
	"github.com/studymate/studymate-bot/internal/session"
	"github.com/studymate/studymate-bot/internal/speech"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate required config. A missing backend URL is fatal: there is
	// no fallback to guess at.
	if cfg.BackendURL == "" {
		log.Fatal("BACKEND_URL is required")
	}
	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the session database
	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	sessions := session.NewStore(db)
	backend := api.New(cfg.BackendURL)

	// Voice transcription is optional
	var transcriber *speech.Transcriber
	if cfg.SpeechAPIKey != "" {
		transcriber = speech.New(cfg.SpeechAPIKey, cfg.SpeechBaseURL, cfg.SpeechModel)
		log.Printf("Speech transcription enabled (model: %s)", cfg.SpeechModel)
	} else {
		log.Println("Speech transcription not configured, voice input disabled")
	}

	tg, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to create Telegram API: %v", err)
	}

	// Start the morning digest scheduler
	go digest.New(tg, backend, sessions).Start(ctx)

	b, err := bot.New(tg, backend, sessions, transcriber)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	log.Println("Starting bot...")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot error: %v", err)
	}
}
