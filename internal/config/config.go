package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	BackendURL    string
	DatabaseURI   string
	TelegramToken string
	SpeechAPIKey  string
	SpeechBaseURL string
	SpeechModel   string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	return &Config{
		BackendURL:    os.Getenv("BACKEND_URL"),
		DatabaseURI:   os.Getenv("DATABASE_URI"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		SpeechAPIKey:  os.Getenv("SPEECH_API_KEY"),
		SpeechBaseURL: os.Getenv("SPEECH_BASE_URL"),
		SpeechModel:   getEnvOrDefault("SPEECH_MODEL", "whisper-1"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
