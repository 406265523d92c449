package main

import (
	"context"
	"os"
	"os/signal"
)

func main() {
	// Initialize custom loggers
	initLoggers()

	InfoLogger.Println("Starting SunFluxBot")

	config, err := findConfig()
	if err != nil {
		ErrorLogger.Fatalf("Error loading configuration: %v", err)
	}

	db, err := initDB(config.DatabaseFile)
	if err != nil {
		ErrorLogger.Fatalf("Error initializing database: %v", err)
	}

	// Create the bot without a TelegramClient first; the client needs the
	// bot's handleUpdate method.
	realClock := RealClock{}
	b, err := NewBot(db, config, realClock, nil)
	if err != nil {
		ErrorLogger.Fatalf("Error creating bot: %v", err)
	}

	tgClient, err := initTelegramBot(config.TelegramToken, b.handleUpdate)
	if err != nil {
		ErrorLogger.Fatalf("Error initializing Telegram client: %v", err)
	}
	b.tgBot = tgClient

	// Run until interrupted.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	InfoLogger.Println("Bot is running")
	b.Start(ctx)

	InfoLogger.Println("Bot stopped. Exiting.")
}
