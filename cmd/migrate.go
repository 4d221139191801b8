package main

import (
	"log"

	"github.com/addisbingo/cartela-backend/config"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("[FATAL] DATABASE_URL is required")
	}
	if _, err := config.SetupDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("[FATAL] Migration failed: %v", err)
	}
	log.Println("Database migration completed")
}
