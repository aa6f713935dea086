package main

import (
	"log"

	"attesta/config"
	"attesta/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	gormDB, err := db.NewDB(cfg.DSN)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	if err := db.SeedEvents(gormDB); err != nil {
		log.Fatalf("seed events failed: %v", err)
	}

	log.Println("seed completed")
}
