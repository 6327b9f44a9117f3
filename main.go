package main

import (
	"log"

	"k12_tutor_backend/internal/app"
	"k12_tutor_backend/internal/config"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	application.Run()
}
