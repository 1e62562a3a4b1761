package main

import (
	"context"
	"log"

	"github.com/mkarev/surrealsession/internal/app"
	"github.com/mkarev/surrealsession/internal/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Application error: %v", err)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Application error: %v", err)
	}

	a.Run(ctx)

}
