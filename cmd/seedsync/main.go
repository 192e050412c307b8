package main

import (
	"log"
	"os"

	"github.com/andreyxaxa/Seed-Manager/config"
	"github.com/andreyxaxa/Seed-Manager/internal/app"
)

func main() {
	// Config
	cfg, args, err := config.NewSeedSync(os.Args[1:])
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	// Run
	os.Exit(app.RunSeedSync(cfg, args))
}
