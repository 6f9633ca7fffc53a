package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/ITKKhan/HorrorWatchBot/internal/app"
	"github.com/ITKKhan/HorrorWatchBot/internal/config"
	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
	"github.com/ITKKhan/HorrorWatchBot/pkg/omdb"
)

func main() {
	envFile := flag.String("env", ".env", "path to the .env file (optional)")
	verbose := flag.Bool("verbose", false, "log every request and inbound event")
	flag.Parse()

	// A missing .env file is fine; the environment may be set directly
	if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Failed to load %s: %v\n", *envFile, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))
	if *verbose {
		log.EnableTrafficLogging()
	}

	if cfg.OMDBAPIKey == "" {
		log.Warn("OMDB_API_KEY is not set; movie lookups will fail")
	}
	lookup := omdb.NewHTTPClient(cfg.OMDBBaseURL, cfg.OMDBAPIKey, log)

	a, err := app.New(log, cfg, lookup)
	if err != nil {
		log.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		log.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
