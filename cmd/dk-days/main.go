package main

import (
	"embed"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/klabast/wb-services/dk-days/internal/app"
	"github.com/klabast/wb-services/dk-days/internal/commands"
	"github.com/klabast/wb-services/dk-days/internal/stay"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed static/index.html
var indexHTML []byte

const sessionIdle = 24 * time.Hour

func main() {
	// Check for subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "hash-password":
			commands.HashPassword(os.Args[2:])
			return
		case "report":
			os.Exit(commands.Report(os.Args[2:]))
		}
	}

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Flags override the environment
	flag.IntVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
	flag.StringVar(&cfg.SeedFile, "seed", cfg.SeedFile, "Schedule file new sessions start from")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Directory schedules are saved to")
	windowLength := flag.Int("window", cfg.Window.WindowLength, "Window length in days")
	maxAllowed := flag.Int("max", cfg.Window.MaxAllowed, "Maximum days allowed in the window")
	flag.Parse()
	cfg.SetWindow(stay.WindowConfig{WindowLength: *windowLength, MaxAllowed: *maxAllowed})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	seed := stay.NewPresenceSet()
	if cfg.SeedFile != "" {
		if seed, err = app.LoadSchedule(cfg.SeedFile); err != nil {
			log.Fatalf("Failed to load seed schedule: %v", err)
		}
		log.Printf("Seeded sessions with %d days from %s", seed.Len(), cfg.SeedFile)
	}

	auth, err := app.LoadAuthenticator(cfg.AuthFile)
	if err != nil {
		log.Fatalf("Failed to load auth credentials: %v", err)
	}

	server := app.NewServer(cfg, seed, auth, indexHTML)
	go pruneSessions(server.Sessions)

	log.Printf("Starting DK Days on http://localhost:%d (rule: %d days in %d)",
		cfg.Port, cfg.Window.MaxAllowed, cfg.Window.WindowLength)
	log.Printf("Data directory: %s", cfg.DataDir)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           app.NewRouter(server, staticFiles),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

func pruneSessions(store *app.SessionStore) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		if n := store.Prune(time.Now().Add(-sessionIdle)); n > 0 {
			log.Printf("Pruned %d idle sessions", n)
		}
	}
}
