package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/lawnchairsociety/hexforge/internal/config"
	"github.com/lawnchairsociety/hexforge/internal/continent"
	"github.com/lawnchairsociety/hexforge/internal/database"
	"github.com/lawnchairsociety/hexforge/internal/logger"
	"github.com/lawnchairsociety/hexforge/internal/overlay"
	"github.com/lawnchairsociety/hexforge/internal/server"
	"github.com/lawnchairsociety/hexforge/internal/tables"
)

func main() {
	configFile := flag.String("config", "data/hexforge.yaml", "Path to server config YAML file")
	loggingConfig := flag.String("logging", "data/logging.yaml", "Path to logging config YAML file")
	hashPassword := flag.Bool("hash-password", false, "Read an admin password from stdin, print its bcrypt hash and exit")
	flag.Parse()

	// Initialize logger first (before any logging)
	logConfig, err := logger.LoadConfig(*loggingConfig)
	if err != nil {
		log.Fatalf("Invalid logging configuration: %v", err)
	}
	if err := logger.Initialize(logConfig); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", *configFile, err)
	}

	if *hashPassword {
		handleHashPassword(cfg.Password)
		return
	}

	logger.Info("Starting hexforge", "config", *configFile)

	// Global tables come from the database when one is configured,
	// otherwise from the tables file.
	var store tables.Store
	var hexes server.HexStore
	if cfg.Database.Driver != "" {
		db, err := database.OpenWithConfig(cfg.Database)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
		store, hexes = db, db
		logger.Info("Database initialized", "driver", cfg.Database.Driver)
	} else if cfg.Data.TablesFile != "" {
		mem, err := tables.LoadFile(cfg.Data.TablesFile)
		if err != nil {
			logger.Warning("Failed to load tables file, using built-in tables", "path", cfg.Data.TablesFile, "error", err)
		} else {
			store = mem
			logger.Info("Tables loaded", "path", cfg.Data.TablesFile, "entries", len(mem.Rows()))
		}
	}

	lore, err := continent.LoadLore(cfg.Data.LoreFile)
	if err != nil {
		logger.Warning("Failed to load lore, continent hexes will be fully generated", "path", cfg.Data.LoreFile, "error", err)
	} else {
		logger.Info("Lore loaded", "path", cfg.Data.LoreFile, "hexes", len(lore))
	}

	cache := overlay.NewCache(cfg.Data.CitiesDir, store)
	gen := overlay.New(cache, lore, overlay.Options{
		Language:    cfg.Data.Language,
		Bounds:      cfg.Map.Bounds,
		Parallelism: cfg.Map.Parallelism,
		Terrain:     cfg.Map.Terrain,
	})
	logger.Info("Cities available", "count", len(gen.Cities()))

	if len(cfg.WebSocket.AllowedOrigins) == 0 {
		logger.Info("WebSocket CORS policy", "mode", "same-origin")
	} else if len(cfg.WebSocket.AllowedOrigins) == 1 && cfg.WebSocket.AllowedOrigins[0] == "*" {
		logger.Warning("WebSocket CORS allows all origins (not recommended for production)")
	} else {
		logger.Info("WebSocket CORS policy", "allowed_origins", cfg.WebSocket.AllowedOrigins)
	}
	if !cfg.Admin.Enabled() {
		logger.Info("Admin endpoints disabled, set admin.password_hash to enable them")
	}

	srv := server.New(cfg, gen, hexes)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown did not complete cleanly", "error", err)
	}
	logger.Info("Server stopped")
}

// handleHashPassword validates a password read from stdin and prints its
// bcrypt hash for admin.password_hash.
func handleHashPassword(rules config.PasswordConfig) {
	fmt.Fprintf(os.Stderr, "Admin password (%s): ", rules.RequirementsText())
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintf(os.Stderr, "Error: failed to read password: %v\n", err)
		os.Exit(1)
	}
	password := strings.TrimRight(line, "\r\n")

	if err := rules.ValidatePassword(password); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to hash password: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(hash))
}
