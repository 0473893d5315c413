// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables, and
// an optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the server's listening address (ip:port).
	Addr string

	// DatabaseDSN holds the database connection string.
	DatabaseDSN string

	// GroqURL is the completions endpoint; empty means the production Groq API.
	GroqURL string

	// GroqTimeout bounds a single completion request.
	GroqTimeout time.Duration

	// JWTSecret signs the API bearer tokens.
	JWTSecret string

	// LogLevel sets the zap logging level.
	LogLevel string

	// Config is the path to the config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{GroqTimeout: 60 * time.Second}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.GroqURL, "groq-url", "", "completions endpoint override")
	flag.StringVar(&options.JWTSecret, "jwt-secret", "", "secret for signing API tokens")
	flag.StringVar(&options.LogLevel, "log-level", "info", "logging level")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags, the optional config file, and
// environment variables to set configuration values. Environment variables
// win over the file, the file wins over flag defaults. A .env file in the
// working directory is loaded first if present.
func Parse() *Options {
	flag.Parse()

	// Best effort; a missing .env is not an error.
	_ = godotenv.Load()

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, options); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		options.Addr = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		options.DatabaseDSN = dsn
	}
	if groqURL := os.Getenv("GROQ_URL"); groqURL != "" {
		options.GroqURL = groqURL
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		options.JWTSecret = secret
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		options.LogLevel = level
	}

	if options.JWTSecret == "" {
		options.JWTSecret = "dev-secret-change-in-production"
	}

	return options
}
