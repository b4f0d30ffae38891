package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

const (
	modeEvolution = "evolution"
	modeTelegram  = "telegram"
)

// config holds flag and environment configuration
type config struct {
	HTTPAddr   string
	Mode       string
	LogVerbose bool

	EvolutionURL     string        `env:"EVOLUTION_API_URL"`
	EvolutionAPIKey  string        `env:"EVOLUTION_API_KEY"`
	EvolutionTimeout time.Duration `env:"EVOLUTION_TIMEOUT,default=30s"`
	TelegramBotToken string        `env:"TELEGRAM_BOT_TOKEN"`
	LogJSON          bool          `env:"LOG_JSON,default=false"`
}

func loadConfig(args []string) (config, error) {
	cfg := config{}
	fs := flag.NewFlagSet("evopoll", flag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "http-addr", ":8080", "HTTP listen address (default :8080)")
	fs.StringVar(&cfg.Mode, "mode", modeEvolution, "Delivery mode: evolution or telegram (default evolution)")
	fs.BoolVar(&cfg.LogVerbose, "verbose", false, "Enable verbose logging (default = false)")
	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return config{}, fmt.Errorf("failed to decode env: %w", err)
	}

	switch cfg.Mode {
	case modeEvolution:
		if cfg.EvolutionURL == "" {
			return config{}, errors.New("env EVOLUTION_API_URL is required in evolution mode")
		}
	case modeTelegram:
		if cfg.TelegramBotToken == "" {
			return config{}, errors.New("env TELEGRAM_BOT_TOKEN is required in telegram mode")
		}
	default:
		return config{}, fmt.Errorf("unknown mode %q, see available options using --help", cfg.Mode)
	}
	return cfg, nil
}
