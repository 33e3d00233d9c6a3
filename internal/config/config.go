// Package config reads process configuration from the environment, after
// optionally loading a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/peterkuimelis/lexicarcana/internal/card"
	"github.com/peterkuimelis/lexicarcana/internal/term"
)

// Config holds settings shared by the binaries. Flags override individual
// fields after Load.
type Config struct {
	CatalogPath    string        `env:"LEXICA_CATALOG"`
	DecksPath      string        `env:"LEXICA_DECKS" envDefault:"decks.yaml"`
	DeckCostCap    int           `env:"LEXICA_DECK_COST_CAP" envDefault:"500"`
	StartingHealth int           `env:"LEXICA_STARTING_HEALTH" envDefault:"30"`
	HandCap        int           `env:"LEXICA_HAND_CAP" envDefault:"6"`
	InitialHand    int           `env:"LEXICA_INITIAL_HAND" envDefault:"5"`
	MaxRounds      int           `env:"LEXICA_MAX_ROUNDS" envDefault:"0"`
	BotDelay       time.Duration `env:"LEXICA_BOT_DELAY" envDefault:"1s"`
	StorePath      string        `env:"LEXICA_STORE" envDefault:"lexica.db"`
}

// Load reads the given .env files (default ".env"; missing files are
// ignored) and parses the environment into a Config.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	switch {
	case c.DeckCostCap <= 0:
		return fmt.Errorf("LEXICA_DECK_COST_CAP must be positive, got %d", c.DeckCostCap)
	case c.StartingHealth <= 0:
		return fmt.Errorf("LEXICA_STARTING_HEALTH must be positive, got %d", c.StartingHealth)
	case c.HandCap <= 0:
		return fmt.Errorf("LEXICA_HAND_CAP must be positive, got %d", c.HandCap)
	case c.InitialHand < 0 || c.InitialHand > c.HandCap:
		return fmt.Errorf("LEXICA_INITIAL_HAND must be between 0 and the hand cap, got %d", c.InitialHand)
	case c.MaxRounds < 0:
		return fmt.Errorf("LEXICA_MAX_ROUNDS must not be negative, got %d", c.MaxRounds)
	case c.BotDelay < 0:
		return fmt.Errorf("LEXICA_BOT_DELAY must not be negative, got %s", c.BotDelay)
	}
	return nil
}

// Catalog loads the configured term catalog, or the embedded default.
func (c Config) Catalog() (*term.Catalog, error) {
	if c.CatalogPath == "" {
		return term.Default()
	}
	return term.LoadCatalog(c.CatalogPath)
}

// Synthesizer returns a synthesizer over the configured catalog.
func (c Config) Synthesizer() (*card.Synthesizer, error) {
	cat, err := c.Catalog()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return card.NewSynthesizer(cat), nil
}

// OpeningHand is InitialHand in the form the match engine expects, where
// zero selects the default and a negative count deals nothing.
func (c Config) OpeningHand() int {
	if c.InitialHand == 0 {
		return -1
	}
	return c.InitialHand
}

