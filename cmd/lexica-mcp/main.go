package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/lexicarcana/internal/config"
	lexmcp "github.com/peterkuimelis/lexicarcana/internal/mcp"
	"github.com/peterkuimelis/lexicarcana/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	decks := flag.String("decks", cfg.DecksPath, "path to decks YAML file")
	storePath := flag.String("store", cfg.StorePath, "SQLite file for crafted decks (empty disables saving)")
	flag.Parse()

	synth, err := cfg.Synthesizer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	tools := &lexmcp.Tools{
		Synth:          synth,
		DecksFile:      *decks,
		CostCap:        cfg.DeckCostCap,
		MaxRounds:      cfg.MaxRounds,
		StartingHealth: cfg.StartingHealth,
		HandCap:        cfg.HandCap,
		InitialHand:    cfg.OpeningHand(),
		BotDelay:       cfg.BotDelay,
	}
	if *storePath != "" {
		st, err := store.Open(context.Background(), *storePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		tools.Store = st
	}

	s := server.NewMCPServer("lexica-arcana", "1.0.0")
	tools.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
