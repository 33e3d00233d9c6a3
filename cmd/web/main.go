package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/peterkuimelis/lexicarcana/internal/config"
	"github.com/peterkuimelis/lexicarcana/internal/store"
	"github.com/peterkuimelis/lexicarcana/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	port := flag.Int("port", 8080, "HTTP port to listen on")
	decksFile := flag.String("decks", cfg.DecksPath, "path to decks YAML file")
	storePath := flag.String("store", cfg.StorePath, "SQLite file for crafted decks (empty disables saving)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	synth, err := cfg.Synthesizer()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	wcfg := web.Config{DecksFile: *decksFile, Synth: synth, CostCap: cfg.DeckCostCap}
	if *storePath != "" {
		st, err := store.Open(ctx, *storePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer st.Close()
		wcfg.Store = st
	}

	srv, err := web.NewServer(wcfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("Lexica Arcana web UI listening on http://localhost:%d", *port)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
