package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/peterkuimelis/lexicarcana/internal/config"
	lexnet "github.com/peterkuimelis/lexicarcana/internal/net"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch os.Args[1] {
	case "host":
		err = runHost(ctx, cfg, os.Args[2:])
	case "join":
		err = runJoin(ctx, os.Args[2:])
	case "bot":
		err = runBot(ctx, cfg, os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  lexica host [--deck N] [--port P] [--decks FILE] [--bot]")
	fmt.Println("  lexica join [--deck N] [--addr ADDR]")
	fmt.Println("  lexica bot  [--deck N] [--bot-deck N] [--decks FILE]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  host    Start a match server and play as Player 1 (or seat a bot with --bot)")
	fmt.Println("  join    Connect to a match server and play as Player 2")
	fmt.Println("  bot     Play against the bot locally")
	fmt.Println()
	fmt.Println("Settings are read from LEXICA_* environment variables and .env.")
}

// newServer builds a match server from the environment config.
func newServer(cfg config.Config, decksFile string) (*lexnet.Server, error) {
	synth, err := cfg.Synthesizer()
	if err != nil {
		return nil, err
	}
	return &lexnet.Server{
		DeckFile:       decksFile,
		Synth:          synth,
		CostCap:        cfg.DeckCostCap,
		StartingHealth: cfg.StartingHealth,
		HandCap:        cfg.HandCap,
		InitialHand:    cfg.OpeningHand(),
		MaxRounds:      cfg.MaxRounds,
		BotDelay:       cfg.BotDelay,
	}, nil
}

func runHost(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("host", flag.ExitOnError)
	deck := fs.Int("deck", 1, "deck number to use (from the decks file)")
	port := fs.String("port", "9000", "TCP port to listen on")
	decksFile := fs.String("decks", cfg.DecksPath, "path to decks file")
	hostBot := fs.Bool("bot", false, "seat a bot as the host instead of playing")
	fs.Parse(args)

	srv, err := newServer(cfg, *decksFile)
	if err != nil {
		return err
	}
	srv.Port = *port
	srv.HostDeck = *deck
	srv.HostBot = *hostBot
	return srv.Run(ctx)
}

func runJoin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("join", flag.ExitOnError)
	deck := fs.Int("deck", 2, "deck number to use (from the host's decks file)")
	addr := fs.String("addr", "localhost:9000", "server address to connect to")
	fs.Parse(args)

	return lexnet.Connect(ctx, *addr, *deck)
}

func runBot(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("bot", flag.ExitOnError)
	deck := fs.Int("deck", 1, "deck number to use (from the decks file)")
	botDeck := fs.Int("bot-deck", 2, "deck number for the bot")
	decksFile := fs.String("decks", cfg.DecksPath, "path to decks file")
	fs.Parse(args)

	srv, err := newServer(cfg, *decksFile)
	if err != nil {
		return err
	}
	srv.HostDeck = *deck
	srv.BotDeck = *botDeck
	srv.VsBot = true
	return srv.Run(ctx)
}
