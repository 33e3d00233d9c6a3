package net

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/peterkuimelis/lexicarcana/internal/bot"
	"github.com/peterkuimelis/lexicarcana/internal/card"
	"github.com/peterkuimelis/lexicarcana/internal/game"
	"github.com/peterkuimelis/lexicarcana/internal/log"
)

// Server hosts a match between the host seat and a TCP joiner.
type Server struct {
	DeckFile string
	Port     string
	HostDeck int // host's deck number (1-indexed)

	Synth          *card.Synthesizer
	CostCap        int
	StartingHealth int
	HandCap        int
	InitialHand    int
	MaxRounds      int // 0 = no limit

	// HostBot seats a bot as the host; the joiner plays against it.
	HostBot bool
	// VsBot skips the listener and seats a bot as the joiner, playing BotDeck.
	VsBot    bool
	BotDeck  int
	BotDelay time.Duration

	Out io.Writer // match log destination, default os.Stdout
}

func (s *Server) out() io.Writer {
	if s.Out == nil {
		return os.Stdout
	}
	return s.Out
}

// Run starts the server, waits for a client to join (unless VsBot), then runs
// the match.
func (s *Server) Run(ctx context.Context) error {
	if s.VsBot {
		n := s.BotDeck
		if n == 0 {
			n = 2
		}
		return s.play(ctx, nil, n)
	}
	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()
	fmt.Fprintf(s.out(), "Waiting for opponent on port %s...\n", s.Port)
	return s.Serve(ctx, ln)
}

// Serve accepts exactly one joiner from ln and runs the match.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	fmt.Fprintf(s.out(), "Opponent connected from %s\n", conn.RemoteAddr())

	// Read the joiner's deck choice
	dec := json.NewDecoder(conn)
	var joinMsg ClientMessage
	if err := dec.Decode(&joinMsg); err != nil {
		return fmt.Errorf("read join message: %w", err)
	}
	if joinMsg.Type != "join" {
		return fmt.Errorf("expected join message, got %q", joinMsg.Type)
	}
	joinerDeck := joinMsg.DeckNumber
	if joinerDeck == 0 {
		joinerDeck = 2
	}
	fmt.Fprintf(s.out(), "Opponent chose deck %d\n", joinerDeck)

	// The decoder may have buffered bytes past the join message.
	joinerCtrl := &NetworkController{conn: conn, enc: json.NewEncoder(conn), dec: dec, player: 1}
	return s.play(ctx, joinerCtrl, joinerDeck)
}

func (s *Server) loadDeck(n int) (*card.Deck, error) {
	synth := s.Synth
	if synth == nil {
		return nil, fmt.Errorf("server has no synthesizer")
	}
	return card.DeckByNumber(s.DeckFile, n, synth, s.CostCap)
}

// play seats the host and joiner and runs the match. A nil joiner means the
// joiner seat is a bot.
func (s *Server) play(ctx context.Context, joinerCtrl *NetworkController, joinerDeck int) error {
	hostNum := s.HostDeck
	if hostNum == 0 {
		hostNum = 1
	}
	hostDeck, err := s.loadDeck(hostNum)
	if err != nil {
		return fmt.Errorf("load host deck: %w", err)
	}
	joinDeck, err := s.loadDeck(joinerDeck)
	if err != nil {
		return fmt.Errorf("load joiner deck: %w", err)
	}
	if err := card.ResolveDecks(s.Synth.Catalog, hostDeck, joinDeck); err != nil {
		return err
	}
	fmt.Fprintf(s.out(), "Host: %s (%d cards, cost %d)\n", hostDeck.Name, hostDeck.Len(), hostDeck.TotalCost())
	fmt.Fprintf(s.out(), "Joiner: %s (%d cards, cost %d)\n", joinDeck.Name, joinDeck.Len(), joinDeck.TotalCost())

	logger := log.NewTextLogger(s.out())
	m := game.NewMatch(game.MatchConfig{
		Decks:          [2][]*card.Card{hostDeck.Cards(), joinDeck.Cards()},
		Names:          [2]string{"Host", "Joiner"},
		StartingHealth: s.StartingHealth,
		HandCap:        s.HandCap,
		InitialHand:    s.InitialHand,
		Logger:         logger,
	})

	var controllers [2]game.Controller
	var remotes []*NetworkController
	errCh := make(chan error, 2)

	if s.HostBot {
		controllers[0] = bot.New(0, s.BotDelay)
	} else {
		// The host plays through a local REPL over an in-memory pipe.
		hostConn, hostServerConn := net.Pipe()
		defer hostConn.Close()
		defer hostServerConn.Close()
		hostCtrl := NewNetworkController(hostServerConn, 0)
		controllers[0] = hostCtrl
		remotes = append(remotes, hostCtrl)
		go func() {
			client := &Client{conn: hostConn, playerName: "P1", in: os.Stdin, out: os.Stdout}
			errCh <- client.RunREPL(ctx)
		}()
	}
	if joinerCtrl == nil {
		controllers[1] = bot.New(1, s.BotDelay)
	} else {
		controllers[1] = joinerCtrl
		remotes = append(remotes, joinerCtrl)
	}

	go func() {
		winner, err := m.Run(ctx, controllers, s.MaxRounds)
		if err != nil {
			errCh <- fmt.Errorf("match error: %w", err)
			return
		}
		result := ResultText(m.Snapshot())
		fmt.Fprintln(s.out(), result)
		// Joiner first: the host REPL returns as soon as it sees game_over.
		for i := len(remotes) - 1; i >= 0; i-- {
			_ = remotes[i].SendGameOver(winner, result)
		}
		errCh <- nil
	}()

	// Wait for either the match or the REPL to finish
	return <-errCh
}
