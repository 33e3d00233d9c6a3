package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peterkuimelis/lexicarcana/internal/bot"
	"github.com/peterkuimelis/lexicarcana/internal/card"
	"github.com/peterkuimelis/lexicarcana/internal/game"
	"github.com/peterkuimelis/lexicarcana/internal/log"
	lexnet "github.com/peterkuimelis/lexicarcana/internal/net"
)

// DecisionType identifies what the match is waiting for.
type DecisionType string

const (
	DecisionChooseIntent DecisionType = "choose_intent"
	DecisionMatchOver    DecisionType = "match_over"
)

// PendingDecision represents a decision the match is waiting for.
type PendingDecision struct {
	Type    DecisionType        `json:"type"`
	Player  int                 `json:"player"`
	State   *lexnet.StateView   `json:"state"`
	Intents []lexnet.IntentView `json:"intents,omitempty"`
	legal   []game.Intent
}

// ToolResponse is the JSON envelope returned by the match tools.
type ToolResponse struct {
	MatchID  string             `json:"match_id,omitempty"`
	Events   []lexnet.EventView `json:"events"`
	State    *lexnet.StateView  `json:"state,omitempty"`
	Pending  *PendingView       `json:"pending,omitempty"`
	Rejected string             `json:"rejected,omitempty"`
	Deck     []lexnet.CardView  `json:"deck,omitempty"`
	GameOver bool               `json:"game_over"`
	Winner   int                `json:"winner"`
	Result   string             `json:"result,omitempty"`
}

// PendingView is the pending decision as presented in the tool response JSON.
type PendingView struct {
	Type    DecisionType        `json:"type"`
	Intents []lexnet.IntentView `json:"intents,omitempty"`
}

// SessionConfig describes a match between the AI seat and a bot.
type SessionConfig struct {
	AIDeck         *card.Deck
	BotDeck        *card.Deck
	AIPlayer       int // 0 acts first
	BotDelay       time.Duration
	MaxRounds      int
	StartingHealth int
	HandCap        int
	InitialHand    int
}

// MatchSession holds one AI-versus-bot match driven through MCP tools.
type MatchSession struct {
	ID       string
	match    *game.Match
	aiCtrl   *MCPController
	aiPlayer int
	cancel   context.CancelFunc

	pendingCh      chan *PendingDecision
	currentPending *PendingDecision

	mu       sync.Mutex
	events   []lexnet.EventView
	gameOver bool
	winner   int
	result   string
}

// NewMatchSession creates the match and starts it on its own goroutine. The
// first pending decision is available through waitForPending.
func NewMatchSession(cfg SessionConfig) (*MatchSession, error) {
	if cfg.AIDeck == nil || cfg.BotDeck == nil {
		return nil, fmt.Errorf("both decks are required")
	}
	if cfg.AIPlayer != 0 && cfg.AIPlayer != 1 {
		return nil, fmt.Errorf("ai player must be 0 or 1, got %d", cfg.AIPlayer)
	}
	botPlayer := 1 - cfg.AIPlayer

	var decks [2][]*card.Card
	var names [2]string
	decks[cfg.AIPlayer], names[cfg.AIPlayer] = cfg.AIDeck.Cards(), "AI"
	decks[botPlayer], names[botPlayer] = cfg.BotDeck.Cards(), "Bot"

	sess := &MatchSession{
		ID:        uuid.NewString(),
		aiPlayer:  cfg.AIPlayer,
		pendingCh: make(chan *PendingDecision, 1),
		winner:    -1,
	}
	sess.aiCtrl = NewMCPController(cfg.AIPlayer, sess)
	sess.match = game.NewMatch(game.MatchConfig{
		Decks:          decks,
		Names:          names,
		StartingHealth: cfg.StartingHealth,
		HandCap:        cfg.HandCap,
		InitialHand:    cfg.InitialHand,
		Logger:         log.NewMemoryLogger(),
	})

	var controllers [2]game.Controller
	controllers[cfg.AIPlayer] = sess.aiCtrl
	controllers[botPlayer] = bot.New(botPlayer, cfg.BotDelay)

	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel

	go func() {
		winner, err := sess.match.Run(ctx, controllers, cfg.MaxRounds)
		s := sess.match.Snapshot()
		result := lexnet.ResultText(s)
		if err != nil {
			result = fmt.Sprintf("error: %v", err)
		}

		sess.mu.Lock()
		sess.gameOver = true
		sess.winner = winner
		sess.result = result
		sess.mu.Unlock()

		if ctx.Err() != nil {
			return // abandoned; nobody is waiting
		}
		sess.pendingCh <- &PendingDecision{
			Type:   DecisionMatchOver,
			Player: winner,
			State:  lexnet.BuildStateView(s, sess.aiPlayer),
		}
	}()

	return sess, nil
}

// Close abandons the match.
func (s *MatchSession) Close() {
	s.cancel()
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *MatchSession) appendEvent(ev lexnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *MatchSession) drainEvents() []lexnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []lexnet.EventView{}
	}
	return events
}

// waitForPending blocks until the next decision arrives from the match, then
// builds a ToolResponse with accumulated events and the pending decision.
func (s *MatchSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	var pending *PendingDecision
	select {
	case pending = <-s.pendingCh:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.currentPending = pending

	resp := &ToolResponse{Events: s.drainEvents(), State: pending.State}
	for _, ev := range resp.Events {
		if ev.Type == log.EventRejected.String() && ev.Player == s.aiPlayer {
			resp.Rejected = ev.Details
		}
	}

	if pending.Type == DecisionMatchOver {
		s.mu.Lock()
		resp.GameOver = true
		resp.Winner = s.winner
		resp.Result = s.result
		s.mu.Unlock()
		return resp, nil
	}

	resp.Winner = -1
	resp.Pending = &PendingView{Type: pending.Type, Intents: pending.Intents}
	return resp, nil
}

// submit hands an intent to the AI seat and waits for the next decision.
func (s *MatchSession) submit(ctx context.Context, in game.Intent) (*ToolResponse, error) {
	if s.currentPending == nil || s.currentPending.Type != DecisionChooseIntent {
		return nil, fmt.Errorf("the match is not waiting for an intent")
	}
	select {
	case s.aiCtrl.responseCh <- in:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.waitForPending(ctx)
}

// deckView lists the AI player's draw pile.
func (s *MatchSession) deckView() []lexnet.CardView {
	snap := s.match.Snapshot()
	deck := snap.Players[s.aiPlayer].Deck
	out := make([]lexnet.CardView, len(deck))
	for i, c := range deck {
		out[i] = lexnet.CardViewOf(i, c)
	}
	return out
}

// respondJSON marshals a tool response to a JSON string.
func respondJSON(resp any) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
