package mcp

import (
	"context"

	"github.com/peterkuimelis/lexicarcana/internal/game"
	"github.com/peterkuimelis/lexicarcana/internal/log"
	"github.com/peterkuimelis/lexicarcana/internal/net"
)

// MCPController implements game.Controller by sending decisions to the
// session's pending channel and blocking on a response channel.
type MCPController struct {
	player     int
	session    *MatchSession
	responseCh chan game.Intent
}

// NewMCPController creates a controller for the given player.
func NewMCPController(player int, session *MatchSession) *MCPController {
	return &MCPController{
		player:     player,
		session:    session,
		responseCh: make(chan game.Intent),
	}
}

// ChooseIntent implements game.Controller.
func (c *MCPController) ChooseIntent(ctx context.Context, state *game.MatchState, legal []game.Intent) (game.Intent, error) {
	views := make([]net.IntentView, len(legal))
	for i, in := range legal {
		views[i] = net.IntentView{Index: i, Desc: in.String(), Msg: net.IntentToMsg(in)}
	}

	select {
	case c.session.pendingCh <- &PendingDecision{
		Type:    DecisionChooseIntent,
		Player:  c.player,
		State:   net.BuildStateView(state, c.player),
		Intents: views,
		legal:   legal,
	}:
	case <-ctx.Done():
		return game.Intent{}, ctx.Err()
	}

	select {
	case in := <-c.responseCh:
		return in, nil
	case <-ctx.Done():
		return game.Intent{}, ctx.Err()
	}
}

// Notify implements game.Controller. Every event is buffered for the next
// tool response.
func (c *MCPController) Notify(ctx context.Context, event log.GameEvent) error {
	c.session.appendEvent(*net.EventViewOf(event))
	return nil
}
