package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/peterkuimelis/lexicarcana/internal/game"
	"github.com/peterkuimelis/lexicarcana/internal/log"
)

// NetworkController implements game.Controller over a TCP connection.
type NetworkController struct {
	conn   net.Conn
	enc    *json.Encoder
	dec    *json.Decoder
	player int // which player this controller is (0 or 1)
	mu     sync.Mutex
}

// NewNetworkController creates a new controller for the given connection.
func NewNetworkController(conn net.Conn, player int) *NetworkController {
	return &NetworkController{
		conn:   conn,
		enc:    json.NewEncoder(conn),
		dec:    json.NewDecoder(conn),
		player: player,
	}
}

// send sends a server message to the client. Must be called with mu held.
func (nc *NetworkController) send(msg ServerMessage) error {
	return nc.enc.Encode(msg)
}

// recv reads a client message. Must be called with mu held.
func (nc *NetworkController) recv() (ClientMessage, error) {
	var msg ClientMessage
	err := nc.dec.Decode(&msg)
	return msg, err
}

// ChooseIntent implements game.Controller. The client may answer with an
// index into the offered intents or with a free-form intent; free-form intents
// are passed through so the engine can reject them with a reason.
func (nc *NetworkController) ChooseIntent(ctx context.Context, state *game.MatchState, legal []game.Intent) (game.Intent, error) {
	nc.mu.Lock()
	defer nc.mu.Unlock()

	views := make([]IntentView, len(legal))
	for i, in := range legal {
		views[i] = IntentView{Index: i, Desc: in.String(), Msg: IntentToMsg(in)}
	}

	msg := ServerMessage{
		Type:    "choose_intent",
		Intents: views,
		State:   BuildStateView(state, nc.player),
	}
	if err := nc.send(msg); err != nil {
		return game.Intent{}, fmt.Errorf("send choose_intent: %w", err)
	}

	for {
		resp, err := nc.recv()
		if err != nil {
			return game.Intent{}, fmt.Errorf("recv intent: %w", err)
		}
		switch resp.Type {
		case "action":
			if resp.Index >= 0 && resp.Index < len(legal) {
				return legal[resp.Index], nil
			}
			_ = nc.send(ServerMessage{Type: "rejected", Reason: fmt.Sprintf("no intent %d", resp.Index+1)})
		case "intent":
			if resp.Intent == nil {
				_ = nc.send(ServerMessage{Type: "rejected", Reason: "missing intent"})
				continue
			}
			in, err := MsgToIntent(*resp.Intent, nc.player)
			if err != nil {
				_ = nc.send(ServerMessage{Type: "rejected", Reason: err.Error()})
				continue
			}
			return in, nil
		default:
			_ = nc.send(ServerMessage{Type: "rejected", Reason: fmt.Sprintf("unexpected message %q", resp.Type)})
		}
	}
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(winner int, result string) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "game_over", Winner: winner, Result: result})
}

// Notify implements game.Controller.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.send(ServerMessage{Type: "notify", Event: EventViewOf(event)})
}
