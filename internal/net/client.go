package net

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
)

// Client connects to a match server and provides a terminal REPL.
type Client struct {
	conn       net.Conn
	playerName string // "P1" or "P2"
	in         io.Reader
	out        io.Writer
}

// Connect connects to a server, sends the deck choice, and runs the REPL.
func Connect(ctx context.Context, addr string, deckNumber int) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Send join message with deck choice
	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: "join", DeckNumber: deckNumber}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	fmt.Println("Connected! Waiting for the match to start...")

	client := &Client{conn: conn, playerName: "P2", in: os.Stdin, out: os.Stdout}
	return client.RunREPL(ctx)
}

// RunREPL reads server messages and handles them interactively.
func (c *Client) RunREPL(ctx context.Context) error {
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)
	reader := bufio.NewReader(c.in)

	var last *ServerMessage
	for {
		var msg ServerMessage
		if err := dec.Decode(&msg); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		switch msg.Type {
		case "notify":
			c.renderEvent(msg.Event)

		case "rejected":
			fmt.Fprintf(c.out, "Rejected: %s\n", msg.Reason)
			if last != nil {
				if err := c.prompt(reader, enc, last); err != nil {
					return err
				}
			}

		case "choose_intent":
			last = &msg
			c.renderState(msg.State)
			c.renderIntents(msg.Intents)
			if err := c.prompt(reader, enc, last); err != nil {
				return err
			}

		case "game_over":
			fmt.Fprintln(c.out)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, "          MATCH OVER")
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			fmt.Fprintln(c.out, msg.Result)
			fmt.Fprintln(c.out, "═══════════════════════════════════")
			return nil
		}
	}
}

// prompt reads commands until one produces a message for the server.
func (c *Client) prompt(reader *bufio.Reader, enc *json.Encoder, msg *ServerMessage) error {
	for {
		fmt.Fprint(c.out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimSpace(line)
		switch line {
		case "":
			continue
		case "help", "?":
			fmt.Fprint(c.out, helpText)
			continue
		case "state":
			c.renderState(msg.State)
			c.renderIntents(msg.Intents)
			continue
		}
		cm, err := ParseCommand(line, len(msg.Intents))
		if err != nil {
			fmt.Fprintln(c.out, err)
			continue
		}
		if err := enc.Encode(cm); err != nil {
			return fmt.Errorf("send intent: %w", err)
		}
		return nil
	}
}

const helpText = `Commands:
  N                 choose listed intent N
  play N            select hand card N (again to cancel)
  slot N            place the selected creature in board slot N
  target p1|p2      aim the selected spell at a player
  target p1|p2 N    aim the selected spell at that player's creature in slot N
  browse            list your draw pile
  pick N            take deck card N (again to cancel)
  swap N            swap hand card N with the picked deck card
  end               end your turn
  state             show the board again
`

// ParseCommand turns a REPL line into a client message. Card and slot numbers
// are 1-based on the terminal and 0-based on the wire.
func ParseCommand(line string, intents int) (ClientMessage, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return ClientMessage{}, fmt.Errorf("empty command")
	}

	if n, err := strconv.Atoi(fields[0]); err == nil && len(fields) == 1 {
		if n < 1 || n > intents {
			return ClientMessage{}, fmt.Errorf("enter a number between 1 and %d", intents)
		}
		return ClientMessage{Type: "action", Index: n - 1}, nil
	}

	arg := func(i int) (int, error) {
		if len(fields) <= i {
			return 0, fmt.Errorf("%s needs a number", fields[0])
		}
		n, err := strconv.Atoi(fields[i])
		if err != nil || n < 1 {
			return 0, fmt.Errorf("%q is not a positive number", fields[i])
		}
		return n - 1, nil
	}
	intent := func(m IntentMsg) (ClientMessage, error) {
		return ClientMessage{Type: "intent", Intent: &m}, nil
	}

	switch fields[0] {
	case IntentPlay, IntentSlot, IntentPick, IntentSwap:
		n, err := arg(1)
		if err != nil {
			return ClientMessage{}, err
		}
		return intent(IntentMsg{Type: fields[0], Index: n})
	case IntentBrowse, IntentEnd:
		return intent(IntentMsg{Type: fields[0]})
	case IntentTarget:
		if len(fields) < 2 {
			return ClientMessage{}, fmt.Errorf("target needs p1 or p2")
		}
		var player int
		switch fields[1] {
		case "p1":
			player = 0
		case "p2":
			player = 1
		default:
			return ClientMessage{}, fmt.Errorf("unknown player %q", fields[1])
		}
		if len(fields) == 2 {
			return intent(IntentMsg{Type: IntentTarget, Target: "player", TargetPlayer: player})
		}
		slot, err := arg(2)
		if err != nil {
			return ClientMessage{}, err
		}
		return intent(IntentMsg{Type: IntentTarget, Target: "creature", TargetPlayer: player, TargetSlot: slot})
	}
	return ClientMessage{}, fmt.Errorf("unknown command %q (try help)", fields[0])
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	// Format like the TextLogger
	fmt.Fprintf(c.out, "R%-2d %-18s| %s\n", ev.Turn, ev.Phase, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "╔══════════════════════════════════════════════════════╗")

	opp := sv.Opponent
	fmt.Fprintf(c.out, "║  %s (HP: %d/%d)  Hand: %d  Deck: %d  Graveyard: %d\n",
		opp.Name, opp.Health, opp.MaxHealth, opp.HandCount, opp.DeckCount, opp.GraveyardCount)
	fmt.Fprintf(c.out, "║  Board: %s\n", formatBoard(opp))
	fmt.Fprintln(c.out, "║──────────────────────────────────────────────────────")

	you := sv.You
	fmt.Fprintf(c.out, "║  Board: %s\n", formatBoard(you))
	fmt.Fprintf(c.out, "║  YOU (HP: %d/%d)  Hand: %d  Deck: %d  Graveyard: %d\n",
		you.Health, you.MaxHealth, you.HandCount, you.DeckCount, you.GraveyardCount)
	fmt.Fprintln(c.out, "╚══════════════════════════════════════════════════════╝")

	turnInfo := fmt.Sprintf("Round %d | %s", sv.Turn, sv.Phase)
	if sv.IsYourTurn {
		turnInfo += " | Your turn"
	} else {
		turnInfo += " | Opponent's turn"
	}
	fmt.Fprintln(c.out, turnInfo)

	if len(sv.Pending) > 0 {
		fmt.Fprintf(c.out, "Settling at end of turn: %s\n", strings.Join(sv.Pending, ", "))
	}
	if len(you.Hand) > 0 {
		fmt.Fprintln(c.out, "\nHand:")
		for _, cv := range you.Hand {
			marker := " "
			if cv.Index == sv.SelectedHand {
				marker = "*"
			}
			fmt.Fprintf(c.out, " %s[%d] %s\n", marker, cv.Index+1, formatCard(cv))
		}
	}
}

func formatBoard(pv PlayerView) string {
	var sb strings.Builder
	for i, cv := range pv.Board {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if cv == nil {
			sb.WriteString("[ ]")
			continue
		}
		ready := ""
		if cv.Ready {
			ready = "!"
		}
		fmt.Fprintf(&sb, "[%s %d/%d%s]", cv.Name, cv.Attack, cv.Health, ready)
	}
	return sb.String()
}

func formatCard(cv CardView) string {
	if cv.Kind == "Creature" {
		return fmt.Sprintf("%s (%d) %d/%d  %s", cv.Name, cv.Cost, cv.Attack, cv.Health, cv.Description)
	}
	return fmt.Sprintf("%s (%d) spell  %s", cv.Name, cv.Cost, cv.Description)
}

func (c *Client) renderIntents(intents []IntentView) {
	fmt.Fprintln(c.out, "\nIntents:")
	for _, a := range intents {
		fmt.Fprintf(c.out, "  %d) %s\n", a.Index+1, a.Desc)
	}
}
