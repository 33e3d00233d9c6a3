package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/lexicarcana/internal/card"
	"github.com/peterkuimelis/lexicarcana/internal/game"
	"github.com/peterkuimelis/lexicarcana/internal/store"
)

// Tools serves the crafting and match tools. At most one match runs at a time.
type Tools struct {
	Synth     *card.Synthesizer
	DecksFile string
	Store     *store.Store // optional; enables saving crafted cards

	CostCap        int
	MaxRounds      int
	StartingHealth int
	HandCap        int
	InitialHand    int
	BotDelay       time.Duration

	mu     sync.Mutex
	active *MatchSession
}

// RegisterTools adds all tools to the MCP server.
func (t *Tools) RegisterTools(s *server.MCPServer) {
	s.AddTool(listTermsTool(), t.handleListTerms)
	s.AddTool(synthesizeCardTool(), t.handleSynthesizeCard)
	s.AddTool(listDecksTool(), t.handleListDecks)
	s.AddTool(startMatchTool(), t.handleStartMatch)
	s.AddTool(takeIntentTool(), t.handleTakeIntent)
	s.AddTool(playCardTool(), t.handlePlayCard)
	s.AddTool(selectSlotTool(), t.handleSelectSlot)
	s.AddTool(selectTargetTool(), t.handleSelectTarget)
	s.AddTool(browseDeckTool(), t.handleBrowseDeck)
	s.AddTool(pickDeckCardTool(), t.handlePickDeckCard)
	s.AddTool(swapHandCardTool(), t.handleSwapHandCard)
	s.AddTool(endTurnTool(), t.handleEndTurn)
	s.AddTool(getStateTool(), t.handleGetState)
}

// --- Tool definitions ---

func listTermsTool() mcp.Tool {
	return mcp.NewTool("list_terms",
		mcp.WithDescription("List the term catalog: ids, costs and the spell/creature templates. Terms are the building blocks of cards."),
		mcp.WithString("category", mcp.Description("Optional filter: base, special or conditional (conditional terms are limiters)")),
	)
}

func synthesizeCardTool() mcp.Tool {
	return mcp.NewTool("synthesize_card",
		mcp.WithDescription("Compile a crafting list into a card and return its cost, stats and description. "+
			"Terms are ids separated by spaces; a limiter group is written as limiter(child, child), e.g. "+
			"'damage damage fearless-desperation(damage, heal)'."),
		mcp.WithString("name", mcp.Description("Card name; derived from the terms when empty")),
		mcp.WithString("kind", mcp.Required(), mcp.Description("spell or creature")),
		mcp.WithString("terms", mcp.Required(), mcp.Description("Crafting list")),
		mcp.WithString("save_to", mcp.Description("Optional stored deck name to append the card to")),
	)
}

func listDecksTool() mcp.Tool {
	return mcp.NewTool("list_decks",
		mcp.WithDescription("List numbered decks from the deck file and decks saved in the store."),
	)
}

func startMatchTool() mcp.Tool {
	return mcp.NewTool("start_match",
		mcp.WithDescription("Start a match against the bot. Returns the initial state and first pending decision."),
		mcp.WithNumber("ai_deck", mcp.Description("Your deck number (1-indexed from the deck file); default 1")),
		mcp.WithString("ai_deck_name", mcp.Description("Use a stored deck instead of ai_deck")),
		mcp.WithNumber("bot_deck", mcp.Description("Bot deck number; default 2")),
		mcp.WithNumber("ai_player", mcp.Description("0 = you act first (default), 1 = the bot acts first")),
	)
}

func takeIntentTool() mcp.Tool {
	return mcp.NewTool("take_intent",
		mcp.WithDescription("Submit one of the pending legal intents by its 0-based index."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based index into pending.intents")),
	)
}

func playCardTool() mcp.Tool {
	return mcp.NewTool("play_card",
		mcp.WithDescription("Select a hand card to play (creatures then need select_slot, spells select_target). "+
			"Playing the selected card again cancels the selection. One card per turn."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based hand index")),
	)
}

func selectSlotTool() mcp.Tool {
	return mcp.NewTool("select_slot",
		mcp.WithDescription("Place the selected creature into an empty board slot."),
		mcp.WithNumber("slot", mcp.Required(), mcp.Description("0-based board slot (0-5)")),
	)
}

func selectTargetTool() mcp.Tool {
	return mcp.NewTool("select_target",
		mcp.WithDescription("Choose the target of the selected spell. It resolves at end of turn."),
		mcp.WithString("target", mcp.Required(), mcp.Description("player or creature")),
		mcp.WithNumber("player", mcp.Required(), mcp.Description("Target player index (0 or 1)")),
		mcp.WithNumber("slot", mcp.Description("Board slot when target is creature")),
	)
}

func browseDeckTool() mcp.Tool {
	return mcp.NewTool("browse_deck",
		mcp.WithDescription("List your draw pile. Not available after a swap this turn."),
	)
}

func pickDeckCardTool() mcp.Tool {
	return mcp.NewTool("pick_deck_card",
		mcp.WithDescription("Take a card from your deck: straight into hand below the hand cap, otherwise select it for swap_hand_card. "+
			"Picking the selected card again cancels. Once per turn."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based deck index")),
	)
}

func swapHandCardTool() mcp.Tool {
	return mcp.NewTool("swap_hand_card",
		mcp.WithDescription("Swap a hand card with the picked deck card."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based hand index")),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("End your turn: settlement resolves, creatures fight lane by lane, then the bot plays."),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current match state, accumulated events and pending decision without acting. Read-only."),
	)
}

// --- Crafting handlers ---

func (t *Tools) handleListTerms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(respondJSON(t.Synth.Catalog.Infos(request.GetString("category", "")))), nil
}

func (t *Tools) handleSynthesizeCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind, err := card.ParseKind(request.GetString("kind", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, err := card.ParseItems(request.GetString("terms", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid terms: %v", err), nil
	}
	name := request.GetString("name", "")
	if name == "" {
		name = card.ResolveName(ctx, card.TermNamer{Catalog: t.Synth.Catalog}, items, "Untitled")
	}
	c, err := t.Synth.Synthesize(items, name, kind)
	if err != nil {
		return mcp.NewToolResultErrorf("Synthesis failed: %v", err), nil
	}

	resp := struct {
		Card      card.Info `json:"card"`
		SavedTo   string    `json:"saved_to,omitempty"`
		DeckCost  int       `json:"deck_cost,omitempty"`
		DeckCards int       `json:"deck_cards,omitempty"`
	}{Card: c.Info()}

	if deckName := request.GetString("save_to", ""); deckName != "" {
		d, err := t.appendToStoredDeck(ctx, deckName, c)
		if err != nil {
			return mcp.NewToolResultErrorf("Could not save card: %v", err), nil
		}
		resp.SavedTo, resp.DeckCost, resp.DeckCards = d.Name, d.TotalCost(), d.Len()
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func (t *Tools) appendToStoredDeck(ctx context.Context, name string, c *card.Card) (*card.Deck, error) {
	if t.Store == nil {
		return nil, fmt.Errorf("no deck store configured")
	}
	d, err := t.Store.LoadDeck(ctx, name, t.Synth, t.CostCap)
	if errors.Is(err, store.ErrNotFound) {
		d, err = card.NewDeck(name, t.CostCap), nil
	}
	if err != nil {
		return nil, err
	}
	if err := d.Add(c); err != nil {
		return nil, err
	}
	if err := t.Store.SaveDeck(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (t *Tools) handleListDecks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type fileDeck struct {
		Number int    `json:"number"`
		Name   string `json:"name"`
		Cards  int    `json:"cards"`
		Cost   int    `json:"cost"`
		Error  string `json:"error,omitempty"`
	}
	resp := struct {
		File   []fileDeck          `json:"file"`
		Stored []store.DeckSummary `json:"stored,omitempty"`
	}{File: []fileDeck{}}

	df, err := card.LoadDeckFile(t.DecksFile)
	if err != nil {
		return mcp.NewToolResultErrorf("Could not read deck file: %v", err), nil
	}
	for i, e := range df.Decks {
		fd := fileDeck{Number: i + 1, Name: e.Name}
		if d, err := e.Build(t.Synth, t.CostCap); err != nil {
			fd.Error = err.Error()
		} else {
			fd.Cards, fd.Cost = d.Len(), d.TotalCost()
		}
		resp.File = append(resp.File, fd)
	}
	if t.Store != nil {
		if resp.Stored, err = t.Store.ListDecks(ctx); err != nil {
			return mcp.NewToolResultErrorf("Could not list stored decks: %v", err), nil
		}
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

// --- Match handlers ---

func (t *Tools) session() *MatchSession {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Tools) handleStartMatch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.session() != nil {
		return mcp.NewToolResultError("A match is already running. Only one match at a time is supported."), nil
	}

	aiPlayer := request.GetInt("ai_player", 0)
	if aiPlayer != 0 && aiPlayer != 1 {
		return mcp.NewToolResultError("ai_player must be 0 or 1"), nil
	}

	var aiDeck *card.Deck
	var err error
	if name := request.GetString("ai_deck_name", ""); name != "" {
		if t.Store == nil {
			return mcp.NewToolResultError("No deck store configured."), nil
		}
		aiDeck, err = t.Store.LoadDeck(ctx, name, t.Synth, t.CostCap)
	} else {
		aiDeck, err = card.DeckByNumber(t.DecksFile, request.GetInt("ai_deck", 1), t.Synth, t.CostCap)
	}
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to load your deck: %v", err), nil
	}
	botDeck, err := card.DeckByNumber(t.DecksFile, request.GetInt("bot_deck", 2), t.Synth, t.CostCap)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to load bot deck: %v", err), nil
	}
	if err := card.ResolveDecks(t.Synth.Catalog, aiDeck, botDeck); err != nil {
		return mcp.NewToolResultErrorf("Catalog cannot resolve the decks: %v", err), nil
	}

	sess, err := NewMatchSession(SessionConfig{
		AIDeck:         aiDeck,
		BotDeck:        botDeck,
		AIPlayer:       aiPlayer,
		BotDelay:       t.BotDelay,
		MaxRounds:      t.MaxRounds,
		StartingHealth: t.StartingHealth,
		HandCap:        t.HandCap,
		InitialHand:    t.InitialHand,
	})
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start match: %v", err), nil
	}

	t.mu.Lock()
	t.active = sess
	t.mu.Unlock()

	resp, err := sess.waitForPending(ctx)
	if err != nil {
		return mcp.NewToolResultErrorf("Error waiting for first decision: %v", err), nil
	}
	resp.MatchID = sess.ID
	return t.finish(resp), nil
}

// act submits an intent built for the AI player and reports the next decision.
func (t *Tools) act(ctx context.Context, build func(player int) (game.Intent, error)) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}
	in, err := build(sess.aiPlayer)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, err := sess.submit(ctx, in)
	if err != nil {
		return mcp.NewToolResultErrorf("Could not submit %s: %v", in, err), nil
	}
	if in.Type == game.IntentBrowseDeck && resp.Rejected == "" && !resp.GameOver {
		resp.Deck = sess.deckView()
	}
	return t.finish(resp), nil
}

// finish clears the active session once the match is over.
func (t *Tools) finish(resp *ToolResponse) *mcp.CallToolResult {
	if resp.GameOver {
		t.mu.Lock()
		t.active = nil
		t.mu.Unlock()
	}
	return mcp.NewToolResultText(respondJSON(resp))
}

func indexed(request mcp.CallToolRequest, key string, ctor func(player, index int) game.Intent) func(int) (game.Intent, error) {
	return func(player int) (game.Intent, error) {
		idx := request.GetInt(key, -1)
		if idx < 0 {
			return game.Intent{}, fmt.Errorf("%s is required and must be >= 0", key)
		}
		return ctor(player, idx), nil
	}
}

func (t *Tools) handleTakeIntent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}
	pending := sess.currentPending
	if pending == nil || pending.Type != DecisionChooseIntent {
		return mcp.NewToolResultError("No pending decision."), nil
	}
	index := request.GetInt("index", -1)
	if index < 0 || index >= len(pending.legal) {
		return mcp.NewToolResultErrorf("Invalid index %d. Must be 0-%d.", index, len(pending.legal)-1), nil
	}
	in := pending.legal[index]
	return t.act(ctx, func(int) (game.Intent, error) { return in, nil })
}

func (t *Tools) handlePlayCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.act(ctx, indexed(request, "index", game.PlayCard))
}

func (t *Tools) handleSelectSlot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.act(ctx, indexed(request, "slot", game.SelectSlot))
}

func (t *Tools) handleSelectTarget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.act(ctx, func(player int) (game.Intent, error) {
		tp := request.GetInt("player", -1)
		switch request.GetString("target", "") {
		case "player":
			return game.SelectTarget(player, game.PlayerTarget(tp)), nil
		case "creature":
			return game.SelectTarget(player, game.CreatureTarget(tp, request.GetInt("slot", -1))), nil
		}
		return game.Intent{}, fmt.Errorf("target must be 'player' or 'creature'")
	})
}

func (t *Tools) handleBrowseDeck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.act(ctx, func(player int) (game.Intent, error) { return game.BrowseDeck(player), nil })
}

func (t *Tools) handlePickDeckCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.act(ctx, indexed(request, "index", game.PickDeckCard))
}

func (t *Tools) handleSwapHandCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.act(ctx, indexed(request, "index", game.SwapHandCard))
}

func (t *Tools) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.act(ctx, func(player int) (game.Intent, error) { return game.EndTurn(player), nil })
}

func (t *Tools) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sess := t.session()
	if sess == nil {
		return mcp.NewToolResultError("No match is running. Use start_match first."), nil
	}

	resp := &ToolResponse{Events: sess.drainEvents(), Winner: -1}
	if p := sess.currentPending; p != nil {
		resp.State = p.State
		resp.Pending = &PendingView{Type: p.Type, Intents: p.Intents}
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}
