package net

import "github.com/peterkuimelis/lexicarcana/internal/game"

// Message types for the JSON protocol over TCP.

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "choose_intent"
	Intents []IntentView `json:"intents,omitempty"`
	State   *StateView   `json:"state,omitempty"`

	// For "rejected"
	Reason string `json:"reason,omitempty"`

	// For "game_over"
	Winner int    `json:"winner,omitempty"`
	Result string `json:"result,omitempty"`
}

// EventView is a simplified match event for the client.
type EventView struct {
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// IntentView is a numbered legal intent.
type IntentView struct {
	Index int       `json:"index"`
	Desc  string    `json:"desc"`
	Msg   IntentMsg `json:"intent"`
}

// CardView describes a card in hand or deck.
type CardView struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Cost        int    `json:"cost"`
	Description string `json:"description,omitempty"`
	Attack      int    `json:"attack,omitempty"`
	Health      int    `json:"health,omitempty"`
}

// CreatureView describes an occupied board slot.
type CreatureView struct {
	Name      string `json:"name"`
	Attack    int    `json:"attack"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"max_health"`
	Ready     bool   `json:"ready,omitempty"`
}

// StateView is the match state from one player's perspective.
type StateView struct {
	You          PlayerView `json:"you"`
	Opponent     PlayerView `json:"opponent"`
	Turn         int        `json:"turn"`
	Phase        string     `json:"phase"`
	IsYourTurn   bool       `json:"is_your_turn"`
	SelectedHand int        `json:"selected_hand"`
	SelectedDeck int        `json:"selected_deck"`
	Pending      []string   `json:"pending,omitempty"` // your cards awaiting settlement
}

// PlayerView shows one side of the board.
type PlayerView struct {
	Name           string                        `json:"name"`
	Health         int                           `json:"health"`
	MaxHealth      int                           `json:"max_health"`
	HandCount      int                           `json:"hand_count"`
	Hand           []CardView                    `json:"hand,omitempty"` // only for "you"
	Board          [game.BoardSize]*CreatureView `json:"board"`
	GraveyardCount int                           `json:"graveyard_count"`
	DeckCount      int                           `json:"deck_count"`
	PlayedCard     bool                          `json:"played_card"`
	Swapped        bool                          `json:"swapped"`
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "action": index into the offered intents
	Index int `json:"index,omitempty"`

	// For "intent": a free-form intent, validated by the engine
	Intent *IntentMsg `json:"intent,omitempty"`

	// For "join" (initial handshake)
	DeckNumber int  `json:"deck_number,omitempty"`
	Bot        bool `json:"bot,omitempty"`
}

// IntentMsg is the wire form of a game.Intent. The player is implied by the
// connection.
type IntentMsg struct {
	Type         string `json:"type"`
	Index        int    `json:"index,omitempty"`
	Target       string `json:"target,omitempty"` // "player" or "creature"
	TargetPlayer int    `json:"target_player,omitempty"`
	TargetSlot   int    `json:"target_slot,omitempty"`
}
