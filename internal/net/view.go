package net

import (
	"fmt"

	"github.com/peterkuimelis/lexicarcana/internal/card"
	"github.com/peterkuimelis/lexicarcana/internal/game"
	"github.com/peterkuimelis/lexicarcana/internal/log"
)

// Wire names for intent types.
const (
	IntentPlay   = "play"
	IntentSlot   = "slot"
	IntentTarget = "target"
	IntentBrowse = "browse"
	IntentPick   = "pick"
	IntentSwap   = "swap"
	IntentEnd    = "end"
)

var intentNames = map[game.IntentType]string{
	game.IntentPlayCard:     IntentPlay,
	game.IntentSelectSlot:   IntentSlot,
	game.IntentSelectTarget: IntentTarget,
	game.IntentBrowseDeck:   IntentBrowse,
	game.IntentPickDeckCard: IntentPick,
	game.IntentSwapHandCard: IntentSwap,
	game.IntentEndTurn:      IntentEnd,
}

// BuildStateView creates a StateView from the perspective of the given player.
// The opponent's hand contents and pending cards stay hidden.
func BuildStateView(state *game.MatchState, player int) *StateView {
	me := state.Players[player]
	opp := state.Players[state.Opponent(player)]

	sv := &StateView{
		Turn:         state.TurnCount,
		Phase:        state.Phase.String(),
		IsYourTurn:   state.Active == player,
		SelectedHand: -1,
		SelectedDeck: -1,
		You:          buildPlayerView(me),
		Opponent:     buildPlayerView(opp),
	}
	if sv.IsYourTurn {
		sv.SelectedHand = state.SelectedHand
		sv.SelectedDeck = state.SelectedDeck
	}
	for i, c := range me.Hand {
		sv.You.Hand = append(sv.You.Hand, CardViewOf(i, c))
	}
	for _, e := range state.Settlement {
		if e.Player == player {
			sv.Pending = append(sv.Pending, e.Card.Name)
		}
	}
	return sv
}

func buildPlayerView(p *game.Player) PlayerView {
	pv := PlayerView{
		Name:           p.Name,
		Health:         p.Health,
		MaxHealth:      p.MaxHealth,
		HandCount:      len(p.Hand),
		GraveyardCount: len(p.Graveyard),
		DeckCount:      len(p.Deck),
		PlayedCard:     p.PlayedCardThisTurn,
		Swapped:        p.TurnHasSwappedCard,
	}
	for slot, c := range p.Board {
		if c == nil {
			continue
		}
		pv.Board[slot] = &CreatureView{
			Name:      c.Name,
			Attack:    c.Attack,
			Health:    c.Health,
			MaxHealth: c.MaxHealth,
			Ready:     c.CanAttack,
		}
	}
	return pv
}

// CardViewOf describes a card at a hand or deck index.
func CardViewOf(index int, c *card.Card) CardView {
	cv := CardView{
		Index:       index,
		Name:        c.Name,
		Kind:        c.Kind.String(),
		Cost:        c.Cost,
		Description: c.Description,
	}
	if c.IsCreature() {
		cv.Attack = c.Attack
		cv.Health = c.Health
	}
	return cv
}

// EventViewOf converts a logged event for the wire.
func EventViewOf(event log.GameEvent) *EventView {
	return &EventView{
		Turn:    event.Turn,
		Phase:   event.Phase,
		Player:  event.Player,
		Type:    event.Type.String(),
		Card:    event.Card,
		Details: event.Details,
	}
}

// IntentToMsg converts an intent to its wire form.
func IntentToMsg(in game.Intent) IntentMsg {
	msg := IntentMsg{Type: intentNames[in.Type], Index: in.Index}
	switch in.Target.Kind {
	case game.TargetPlayer:
		msg.Target = "player"
		msg.TargetPlayer = in.Target.Player
	case game.TargetCreature:
		msg.Target = "creature"
		msg.TargetPlayer = in.Target.Player
		msg.TargetSlot = in.Target.Slot
	}
	return msg
}

// MsgToIntent converts a wire intent submitted by player.
func MsgToIntent(msg IntentMsg, player int) (game.Intent, error) {
	switch msg.Type {
	case IntentPlay:
		return game.PlayCard(player, msg.Index), nil
	case IntentSlot:
		return game.SelectSlot(player, msg.Index), nil
	case IntentTarget:
		switch msg.Target {
		case "player":
			return game.SelectTarget(player, game.PlayerTarget(msg.TargetPlayer)), nil
		case "creature":
			return game.SelectTarget(player, game.CreatureTarget(msg.TargetPlayer, msg.TargetSlot)), nil
		}
		return game.Intent{}, fmt.Errorf("unknown target kind %q", msg.Target)
	case IntentBrowse:
		return game.BrowseDeck(player), nil
	case IntentPick:
		return game.PickDeckCard(player, msg.Index), nil
	case IntentSwap:
		return game.SwapHandCard(player, msg.Index), nil
	case IntentEnd:
		return game.EndTurn(player), nil
	}
	return game.Intent{}, fmt.Errorf("unknown intent type %q", msg.Type)
}

// ResultText describes how a finished match ended.
func ResultText(s *game.MatchState) string {
	if s.Winner != nil {
		return fmt.Sprintf("%s wins.", s.Winner.Name)
	}
	return "The match was abandoned."
}
