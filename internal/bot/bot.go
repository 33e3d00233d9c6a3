// Package bot implements the non-human player: a fixed decision procedure
// over match snapshots, driven through the same Submit path as any other seat.
package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/peterkuimelis/lexicarcana/internal/card"
	"github.com/peterkuimelis/lexicarcana/internal/game"
	"github.com/peterkuimelis/lexicarcana/internal/log"
)

// DefaultDelay is the pause before the bot acts on its turn.
const DefaultDelay = time.Second

// maxSteps bounds the intents PlayTurn submits in one turn.
const maxSteps = 16

// restorative terms make the bot target itself.
var restorative = map[string]bool{
	"heal":         true,
	"armor":        true,
	"life-rebirth": true,
}

// creature-buffing terms want one of the bot's own creatures.
var friendlyCreature = map[string]bool{
	"fearless-steadfast": true,
}

// creature-removal terms want an enemy creature.
var hostileCreature = map[string]bool{
	"dust-petrify":      true,
	"slaughter-execute": true,
	"love-devotion":     true,
}

// NextIntent returns the intent the bot submits for player in s. It plays the
// first playable card in hand (a creature into the first free slot, a spell at
// its preferred target), then ends the turn.
func NextIntent(s *game.MatchState, player int) game.Intent {
	p := s.Players[player]
	switch s.Phase {
	case game.PhaseSelectingBoardSlot:
		if slot := p.FreeSlot(); slot >= 0 {
			return game.SelectSlot(player, slot)
		}
		return game.PlayCard(player, s.SelectedHand)
	case game.PhaseSelectingTarget:
		return game.SelectTarget(player, TargetFor(s, player, p.Hand[s.SelectedHand]))
	case game.PhaseSelectingHandCard:
		return game.PickDeckCard(player, s.SelectedDeck)
	}

	if !p.PlayedCardThisTurn {
		for i, c := range p.Hand {
			if c.IsCreature() && p.FreeSlot() < 0 {
				continue
			}
			return game.PlayCard(player, i)
		}
	}
	return game.EndTurn(player)
}

// TargetFor picks a spell target: itself for restorative spells, its own
// creature for buffs, an enemy creature for removal, otherwise the opponent.
func TargetFor(s *game.MatchState, player int, c *card.Card) game.Target {
	opp := s.Opponent(player)
	for _, e := range c.Effects {
		switch {
		case restorative[e.TermID]:
			return game.PlayerTarget(player)
		case friendlyCreature[e.TermID]:
			if slot := firstCreature(s.Players[player]); slot >= 0 {
				return game.CreatureTarget(player, slot)
			}
		case hostileCreature[e.TermID]:
			if slot := firstCreature(s.Players[opp]); slot >= 0 {
				return game.CreatureTarget(opp, slot)
			}
		}
	}
	return game.PlayerTarget(opp)
}

func firstCreature(p *game.Player) int {
	for slot, c := range p.Board {
		if c != nil {
			return slot
		}
	}
	return -1
}

// PlayTurn submits intents for player until its turn ends or the match is
// over. It does nothing when player is not active.
func PlayTurn(m *game.Match, player int) error {
	for range maxSteps {
		s := m.Snapshot()
		if s.Over() || s.Active != player {
			return nil
		}
		in := NextIntent(s, player)
		if err := m.Submit(in); err != nil {
			return fmt.Errorf("bot P%d %s: %w", player+1, in, err)
		}
		if in.Type == game.IntentEndTurn {
			return nil
		}
	}
	return fmt.Errorf("bot P%d did not finish its turn in %d steps", player+1, maxSteps)
}

// Schedule plays player's turn after delay on its own goroutine. done, when
// non-nil, receives PlayTurn's result. Stop the returned timer to cancel.
func Schedule(m *game.Match, player int, delay time.Duration, done func(error)) *time.Timer {
	return time.AfterFunc(delay, func() {
		err := PlayTurn(m, player)
		if done != nil {
			done(err)
		}
	})
}

// Bot is a game.Controller backed by NextIntent.
type Bot struct {
	Player int
	Delay  time.Duration
}

// New returns a bot for player that waits delay before each intent.
func New(player int, delay time.Duration) *Bot {
	return &Bot{Player: player, Delay: delay}
}

// ChooseIntent implements game.Controller.
func (b *Bot) ChooseIntent(ctx context.Context, state *game.MatchState, legal []game.Intent) (game.Intent, error) {
	if b.Delay > 0 {
		t := time.NewTimer(b.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return game.Intent{}, ctx.Err()
		case <-t.C:
		}
	}
	return NextIntent(state, state.Active), nil
}

// Notify implements game.Controller.
func (b *Bot) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}
