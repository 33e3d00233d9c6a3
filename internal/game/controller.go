package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/peterkuimelis/lexicarcana/internal/log"
)

// Controller is implemented by every way of driving a seat: terminal,
// network peer, MCP agent or bot.
type Controller interface {
	// ChooseIntent is called when the controller's player must act. state is a
	// snapshot; legal lists the intents the engine would accept right now.
	ChooseIntent(ctx context.Context, state *MatchState, legal []Intent) (Intent, error)

	// Notify sends a match event notification (no response needed).
	Notify(ctx context.Context, event log.GameEvent) error
}

// MaxRejections bounds consecutive rejected intents from one controller in Run.
const MaxRejections = 20

var ErrTooManyRejections = errors.New("controller kept submitting rejected intents")

// Run drives the match by asking the active player's controller for intents
// until the match ends, maxRounds full rounds pass (0 = no limit), or ctx is
// cancelled. It returns the winner index, or -1 when the match did not finish.
// At the round limit the player with more health wins, the first seat on a tie.
func (m *Match) Run(ctx context.Context, controllers [2]Controller, maxRounds int) (int, error) {
	m.Observe(func(e log.GameEvent) {
		for _, c := range controllers {
			_ = c.Notify(ctx, e)
		}
	})

	rejections := 0
	for {
		if err := ctx.Err(); err != nil {
			return -1, err
		}
		s := m.Snapshot()
		if s.Over() {
			return s.WinnerIndex(), nil
		}
		if maxRounds > 0 && s.TurnCount >= maxRounds {
			return m.endAtRoundLimit(fmt.Sprintf("round limit reached (%d rounds)", maxRounds)), nil
		}

		in, err := controllers[s.Active].ChooseIntent(ctx, s, LegalIntents(s))
		if err != nil {
			return -1, fmt.Errorf("P%d choose intent: %w", s.Active+1, err)
		}
		in.Player = s.Active
		if err := m.Submit(in); err != nil {
			if _, ok := ReasonOf(err); !ok {
				return -1, err
			}
			rejections++
			if rejections >= MaxRejections {
				return -1, fmt.Errorf("P%d: %w", s.Active+1, ErrTooManyRejections)
			}
			continue
		}
		rejections = 0
	}
}

func (m *Match) endAtRoundLimit(reason string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.Over() {
		winner := 0
		if m.state.Players[1].Health > m.state.Players[0].Health {
			winner = 1
		}
		m.declareWinner(winner, reason)
	}
	return m.state.WinnerIndex()
}

// LegalIntents lists every intent the active player could submit in s.
func LegalIntents(s *MatchState) []Intent {
	if s.Over() {
		return nil
	}
	pi := s.Active
	p := s.Players[pi]
	var out []Intent

	switch s.Phase {
	case PhaseMain:
		if !p.PlayedCardThisTurn {
			for i := range p.Hand {
				out = append(out, PlayCard(pi, i))
			}
		}
		if !p.TurnHasSwappedCard && len(p.Deck) > 0 {
			out = append(out, BrowseDeck(pi))
			for i := range p.Deck {
				out = append(out, PickDeckCard(pi, i))
			}
		}
		out = append(out, EndTurn(pi))

	case PhaseSelectingBoardSlot:
		for _, slot := range p.FreeSlots() {
			out = append(out, SelectSlot(pi, slot))
		}
		out = append(out, PlayCard(pi, s.SelectedHand))

	case PhaseSelectingTarget:
		for tp := 0; tp < 2; tp++ {
			out = append(out, SelectTarget(pi, PlayerTarget(tp)))
			for slot, c := range s.Players[tp].Board {
				if c != nil {
					out = append(out, SelectTarget(pi, CreatureTarget(tp, slot)))
				}
			}
		}
		out = append(out, PlayCard(pi, s.SelectedHand))

	case PhaseSelectingHandCard:
		for i := range p.Hand {
			out = append(out, SwapHandCard(pi, i))
		}
		out = append(out, PickDeckCard(pi, s.SelectedDeck))
	}
	return out
}
