package game

import (
	"github.com/peterkuimelis/lexicarcana/internal/card"
	"github.com/peterkuimelis/lexicarcana/internal/log"
)

// endTurn runs the end-of-turn sequence: settlement, lane combat, cleanup,
// victory check and, unless the match ended, the turn handoff. It is only
// called after validate has accepted an EndTurn intent, and cannot fail.
func (m *Match) endTurn() {
	ending := m.state.Active

	m.resolveSettlement()
	m.laneCombat()
	m.cleanup()
	if m.checkVictory() {
		return
	}
	m.handoff(ending)
}

// resolveSettlement resolves queued entries in order and clears the zone.
func (m *Match) resolveSettlement() {
	s := m.state
	entries := s.Settlement
	s.Settlement = nil

	for _, e := range entries {
		m.log(log.NewSettleEvent(s.TurnCount, "Settlement", e.Player, e.Card.Name, e.Target.String()))
		m.resolveEntry(e, entries)
		if !e.Card.IsCreature() {
			owner := s.Players[e.Player]
			owner.Graveyard = append(owner.Graveyard, e.Card)
			m.log(log.NewSendToGraveyardEvent(s.TurnCount, "Settlement", e.Player, e.Card.Name))
		}
	}
}

// cleanup moves every creature at or below 0 health to its owner's graveyard.
func (m *Match) cleanup() {
	s := m.state
	for pi, p := range s.Players {
		for slot, c := range p.Board {
			if c == nil || c.Health > 0 {
				continue
			}
			p.Board[slot] = nil
			p.Graveyard = append(p.Graveyard, graveyardRecord(c))
			m.log(log.NewDestroyEvent(s.TurnCount, "Cleanup", pi, c.Name, "health reached 0"))
		}
	}
}

// graveyardRecord returns the card a dead creature is filed as.
func graveyardRecord(c *Creature) *card.Card {
	if c.Card != nil {
		return c.Card
	}
	return &card.Card{ID: c.CardID, Name: c.Name, Kind: card.KindCreature, Cost: 1, Attack: c.Attack, Health: c.MaxHealth}
}

// checkVictory ends the match if either player has fallen. When both fall in
// the same turn the first seat takes the match.
func (m *Match) checkVictory() bool {
	s := m.state
	down0 := s.Players[0].Health <= 0
	down1 := s.Players[1].Health <= 0
	switch {
	case down0 && down1:
		m.declareWinner(0, "both players fell")
	case down0:
		m.declareWinner(1, "opponent health reached 0")
	case down1:
		m.declareWinner(0, "opponent health reached 0")
	default:
		return false
	}
	return true
}

// declareWinner moves the match to End. Every finished match has a winner.
func (m *Match) declareWinner(player int, reason string) {
	s := m.state
	s.Winner = s.Players[player]
	s.Phase = PhaseEnd
	m.log(log.NewWinEvent(s.TurnCount, PhaseEnd.String(), player, reason))
}

// handoff readies the ending player's creatures, clears their per-turn flags
// and passes the turn. TurnCount advances when play returns to player 0.
func (m *Match) handoff(ending int) {
	s := m.state
	p := s.Players[ending]
	for _, c := range p.Board {
		if c != nil {
			c.CanAttack = true
		}
	}
	p.PlayedCardThisTurn = false
	p.TurnHasSwappedCard = false
	s.SelectedHand = -1
	s.SelectedDeck = -1

	s.Active = s.Opponent(ending)
	if s.Active == 0 {
		s.TurnCount++
	}
	m.log(log.NewHandoffEvent(s.TurnCount, ending, s.Active))
	m.log(log.NewTurnEvent(s.TurnCount, s.Active))
}
