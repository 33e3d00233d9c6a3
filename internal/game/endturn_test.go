package game

import (
	"testing"

	"github.com/peterkuimelis/lexicarcana/internal/card"
	"github.com/peterkuimelis/lexicarcana/internal/log"
)

func TestLaneCombatHitsEmptyLaneOwner(t *testing.T) {
	m, logger := newTestMatch(t, nil, nil)
	place(m, 0, 0, creatureCard("Raider", 4, 3), true)

	mustSubmit(t, m, EndTurn(0))
	s := m.Snapshot()
	if s.Players[1].Health != 26 {
		t.Errorf("defender health = %d, want 26", s.Players[1].Health)
	}
	if s.Players[0].Health != StartingHealth {
		t.Errorf("attacker health = %d, want %d", s.Players[0].Health, StartingHealth)
	}
	if len(logger.EventsOfType(log.EventDirectAttack)) != 1 {
		t.Error("expected one DirectAttack event")
	}
}

func TestSummoningSicknessLastsUntilNextTurn(t *testing.T) {
	m, _ := newTestMatch(t, []*card.Card{creatureCard("Pup", 5, 5)}, nil)
	mustSubmit(t, m, PlayCard(0, 0))
	mustSubmit(t, m, SelectSlot(0, 1))
	mustSubmit(t, m, EndTurn(0))

	s := m.Snapshot()
	if s.Players[1].Health != StartingHealth {
		t.Errorf("new creature attacked on its first turn: P2 health %d", s.Players[1].Health)
	}
	if !s.Players[0].Board[1].CanAttack {
		t.Error("creature not readied at handoff")
	}

	mustSubmit(t, m, EndTurn(1))
	if s := m.Snapshot(); s.Players[1].Health != StartingHealth-5 {
		t.Errorf("P2 health = %d, want %d", s.Players[1].Health, StartingHealth-5)
	}
}

func TestLaneCombatIsSimultaneous(t *testing.T) {
	m, logger := newTestMatch(t, nil, nil)
	place(m, 0, 1, creatureCard("Left", 3, 3), true)
	place(m, 1, 1, creatureCard("Right", 3, 3), true)
	place(m, 0, 2, creatureCard("Glass", 5, 2), true)
	place(m, 1, 2, creatureCard("Wall", 2, 6), true)

	mustSubmit(t, m, EndTurn(0))
	s := m.Snapshot()
	if s.Players[0].Board[1] != nil || s.Players[1].Board[1] != nil {
		t.Error("an even trade should destroy both creatures")
	}
	if s.Players[0].Board[2] != nil {
		t.Error("Glass should die to Wall's counter-attack")
	}
	if wall := s.Players[1].Board[2]; wall == nil || wall.Health != 1 {
		t.Errorf("Wall = %+v, want health 1", wall)
	}
	if len(s.Players[0].Graveyard) != 2 || len(s.Players[1].Graveyard) != 1 {
		t.Errorf("graveyards = %d/%d, want 2/1", len(s.Players[0].Graveyard), len(s.Players[1].Graveyard))
	}
	if s.Players[0].Health != StartingHealth || s.Players[1].Health != StartingHealth {
		t.Error("blocked lanes must not damage players")
	}
	if n := len(logger.EventsOfType(log.EventDestroy)); n != 3 {
		t.Errorf("destroy events = %d, want 3", n)
	}
}

func TestVictoryEndsMatch(t *testing.T) {
	m, logger := newTestMatch(t, nil, nil)
	m.state.Players[1].Health = 4
	place(m, 0, 0, creatureCard("Finisher", 4, 1), true)

	mustSubmit(t, m, EndTurn(0))
	s := m.Snapshot()
	if s.Phase != PhaseEnd {
		t.Fatalf("phase = %s, want End", s.Phase)
	}
	if s.Winner != s.Players[0] || s.WinnerIndex() != 0 {
		t.Errorf("winner = %v", s.Winner)
	}
	if s.Active != 0 {
		t.Error("no handoff should happen once the match is won")
	}
	if len(logger.EventsOfType(log.EventWin)) != 1 {
		t.Error("expected a Win event")
	}
	mustReject(t, m, EndTurn(1), ReasonMatchOver)
	mustReject(t, m, EndTurn(0), ReasonMatchOver)
	mustReject(t, m, PlayCard(0, 0), ReasonMatchOver)
}

func TestBothPlayersFallingGoesToFirstSeat(t *testing.T) {
	for _, ending := range []int{0, 1} {
		m, logger := newTestMatch(t, nil, nil)
		m.state.Active = ending
		m.state.Players[0].Health = 2
		m.state.Players[1].Health = 2
		place(m, 0, 0, creatureCard("A", 3, 1), true)
		place(m, 1, 5, creatureCard("B", 3, 1), true)

		mustSubmit(t, m, EndTurn(ending))
		s := m.Snapshot()
		if s.Phase != PhaseEnd || s.WinnerIndex() != 0 {
			t.Errorf("P%d ending: phase %s, winner %d; want End, 0", ending+1, s.Phase, s.WinnerIndex())
		}
		if wins := logger.EventsOfType(log.EventWin); len(wins) != 1 || wins[0].Player != 0 {
			t.Errorf("P%d ending: win events = %v", ending+1, wins)
		}
	}
}

func TestHandoffCountsFullRounds(t *testing.T) {
	m, logger := newTestMatch(t, []*card.Card{creatureCard("A", 1, 1)}, nil)
	m.state.Players[0].Deck = fillerCards(1)
	mustSubmit(t, m, PlayCard(0, 0))
	mustSubmit(t, m, SelectSlot(0, 0))
	mustSubmit(t, m, PickDeckCard(0, 0))

	mustSubmit(t, m, EndTurn(0))
	s := m.Snapshot()
	if s.Active != 1 || s.TurnCount != 0 {
		t.Errorf("after P1 ends: active %d, round %d; want 1, 0", s.Active, s.TurnCount)
	}
	if s.Players[0].PlayedCardThisTurn || s.Players[0].TurnHasSwappedCard {
		t.Error("per-turn flags not reset for the player ending their turn")
	}

	mustSubmit(t, m, EndTurn(1))
	if s := m.Snapshot(); s.Active != 0 || s.TurnCount != 1 {
		t.Errorf("after P2 ends: active %d, round %d; want 0, 1", s.Active, s.TurnCount)
	}
	if n := len(logger.EventsOfType(log.EventHandoff)); n != 2 {
		t.Errorf("handoff events = %d, want 2", n)
	}
}

func TestSettlementResolvesBeforeCombat(t *testing.T) {
	zap := damageSpell("Zap", 4)
	m, _ := newTestMatch(t, []*card.Card{zap}, nil)
	place(m, 0, 0, creatureCard("Raider", 3, 3), true)
	place(m, 1, 0, creatureCard("Blocker", 1, 4), true)

	mustSubmit(t, m, PlayCard(0, 0))
	mustSubmit(t, m, SelectTarget(0, CreatureTarget(1, 0)))
	mustSubmit(t, m, EndTurn(0))

	s := m.Snapshot()
	if s.Players[1].Board[0] != nil {
		t.Error("Blocker should be destroyed")
	}
	// The dead blocker still holds the lane during combat and does not strike back.
	if s.Players[1].Health != StartingHealth {
		t.Errorf("P2 health = %d, want %d", s.Players[1].Health, StartingHealth)
	}
	if raider := s.Players[0].Board[0]; raider == nil || raider.Health != 3 {
		t.Errorf("Raider = %+v, want untouched", raider)
	}
	if len(s.Settlement) != 0 {
		t.Error("settlement zone not cleared")
	}
	if g := s.Players[0].Graveyard; len(g) != 1 || g[0] != zap {
		t.Errorf("P1 graveyard = %v, want the resolved spell", g)
	}
}

func TestSpellOnVanishedTargetFizzles(t *testing.T) {
	m, _ := newTestMatch(t, []*card.Card{damageSpell("Zap", 4)}, nil)
	place(m, 1, 0, creatureCard("Ghost", 1, 4), false)
	mustSubmit(t, m, PlayCard(0, 0))
	mustSubmit(t, m, SelectTarget(0, CreatureTarget(1, 0)))
	m.state.Players[1].Board[0] = nil

	mustSubmit(t, m, EndTurn(0))
	if s := m.Snapshot(); s.Players[1].Health != StartingHealth {
		t.Errorf("fizzled spell hit the player: health %d", s.Players[1].Health)
	}
}
