package game

import "github.com/peterkuimelis/lexicarcana/internal/log"

type combatant struct {
	creature *Creature
	attack   int
	ready    bool
}

// laneCombat pairs the creatures in each slot index. Every lane is evaluated
// from the same pre-combat snapshot so trades are simultaneous: a creature
// that dies here still deals its damage.
func (m *Match) laneCombat() {
	s := m.state

	var snap [2][BoardSize]combatant
	for pi, p := range s.Players {
		for slot, c := range p.Board {
			if c == nil {
				continue
			}
			snap[pi][slot] = combatant{creature: c, attack: c.Attack, ready: c.CanAttack && c.Health > 0 && c.Attack > 0}
		}
	}

	for slot := 0; slot < BoardSize; slot++ {
		for pi := 0; pi < 2; pi++ {
			atk := snap[pi][slot]
			if !atk.ready {
				continue
			}
			opp := s.Opponent(pi)
			if def := snap[opp][slot].creature; def != nil {
				def.Health -= atk.attack
				m.log(log.NewLaneAttackEvent(s.TurnCount, pi, atk.creature.Name, def.Name, slot, atk.attack))
				continue
			}
			target := s.Players[opp]
			old := target.Health
			target.Health -= atk.attack
			m.log(log.NewDirectAttackEvent(s.TurnCount, pi, atk.creature.Name, slot, atk.attack))
			m.log(log.NewHealthChangeEvent(s.TurnCount, "Combat", opp, old, target.Health, "lane attack"))
		}
	}
}
