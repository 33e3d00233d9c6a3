package game

import (
	"github.com/peterkuimelis/lexicarcana/internal/card"
	"github.com/peterkuimelis/lexicarcana/internal/log"
)

// EffectFunc applies one term's battle-time behavior.
type EffectFunc func(ec *EffectContext)

// ConditionFunc reports whether a limiter's condition holds.
type ConditionFunc func(ec *EffectContext) bool

// EffectHandler holds a term's behavior for each card kind. A nil func means
// the term has no settlement behavior for that kind.
type EffectHandler struct {
	Spell    EffectFunc
	Creature EffectFunc
}

// EffectContext carries one settlement entry through the interpreter.
type EffectContext struct {
	m       *Match
	State   *MatchState
	Entry   SettlementEntry
	Owner   *Player
	Foe     *Player
	Effect  card.Effect
	Pending []SettlementEntry // every entry resolved this turn, in order
}

// Amount is the current effect's magnitude.
func (ec *EffectContext) Amount() int {
	return ec.Effect.Amount
}

// Target is the entry's recorded target.
func (ec *EffectContext) Target() Target {
	return ec.Entry.Target
}

// Creature returns the creature this entry put into play, if it is still there.
func (ec *EffectContext) Creature() *Creature {
	if ec.Entry.CreatureID == 0 {
		return nil
	}
	c, _, _ := ec.State.FindCreature(ec.Entry.CreatureID)
	return c
}

func (ec *EffectContext) turn() int {
	return ec.State.TurnCount
}

// Damage reduces the target's health by n.
func (ec *EffectContext) Damage(t Target, n int, reason string) {
	if n <= 0 {
		return
	}
	switch t.Kind {
	case TargetPlayer:
		p := ec.State.Players[t.Player]
		old := p.Health
		p.Health -= n
		ec.m.log(log.NewHealthChangeEvent(ec.turn(), "Settlement", t.Player, old, p.Health, reason))
	case TargetCreature:
		if c := ec.State.CreatureAt(t); c != nil {
			c.Health -= n
			ec.m.log(log.NewStatChangeEvent(ec.turn(), "Settlement", t.Player, c.Name, c.Attack, c.Health, reason))
		}
	}
}

// Heal restores up to n health without exceeding maximum health.
func (ec *EffectContext) Heal(t Target, n int, reason string) {
	if n <= 0 {
		return
	}
	switch t.Kind {
	case TargetPlayer:
		p := ec.State.Players[t.Player]
		old := p.Health
		p.Health = min(p.Health+n, p.MaxHealth)
		ec.m.log(log.NewHealthChangeEvent(ec.turn(), "Settlement", t.Player, old, p.Health, reason))
	case TargetCreature:
		if c := ec.State.CreatureAt(t); c != nil {
			c.Health = min(c.Health+n, c.MaxHealth)
			ec.m.log(log.NewStatChangeEvent(ec.turn(), "Settlement", t.Player, c.Name, c.Attack, c.Health, reason))
		}
	}
}

// AdjustMax changes health and maximum health together by n.
func (ec *EffectContext) AdjustMax(t Target, n int, reason string) {
	switch t.Kind {
	case TargetPlayer:
		p := ec.State.Players[t.Player]
		old := p.Health
		p.MaxHealth = max(p.MaxHealth+n, 0)
		p.Health = min(p.Health+n, p.MaxHealth)
		ec.m.log(log.NewHealthChangeEvent(ec.turn(), "Settlement", t.Player, old, p.Health, reason))
	case TargetCreature:
		if c := ec.State.CreatureAt(t); c != nil {
			c.MaxHealth = max(c.MaxHealth+n, 0)
			c.Health = min(c.Health+n, c.MaxHealth)
			ec.m.log(log.NewStatChangeEvent(ec.turn(), "Settlement", t.Player, c.Name, c.Attack, c.Health, reason))
		}
	}
}

// Buff adds attack and health (and maximum health) to a creature.
func (ec *EffectContext) Buff(t Target, atk, hp int, reason string) {
	c := ec.State.CreatureAt(t)
	if c == nil {
		return
	}
	c.Attack = max(c.Attack+atk, 0)
	c.MaxHealth += hp
	c.Health += hp
	ec.m.log(log.NewStatChangeEvent(ec.turn(), "Settlement", t.Player, c.Name, c.Attack, c.Health, reason))
}

// Destroy drops a creature to 0 health; cleanup files it in the graveyard.
func (ec *EffectContext) Destroy(t Target, reason string) {
	c := ec.State.CreatureAt(t)
	if c == nil || c.Health <= 0 {
		return
	}
	c.Health = 0
	ec.m.log(log.NewDestroyEvent(ec.turn(), "Settlement", t.Player, c.Name, reason))
}

// Summon places a creature in the player's first free slot. It returns false
// when the board is full.
func (ec *EffectContext) Summon(player int, c *Creature) bool {
	p := ec.State.Players[player]
	slot := p.FreeSlot()
	if slot < 0 {
		return false
	}
	c.ID = ec.State.NextID()
	p.Board[slot] = c
	ec.m.log(log.NewSummonTokenEvent(ec.turn(), "Settlement", player, c.Name, slot))
	return true
}

// Draw moves up to n cards from the front of the player's deck into hand,
// stopping at the hand cap.
func (ec *EffectContext) Draw(player int, n int) {
	p := ec.State.Players[player]
	for i := 0; i < n && len(p.Deck) > 0 && len(p.Hand) < ec.m.handCap; i++ {
		c := p.Deck[0]
		p.Deck = p.Deck[1:]
		p.Hand = append(p.Hand, c)
		ec.m.log(log.NewAddToHandEvent(ec.turn(), "Settlement", player, c.Name, "drawn by effect"))
	}
}

// FoeCreatures returns target references for every creature the foe controls.
func (ec *EffectContext) FoeCreatures() []Target {
	var ts []Target
	foe := ec.Foe.ID
	for slot, c := range ec.Foe.Board {
		if c != nil && c.Health > 0 {
			ts = append(ts, CreatureTarget(foe, slot))
		}
	}
	return ts
}

// resolveEntry runs every effect on the entry's card. Effects under a limiter
// apply only when its condition holds.
func (m *Match) resolveEntry(e SettlementEntry, pending []SettlementEntry) {
	s := m.state
	c := e.Card
	ec := &EffectContext{
		m:       m,
		State:   s,
		Entry:   e,
		Owner:   s.Players[e.Player],
		Foe:     s.Players[s.Opponent(e.Player)],
		Pending: pending,
	}

	conditionHolds := true
	if c.Limiter != "" {
		conditionHolds = conditionMet(c.Limiter, ec)
		if !conditionHolds {
			m.log(log.NewConditionUnmetEvent(s.TurnCount, "Settlement", e.Player, c.Name, c.Limiter))
		}
	}

	for _, eff := range c.Effects {
		if eff.Limiter != "" && !conditionHolds {
			continue
		}
		h, ok := LookupEffect(eff.TermID)
		if !ok {
			continue
		}
		fn := h.Spell
		if c.IsCreature() {
			fn = h.Creature
		}
		if fn == nil {
			continue
		}
		ec.Effect = eff
		fn(ec)
	}
}

func conditionMet(limiter string, ec *EffectContext) bool {
	cond, ok := LookupCondition(limiter)
	if !ok {
		return true
	}
	return cond(ec)
}
