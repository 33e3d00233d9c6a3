package game

import "github.com/peterkuimelis/lexicarcana/internal/card"

// --- Effects ---

func damageEffect(ec *EffectContext) {
	ec.Damage(ec.Target(), ec.Amount(), ec.Entry.Card.Name)
}

func healEffect(ec *EffectContext) {
	ec.Heal(ec.Target(), ec.Amount(), ec.Entry.Card.Name)
}

// reinforceEffect puts the first creature card of the owner's deck into play
// with +N/+N.
func reinforceEffect(ec *EffectContext) {
	p := ec.Owner
	if p.FreeSlot() < 0 {
		return
	}
	for i, c := range p.Deck {
		if !c.IsCreature() {
			continue
		}
		cr := newCreature(ec.State, c)
		cr.Attack += ec.Amount()
		cr.Health += ec.Amount()
		cr.MaxHealth += ec.Amount()
		p.Deck = append(p.Deck[:i:i], p.Deck[i+1:]...)
		ec.Summon(p.ID, cr)
		return
	}
}

var constructCard = &card.Card{
	ID:          "mana-construct",
	Name:        "Mana Construct",
	Kind:        card.KindCreature,
	Cost:        1,
	Description: "A 1/1 construct.",
	Attack:      1,
	Health:      1,
}

// constructEffect creates N 1/1 constructs in free slots.
func constructEffect(ec *EffectContext) {
	for i := 0; i < ec.Amount(); i++ {
		cr := &Creature{
			CardID:    constructCard.ID,
			Card:      constructCard,
			Name:      constructCard.Name,
			Attack:    1,
			Health:    1,
			MaxHealth: 1,
		}
		if !ec.Summon(ec.Owner.ID, cr) {
			return
		}
	}
}

func bloodPriceEffect(ec *EffectContext) {
	ec.Damage(PlayerTarget(ec.Owner.ID), ec.Amount(), "blood price")
}

func rebirthEffect(ec *EffectContext) {
	ec.AdjustMax(ec.Target(), ec.Amount(), "rebirth")
}

func cleaveEffect(ec *EffectContext) {
	ec.AdjustMax(ec.Target(), -ec.Amount(), "cleave")
}

func witherEffect(ec *EffectContext) {
	for _, t := range ec.FoeCreatures() {
		if ec.State.CreatureAt(t).Health <= ec.Amount() {
			ec.Destroy(t, "withered")
		}
	}
}

func executeEffect(ec *EffectContext) {
	t := ec.Target()
	if t.Player == ec.Owner.ID {
		return
	}
	if c := ec.State.CreatureAt(t); c != nil && c.Health < ec.Amount() {
		ec.Destroy(t, "executed")
	}
}

func executeWeakestEffect(ec *EffectContext) {
	if t, ok := weakestFoe(ec); ok && ec.State.CreatureAt(t).Health < ec.Amount() {
		ec.Destroy(t, "executed")
	}
}

func devotionEffect(ec *EffectContext) {
	devour(ec, ec.Target())
}

func devotionWeakestEffect(ec *EffectContext) {
	if t, ok := weakestFoe(ec); ok {
		devour(ec, t)
	}
}

// devour destroys a creature at or below the effect's amount and heals the
// owner by its remaining health.
func devour(ec *EffectContext, t Target) {
	c := ec.State.CreatureAt(t)
	if c == nil || c.Health <= 0 || c.Health > ec.Amount() {
		return
	}
	gained := c.Health
	ec.Destroy(t, "devotion")
	ec.Heal(PlayerTarget(ec.Owner.ID), gained, "devotion")
}

func petrifyEffect(ec *EffectContext) {
	t := ec.Target()
	c := ec.State.CreatureAt(t)
	if c == nil {
		return
	}
	if want := 8 - ec.Amount(); c.Health > want {
		ec.Damage(t, c.Health-want, "petrify")
	}
}

func overdraftEffect(ec *EffectContext) {
	ec.Draw(ec.Owner.ID, ec.Amount())
}

func bloodlustEffect(ec *EffectContext) {
	for slot, c := range ec.Owner.Board {
		if c != nil {
			ec.Buff(CreatureTarget(ec.Owner.ID, slot), ec.Amount(), 0, "bloodlust")
		}
	}
}

func steadfastEffect(ec *EffectContext) {
	ec.Buff(ec.Target(), ec.Amount(), ec.Amount(), "steadfast")
}

// commandEffect has each of the owner's creatures strike the target N times.
func commandEffect(ec *EffectContext) {
	total := 0
	for _, c := range ec.Owner.Board {
		if c != nil && c.Health > 0 {
			total += c.Attack * ec.Amount()
		}
	}
	ec.Damage(ec.Target(), total, "command")
}

func weakestFoe(ec *EffectContext) (Target, bool) {
	var best Target
	found := false
	for _, t := range ec.FoeCreatures() {
		if !found || ec.State.CreatureAt(t).Health < ec.State.CreatureAt(best).Health {
			best, found = t, true
		}
	}
	return best, found
}

// --- Limiter conditions ---

// decreeCondition holds when no other card settled this turn cost more.
func decreeCondition(ec *EffectContext) bool {
	for _, e := range ec.Pending {
		if e.Card.Cost > ec.Entry.Card.Cost {
			return false
		}
	}
	return true
}

func overflowCondition(ec *EffectContext) bool {
	return len(ec.Owner.Hand) >= 5
}

func inspireCondition(ec *EffectContext) bool {
	for _, c := range ec.Owner.Board {
		if c != nil && c.Health > 0 && c.ID != ec.Entry.CreatureID {
			return true
		}
	}
	return false
}

// resonanceCondition holds when the foe's last played card matches this card's kind.
func resonanceCondition(ec *EffectContext) bool {
	last := ec.Foe.LastPlayed
	return last != nil && last.Kind == ec.Entry.Card.Kind
}

func dissipateCondition(ec *EffectContext) bool {
	return len(ec.FoeCreatures()) == 0
}

func desperationCondition(ec *EffectContext) bool {
	return ec.Owner.Health*10 < ec.Owner.MaxHealth*3
}

// maimCondition holds when the target is already wounded.
func maimCondition(ec *EffectContext) bool {
	t := ec.Target()
	switch t.Kind {
	case TargetPlayer:
		p := ec.State.Players[t.Player]
		return p.Health < p.MaxHealth
	case TargetCreature:
		c := ec.State.CreatureAt(t)
		return c != nil && c.Health < c.MaxHealth
	}
	return false
}
