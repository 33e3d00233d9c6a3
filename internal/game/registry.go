package game

// EffectRegistry maps term ids to their settlement behavior. Terms without an
// entry are descriptive only.
var EffectRegistry = map[string]EffectHandler{
	"damage":              {Spell: damageEffect},
	"heal":                {Spell: healEffect},
	"armor":               {Spell: healEffect},
	"summon":              {Spell: reinforceEffect, Creature: constructEffect},
	"blood-price":         {Spell: bloodPriceEffect, Creature: bloodPriceEffect},
	"life-rebirth":        {Spell: rebirthEffect},
	"metal-cleave":        {Spell: cleaveEffect},
	"death-wither":        {Spell: witherEffect, Creature: witherEffect},
	"slaughter-execute":   {Spell: executeEffect, Creature: executeWeakestEffect},
	"love-devotion":       {Spell: devotionEffect, Creature: devotionWeakestEffect},
	"dust-petrify":        {Spell: petrifyEffect},
	"chaos-overdraft":     {Spell: overdraftEffect, Creature: overdraftEffect},
	"slaughter-bloodlust": {Spell: bloodlustEffect, Creature: bloodlustEffect},
	"fearless-steadfast":  {Spell: steadfastEffect},
	"fearless-command":    {Spell: commandEffect},
}

// ConditionRegistry maps limiter ids to their conditions. A limiter without an
// entry always applies.
var ConditionRegistry = map[string]ConditionFunc{
	"primal-decree":        decreeCondition,
	"chaos-overflow":       overflowCondition,
	"life-inspire":         inspireCondition,
	"love-resonance":       resonanceCondition,
	"water-dissipate":      dissipateCondition,
	"fearless-desperation": desperationCondition,
	"slaughter-maim":       maimCondition,
}

// LookupEffect returns the handler registered for a term id.
func LookupEffect(termID string) (EffectHandler, bool) {
	h, ok := EffectRegistry[termID]
	return h, ok
}

// LookupCondition returns the condition registered for a limiter id.
func LookupCondition(limiterID string) (ConditionFunc, bool) {
	c, ok := ConditionRegistry[limiterID]
	return c, ok
}
