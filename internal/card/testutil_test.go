package card

import (
	"testing"

	"github.com/peterkuimelis/lexicarcana/internal/term"
)

func newTerm(id, name string, cat term.Category, cost term.CostExpr, spell, creature string) *term.Term {
	return &term.Term{
		ID:       id,
		Name:     name,
		Category: cat,
		Cost:     cost,
		Spell:    term.ParseTemplate(spell),
		Creature: term.ParseTemplate(creature),
	}
}

// testCatalog returns a small catalog covering every cost operator.
func testCatalog(t *testing.T) *term.Catalog {
	t.Helper()
	c, err := term.NewCatalog(
		newTerm("bolt", "Bolt", term.CategoryBase, term.Fixed(2), "Deal 4 damage", "Gains {4X:attack} attack."),
		newTerm("ward", "Ward", term.CategoryBase, term.Fixed(10), "Shield up.", "Shield up."),
		newTerm("blast", "Blast", term.CategoryBase, term.Fixed(20), "Deal {5X} damage.", "Deals {5X} damage on entry."),
		newTerm("dmg", "Damage X", term.CategoryBase, term.Linear(1), "Deal {2X} damage.", "Gains {X:attack} attack."),
		newTerm("hp", "Heal 3X", term.CategoryBase, term.Linear(2), "Restore {3X} health.", "Gains {3X:health} health."),
		newTerm("revive", "Revive X", term.CategoryBase, term.LinearOffset(30, 10), "Return {2X} creatures.", "Return {X} creatures."),
		newTerm("cursed", "Cursed", term.CategoryBase, term.Fixed(-30), "Cannot be played.", "Cannot grow."),
		newTerm("repeat", "Repeat X", term.CategorySpecial, term.Repeat(), "Strike {X} more times.", "Attacks {X} more times."),
		newTerm("tax", "Tax", term.CategorySpecial, term.Multiply(2), "Costs double.", "Costs double."),
		newTerm("decree", "Decree", term.CategoryConditional, term.Divide(5), "Decree: if ready, {effect}", "Decree: on entry, {effect}"),
		newTerm("echo", "Echo", term.CategoryConditional, term.Multiply(2), "Echo: {effect}", "Echo: {effect}"),
		newTerm("oath", "Oath", term.CategoryConditional, term.Fixed(5), "Oath: when sworn, {effect}", "Oath: when sworn, {effect}"),
	)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return c
}

func testSynth(t *testing.T) *Synthesizer {
	t.Helper()
	return NewSynthesizer(testCatalog(t))
}

func items(ids ...string) []Item {
	out := make([]Item, len(ids))
	for i, id := range ids {
		out[i] = T(id)
	}
	return out
}

func mustSynth(t *testing.T, s *Synthesizer, its []Item, kind Kind) *Card {
	t.Helper()
	c, err := s.Synthesize(its, "Test", kind)
	if err != nil {
		t.Fatalf("Synthesize(%v): %v", its, err)
	}
	return c
}
