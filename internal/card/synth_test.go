package card

import (
	"context"
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/peterkuimelis/lexicarcana/internal/term"
)

func TestSynthesizeSingleFixedTerm(t *testing.T) {
	s := testSynth(t)
	c := mustSynth(t, s, items("bolt"), KindSpell)
	if c.Cost != 2 {
		t.Errorf("Cost = %d, want 2", c.Cost)
	}
	if c.Description != "Deal 4 damage" {
		t.Errorf("Description = %q, want %q", c.Description, "Deal 4 damage")
	}
	if c.Kind != KindSpell || c.Name != "Test" {
		t.Errorf("card = %+v", c)
	}
}

func TestSynthesizeEmpty(t *testing.T) {
	s := testSynth(t)
	if _, err := s.Synthesize(nil, "x", KindSpell); !errors.Is(err, ErrEmptyTermSet) {
		t.Errorf("Synthesize(nil) err = %v, want ErrEmptyTermSet", err)
	}
	c, err := s.Preview(nil, "x", KindSpell)
	if c != nil || err != nil {
		t.Errorf("Preview(nil) = %v, %v; want nil, nil", c, err)
	}
}

func TestSynthesizeCostIsSumOfTermCosts(t *testing.T) {
	s := testSynth(t)
	tests := []struct {
		ids  []string
		want int
	}{
		{[]string{"dmg"}, 1},
		{[]string{"dmg", "dmg", "dmg"}, 3},
		{[]string{"hp", "dmg"}, 3},
		{[]string{"bolt", "ward", "dmg", "dmg"}, 14},
		{[]string{"revive"}, 40},
		{[]string{"revive", "revive"}, 50},
		{[]string{"blast", "hp", "hp", "hp"}, 26},
		{[]string{"cursed", "dmg"}, 1},
		{[]string{"cursed"}, 1},
	}
	for _, tt := range tests {
		for _, kind := range []Kind{KindSpell, KindCreature} {
			c := mustSynth(t, s, items(tt.ids...), kind)
			if c.Cost != tt.want {
				t.Errorf("%v as %s: Cost = %d, want %d", tt.ids, kind, c.Cost, tt.want)
			}
			if c.Cost < 1 {
				t.Errorf("%v: cost %d below 1", tt.ids, c.Cost)
			}
		}
	}
}

func TestSynthesizeGroupsByTerm(t *testing.T) {
	s := testSynth(t)
	c := mustSynth(t, s, items("dmg", "ward", "dmg", "dmg"), KindSpell)
	if c.Description != "Deal 6 damage. Shield up." {
		t.Errorf("Description = %q", c.Description)
	}
	e, ok := c.Effect("dmg")
	if !ok || e.Count != 3 || e.Amount != 6 || e.Limiter != "" {
		t.Errorf("dmg effect = %+v, %v", e, ok)
	}
}

func TestSynthesizeDivisiveLimiter(t *testing.T) {
	s := testSynth(t)
	c := mustSynth(t, s, []Item{T("ward"), Group("decree", "blast")}, KindSpell)
	if c.Cost != 14 {
		t.Errorf("Cost = %d, want 14 (10 + 20/5)", c.Cost)
	}
	if c.Limiter != "decree" {
		t.Errorf("Limiter = %q", c.Limiter)
	}
	if c.Description != "Shield up. if ready, Deal 5 damage." {
		t.Errorf("Description = %q", c.Description)
	}
	e, ok := c.Effect("blast")
	if !ok || e.Limiter != "decree" || e.Amount != 5 {
		t.Errorf("blast effect = %+v, %v", e, ok)
	}
}

func TestSynthesizeLimiterOperators(t *testing.T) {
	s := testSynth(t)
	tests := []struct {
		name  string
		items []Item
		want  int
	}{
		{"multiplicative", []Item{T("ward"), Group("echo", "dmg", "dmg")}, 14},
		{"fixed adds value and children", []Item{Group("oath", "blast")}, 25},
		{"fractional rounds up", []Item{Group("decree", "bolt", "bolt")}, 1},
		{"limiter without children", []Item{T("decree"), T("ward")}, 10},
		{"group before main term", []Item{Group("decree", "blast", "blast"), T("ward")}, 18},
	}
	for _, tt := range tests {
		c := mustSynth(t, s, tt.items, KindSpell)
		if c.Cost != tt.want {
			t.Errorf("%s: Cost = %d, want %d", tt.name, c.Cost, tt.want)
		}
	}
}

func TestSynthesizeChildTextAppearsVerbatim(t *testing.T) {
	s := testSynth(t)
	children := [][]string{{"dmg"}, {"dmg", "dmg", "hp"}, {"bolt", "ward"}, {"revive"}}
	for _, kids := range children {
		for _, kind := range []Kind{KindSpell, KindCreature} {
			alone := mustSynth(t, s, items(kids...), kind)
			grouped := mustSynth(t, s, []Item{T("ward"), Group("decree", kids...)}, kind)
			if !strings.Contains(grouped.Description, alone.Description) {
				t.Errorf("%v as %s: %q does not contain %q", kids, kind, grouped.Description, alone.Description)
			}
		}
	}
}

func TestSynthesizeStripsLimiterName(t *testing.T) {
	s := testSynth(t)
	c := mustSynth(t, s, []Item{Group("echo", "bolt")}, KindSpell)
	if c.Description != "Deal 4 damage" {
		t.Errorf("Description = %q, want %q", c.Description, "Deal 4 damage")
	}
}

func TestSynthesizeGlobalModifiersApplyLast(t *testing.T) {
	s := testSynth(t)
	tests := []struct {
		name  string
		items []Item
		want  int
	}{
		{"repeat once", items("dmg", "dmg", "repeat"), 4},
		{"repeat before terms", items("repeat", "ward"), 20},
		{"repeat after limiter", []Item{T("dmg"), Group("decree", "blast"), T("repeat")}, 10},
		{"tax then repeat twice", items("ward", "tax", "repeat", "repeat"), 60},
		{"modifier alone", items("tax"), 1},
	}
	for _, tt := range tests {
		c := mustSynth(t, s, tt.items, KindSpell)
		if c.Cost != tt.want {
			t.Errorf("%s: Cost = %d, want %d", tt.name, c.Cost, tt.want)
		}
	}

	c := mustSynth(t, s, items("dmg", "dmg", "repeat"), KindSpell)
	if c.Description != "Deal 4 damage. Strike 1 more times." {
		t.Errorf("Description = %q", c.Description)
	}
}

func TestSynthesizeCreatureStats(t *testing.T) {
	s := testSynth(t)
	c := mustSynth(t, s, items("dmg", "dmg", "hp"), KindCreature)
	if c.Attack != 2 || c.Health != 3 {
		t.Errorf("stats = %d/%d, want 2/3", c.Attack, c.Health)
	}
	if c.Description != "Gains 2 attack. Gains 3 health." {
		t.Errorf("Description = %q", c.Description)
	}

	spell := mustSynth(t, s, items("dmg", "dmg", "hp"), KindSpell)
	if spell.Attack != 0 || spell.Health != 0 {
		t.Errorf("spell stats = %d/%d, want 0/0", spell.Attack, spell.Health)
	}

	grouped := mustSynth(t, s, []Item{T("hp"), Group("decree", "dmg")}, KindCreature)
	if grouped.Attack != 1 || grouped.Health != 3 {
		t.Errorf("grouped stats = %d/%d, want 1/3", grouped.Attack, grouped.Health)
	}
}

func TestSynthesizeErrors(t *testing.T) {
	s := testSynth(t)
	tests := []struct {
		name  string
		items []Item
		want  error
	}{
		{"unique twice", items("bolt", "bolt"), ErrDuplicateUniqueTerm},
		{"unique twice apart", items("ward", "dmg", "ward"), ErrDuplicateUniqueTerm},
		{"two groups", []Item{Group("decree", "dmg"), Group("echo", "dmg")}, ErrMultipleLimiters},
		{"bare and group", []Item{T("decree"), Group("echo", "dmg")}, ErrMultipleLimiters},
		{"same limiter twice", items("decree", "decree"), ErrMultipleLimiters},
		{"nested", []Item{Group("decree", "dmg", "echo")}, ErrNestedLimiter},
		{"unknown term", items("dmg", "nope"), ErrUnknownTerm},
		{"unknown child", []Item{Group("decree", "nope")}, ErrUnknownTerm},
		{"not a limiter", []Item{Group("dmg", "bolt")}, ErrNotALimiter},
	}
	for _, tt := range tests {
		c, err := s.Synthesize(tt.items, "x", KindSpell)
		if c != nil {
			t.Errorf("%s: got card %v, want nil", tt.name, c)
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}

	_, err := s.Synthesize(items("bolt", "bolt"), "x", KindSpell)
	var se *SynthesisError
	if !errors.As(err, &se) || se.TermID != "bolt" {
		t.Errorf("expected SynthesisError naming bolt, got %v", err)
	}
}

func TestSynthesizeSaturatesHugeCost(t *testing.T) {
	cat, err := term.NewCatalog(
		newTerm("vast", "Vast", term.CategoryBase, term.Fixed(1e300), "Deal 1 damage.", "Gains 1 attack."),
		newTerm("tax", "Tax", term.CategorySpecial, term.Multiply(1e10), "Costs more.", "Costs more."),
	)
	if err != nil {
		t.Fatal(err)
	}
	c := mustSynth(t, NewSynthesizer(cat), items("vast", "tax"), KindSpell)
	if c.Cost != math.MaxInt {
		t.Errorf("cost = %d, want %d", c.Cost, math.MaxInt)
	}
	for _, total := range []float64{math.Inf(1), 1e19, float64(math.MaxInt)} {
		if got := finalCost(total); got != math.MaxInt {
			t.Errorf("finalCost(%g) = %d, want MaxInt", total, got)
		}
	}
	if got := finalCost(-1e300); got != 1 {
		t.Errorf("finalCost(-1e300) = %d, want 1", got)
	}
}

func TestUniquenessFollowsKindTemplate(t *testing.T) {
	s := testSynth(t)
	// bolt's spell text is fixed but its creature text scales.
	if c, err := s.Synthesize(items("bolt", "bolt"), "x", KindSpell); c != nil || !errors.Is(err, ErrDuplicateUniqueTerm) {
		t.Errorf("spell: card = %v, err = %v, want ErrDuplicateUniqueTerm", c, err)
	}
	c := mustSynth(t, s, items("bolt", "bolt"), KindCreature)
	if c.Attack != 8 {
		t.Errorf("creature attack = %d, want 8", c.Attack)
	}
}

func TestSynthesizeAllowsRepeatsInsideLimiter(t *testing.T) {
	s := testSynth(t)
	c := mustSynth(t, s, []Item{Group("decree", "bolt", "bolt")}, KindSpell)
	e, ok := c.Effect("bolt")
	if !ok || e.Count != 2 {
		t.Errorf("bolt effect = %+v, %v", e, ok)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	s := testSynth(t)
	its := []Item{T("dmg"), T("hp"), Group("decree", "blast", "dmg"), T("dmg")}
	a := mustSynth(t, s, its, KindCreature)
	b := mustSynth(t, s, a.Provenance, KindCreature)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("re-synthesis differs:\n%+v\n%+v", a, b)
	}
	if a.ID == "" {
		t.Error("card has no id")
	}

	other, err := s.Synthesize(its, "Other", KindCreature)
	if err != nil {
		t.Fatal(err)
	}
	if other.ID == a.ID {
		t.Error("cards with different names share an id")
	}
}

func TestSynthesizeDoesNotAliasInput(t *testing.T) {
	s := testSynth(t)
	its := []Item{Group("decree", "dmg")}
	c := mustSynth(t, s, its, KindSpell)
	its[0].Children[0] = "hp"
	if c.Provenance[0].Children[0] != "dmg" {
		t.Error("provenance shares memory with the caller's items")
	}
}

func TestSynthesizeConcurrent(t *testing.T) {
	s := testSynth(t)
	want := mustSynth(t, s, items("dmg", "hp", "dmg"), KindCreature)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := s.Synthesize(items("dmg", "hp", "dmg"), "Test", KindCreature)
			if err != nil || c.ID != want.ID || c.Cost != want.Cost {
				t.Errorf("concurrent synthesis = %v, %v", c, err)
			}
		}()
	}
	wg.Wait()
}

type failingNamer struct{}

func (failingNamer) NameCard(context.Context, []Item) (string, error) {
	return "", errors.New("naming service unavailable")
}

func TestResolveName(t *testing.T) {
	cat := testCatalog(t)
	ctx := context.Background()
	its := []Item{T("dmg"), T("hp"), T("ward")}

	if got := ResolveName(ctx, TermNamer{Catalog: cat}, its, "Mine"); got != "Damage Heal" {
		t.Errorf("TermNamer name = %q, want %q", got, "Damage Heal")
	}
	if got := ResolveName(ctx, failingNamer{}, its, "Mine"); got != "Mine" {
		t.Errorf("failing namer = %q, want fallback", got)
	}
	if got := ResolveName(ctx, nil, its, "Mine"); got != "Mine" {
		t.Errorf("nil namer = %q, want fallback", got)
	}
}
