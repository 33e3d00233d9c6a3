package card

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/peterkuimelis/lexicarcana/internal/term"
)

// Separator joins description segments.
const Separator = " "

var cardNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://lexicarcana.dev/cards"))

// Synthesizer compiles crafting lists into cards against a catalog.
// It holds no mutable state and may be shared across goroutines.
type Synthesizer struct {
	Catalog *term.Catalog
}

func NewSynthesizer(c *term.Catalog) *Synthesizer {
	return &Synthesizer{Catalog: c}
}

// Preview is Synthesize for live crafting views: an empty list yields
// (nil, nil) rather than an error.
func (s *Synthesizer) Preview(items []Item, name string, kind Kind) (*Card, error) {
	if len(items) == 0 {
		return nil, nil
	}
	return s.Synthesize(items, name, kind)
}

// Synthesize compiles items into a card.
//
// Main terms are grouped by id in first-appearance order; each group fills its
// kind template with its count and adds its additive cost. A limiter group runs
// the same pass over its children, splices their text into the limiter template
// at {effect} and folds the child subtotal through the limiter's cost operator.
// Cost modifiers carried by ordinary terms (×k, ÷k, ×(X+1)) apply to the
// aggregated total last, in insertion order.
//
// The final cost is max(1, ceil(total)).
func (s *Synthesizer) Synthesize(items []Item, name string, kind Kind) (*Card, error) {
	if len(items) == 0 {
		return nil, ErrEmptyTermSet
	}
	if err := s.validate(items, kind); err != nil {
		return nil, err
	}

	c := &Card{
		Name:       name,
		Kind:       kind,
		Provenance: cloneItems(items),
	}

	var (
		parts []string
		total float64
		mods  []pendingMod
	)

	main := newPass(kind)
	for _, it := range items {
		if it.IsGroup() || s.isLimiter(it.TermID) {
			head := it.Limiter
			if head == "" {
				head = it.TermID
			}
			seg, cost, groupMods := s.limiterSegment(head, it.Children, kind, c)
			if seg != "" {
				parts = append(parts, seg)
			}
			total += cost
			mods = append(mods, groupMods...)
			c.Limiter = head
			continue
		}
		if seg, ok := main.add(s.mustLookup(it.TermID), items); ok && seg != "" {
			parts = append(parts, seg)
		}
	}
	total += main.cost
	mods = append(mods, main.mods...)
	c.Attack += main.attack
	c.Health += main.health
	c.Effects = append(c.Effects, main.effects...)

	for _, m := range mods {
		total = m.expr.Scale(total, m.count)
	}

	c.Cost = finalCost(total)
	c.Description = strings.Join(parts, Separator)
	c.ID = cardID(c)
	return c, nil
}

func (s *Synthesizer) validate(items []Item, kind Kind) error {
	limiters := 0
	seen := make(map[string]int)
	for _, it := range items {
		if it.IsGroup() {
			head, ok := s.Catalog.Lookup(it.Limiter)
			if !ok {
				return synthErr(UnknownTerm, it.Limiter, "term not in catalog")
			}
			if !head.IsLimiter() {
				return synthErr(NotALimiter, it.Limiter, "group head is not a conditional term")
			}
			limiters++
			if limiters > 1 {
				return synthErr(MultipleLimiters, it.Limiter, "a card may carry only one limiter")
			}
			for _, id := range it.Children {
				child, ok := s.Catalog.Lookup(id)
				if !ok {
					return synthErr(UnknownTerm, id, "term not in catalog")
				}
				if child.IsLimiter() {
					return synthErr(NestedLimiter, id, "limiters cannot be nested")
				}
			}
			continue
		}

		t, ok := s.Catalog.Lookup(it.TermID)
		if !ok {
			return synthErr(UnknownTerm, it.TermID, "term not in catalog")
		}
		if t.IsLimiter() {
			limiters++
			if limiters > 1 {
				return synthErr(MultipleLimiters, it.TermID, "a card may carry only one limiter")
			}
			continue
		}
		seen[t.ID]++
		if seen[t.ID] > 1 && !t.ScalesWith(templateFor(t, kind)) {
			return synthErr(DuplicateUniqueTerm, t.ID, "unique term used more than once")
		}
	}
	return nil
}

func (s *Synthesizer) isLimiter(id string) bool {
	t, ok := s.Catalog.Lookup(id)
	return ok && t.IsLimiter()
}

// mustLookup is only called after validate has resolved every id.
func (s *Synthesizer) mustLookup(id string) *term.Term {
	t, _ := s.Catalog.Lookup(id)
	return t
}

// limiterSegment renders a limiter group and returns its description segment,
// its additive cost contribution and any global modifiers its children carry.
func (s *Synthesizer) limiterSegment(head string, children []string, kind Kind, c *Card) (string, float64, []pendingMod) {
	lim := s.mustLookup(head)

	childItems := make([]Item, len(children))
	for i, id := range children {
		childItems[i] = T(id)
	}
	sub := newPass(kind)
	var childParts []string
	for _, id := range children {
		if seg, ok := sub.add(s.mustLookup(id), childItems); ok && seg != "" {
			childParts = append(childParts, seg)
		}
	}
	childText := strings.Join(childParts, Separator)

	r := templateFor(lim, kind).Fill(1, childText)
	text := stripName(r.Text, lim.Name)

	var cost float64
	switch lim.Cost.Op {
	case term.CostMultiply, term.CostDivide:
		cost = lim.Cost.Scale(sub.cost, 1)
	default:
		cost = lim.Cost.Additive(1) + sub.cost
	}

	c.Attack += sub.attack
	c.Health += sub.health
	if kind == KindCreature {
		c.Attack += r.Attack
		c.Health += r.Health
	}
	for _, e := range sub.effects {
		e.Limiter = head
		c.Effects = append(c.Effects, e)
	}
	return text, cost, sub.mods
}

// stripName removes a leading "Name:" label from a limiter's rendered text.
func stripName(text, name string) string {
	if name == "" {
		return text
	}
	rest, ok := strings.CutPrefix(text, name)
	if !ok {
		return text
	}
	rest = strings.TrimPrefix(rest, ":")
	return strings.TrimSpace(rest)
}

type pendingMod struct {
	expr  term.CostExpr
	count int
}

// pass accumulates the grouped contribution of a run of plain terms.
type pass struct {
	kind    Kind
	done    map[string]bool
	cost    float64
	attack  int
	health  int
	mods    []pendingMod
	effects []Effect
}

func newPass(kind Kind) *pass {
	return &pass{kind: kind, done: make(map[string]bool)}
}

// add folds every copy of t found in items the first time t is seen and
// returns its rendered text. Later copies report ok=false.
func (p *pass) add(t *term.Term, items []Item) (string, bool) {
	if p.done[t.ID] {
		return "", false
	}
	p.done[t.ID] = true

	count := 0
	for _, it := range items {
		if !it.IsGroup() && it.TermID == t.ID {
			count++
		}
	}

	tpl := templateFor(t, p.kind)
	r := tpl.Fill(count, "")

	if t.Cost.IsModifier() {
		p.mods = append(p.mods, pendingMod{expr: t.Cost, count: count})
	} else {
		p.cost += t.Cost.Additive(count)
	}
	if p.kind == KindCreature {
		p.attack += r.Attack
		p.health += r.Health
	}

	amount := tpl.Magnitude() * count
	if !tpl.HasPlaceholder() {
		amount = t.Power * count
	}
	p.effects = append(p.effects, Effect{TermID: t.ID, Count: count, Amount: amount})
	return r.Text, true
}

func templateFor(t *term.Term, kind Kind) term.Template {
	if kind == KindCreature {
		return t.Creature
	}
	return t.Spell
}

// finalCost rounds up, tolerating float noise from division.
func finalCost(total float64) int {
	total = math.Ceil(total - 1e-9)
	if total >= math.MaxInt || math.IsNaN(total) {
		return math.MaxInt
	}
	c := int(total)
	if c < 1 {
		return 1
	}
	return c
}

func cardID(c *Card) string {
	var sb strings.Builder
	sb.WriteString(c.Name)
	sb.WriteByte('|')
	sb.WriteString(c.Kind.String())
	for _, it := range c.Provenance {
		sb.WriteByte('|')
		sb.WriteString(it.String())
	}
	return uuid.NewSHA1(cardNamespace, []byte(sb.String())).String()
}
