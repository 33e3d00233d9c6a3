package card

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Kind int

const (
	KindSpell Kind = iota
	KindCreature
)

func (k Kind) String() string {
	switch k {
	case KindSpell:
		return "Spell"
	case KindCreature:
		return "Creature"
	default:
		return "Unknown"
	}
}

// ParseKind accepts "spell" or "creature" in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spell":
		return KindSpell, nil
	case "creature":
		return KindCreature, nil
	default:
		return 0, fmt.Errorf("unknown card kind %q", s)
	}
}

func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseKind(node.Value)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k Kind) MarshalYAML() (any, error) {
	return strings.ToLower(k.String()), nil
}

// Effect is the battle-time payload of one unique term on a card.
type Effect struct {
	TermID string
	Count  int
	// Amount is the rendered value of the term's first placeholder, or
	// Power × Count when the template does not scale.
	Amount int
	// Limiter is the id of the wrapping limiter; empty for main terms.
	Limiter string
}

// Card is the immutable output of synthesis.
type Card struct {
	ID          string
	Name        string
	Kind        Kind
	Cost        int
	Description string
	Attack      int
	Health      int
	Limiter     string
	Effects     []Effect
	Provenance  []Item
}

func (c *Card) String() string {
	if c.Kind == KindCreature {
		return fmt.Sprintf("%s [%d] %d/%d", c.Name, c.Cost, c.Attack, c.Health)
	}
	return fmt.Sprintf("%s [%d]", c.Name, c.Cost)
}

func (c *Card) IsCreature() bool {
	return c.Kind == KindCreature
}

// Effect returns the effect for a term id.
func (c *Card) Effect(termID string) (Effect, bool) {
	for _, e := range c.Effects {
		if e.TermID == termID {
			return e, true
		}
	}
	return Effect{}, false
}

// Info is the JSON view of a card served by the tool and web surfaces.
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Cost        int    `json:"cost"`
	Description string `json:"description"`
	Attack      int    `json:"attack,omitempty"`
	Health      int    `json:"health,omitempty"`
	Limiter     string `json:"limiter,omitempty"`
	Terms       string `json:"terms"`
}

func (c *Card) Info() Info {
	return Info{
		ID:          c.ID,
		Name:        c.Name,
		Kind:        c.Kind.String(),
		Cost:        c.Cost,
		Description: c.Description,
		Attack:      c.Attack,
		Health:      c.Health,
		Limiter:     c.Limiter,
		Terms:       FormatItems(c.Provenance),
	}
}
