package card

import (
	"errors"
	"fmt"

	"github.com/peterkuimelis/lexicarcana/internal/term"
)

// DefaultCostCap is the total cost budget of a deck.
const DefaultCostCap = 500

var ErrDeckCostCap = errors.New("deck cost cap exceeded")

// Deck is an ordered card collection whose total cost never exceeds its cap.
type Deck struct {
	Name  string
	cards []*Card
	total int
	cap   int
}

// NewDeck returns an empty deck. A non-positive cap selects DefaultCostCap.
func NewDeck(name string, costCap int) *Deck {
	if costCap <= 0 {
		costCap = DefaultCostCap
	}
	return &Deck{Name: name, cap: costCap}
}

// Add appends c, rejecting it if the cap would be exceeded.
func (d *Deck) Add(c *Card) error {
	if c == nil {
		return fmt.Errorf("add nil card to deck %q", d.Name)
	}
	if d.total+c.Cost > d.cap {
		return fmt.Errorf("add %s to deck %q (%d/%d): %w", c.Name, d.Name, d.total+c.Cost, d.cap, ErrDeckCostCap)
	}
	d.cards = append(d.cards, c)
	d.total += c.Cost
	return nil
}

// Remove deletes and returns the card at index i.
func (d *Deck) Remove(i int) (*Card, error) {
	if i < 0 || i >= len(d.cards) {
		return nil, fmt.Errorf("deck %q has no card at index %d", d.Name, i)
	}
	c := d.cards[i]
	d.cards = append(d.cards[:i], d.cards[i+1:]...)
	d.total -= c.Cost
	return c, nil
}

// Cards returns a copy of the deck's cards in order.
func (d *Deck) Cards() []*Card {
	return append([]*Card(nil), d.cards...)
}

func (d *Deck) Len() int { return len(d.cards) }
func (d *Deck) TotalCost() int { return d.total }
func (d *Deck) Cap() int { return d.cap }

// TermIDs lists every term id the deck's cards were crafted from, once each.
func (d *Deck) TermIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, c := range d.cards {
		for _, id := range FlattenIDs(c.Provenance) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// ResolveDecks checks that cat can resolve every term the decks use.
func ResolveDecks(cat *term.Catalog, decks ...*Deck) error {
	for _, d := range decks {
		if err := cat.Resolve(d.TermIDs()...); err != nil {
			return fmt.Errorf("deck %q: %w", d.Name, err)
		}
	}
	return nil
}
