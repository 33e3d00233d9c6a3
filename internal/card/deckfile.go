package card

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DeckFile represents the top-level YAML structure.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry represents a single deck in the YAML file.
type DeckEntry struct {
	Name  string      `yaml:"name"`
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry describes a card by its crafting list and how many copies to add.
type CardEntry struct {
	Name  string `yaml:"name"`
	Kind  Kind   `yaml:"kind"`
	Terms []Item `yaml:"terms"`
	Count int    `yaml:"count,omitempty"`
}

// ParseDeckFile parses deck YAML.
func ParseDeckFile(data []byte) (*DeckFile, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	return &df, nil
}

// LoadDeckFile reads and parses a deck file.
func LoadDeckFile(path string) (*DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDeckFile(data)
}

// Build synthesizes every card of the entry into a deck under costCap.
func (e DeckEntry) Build(s *Synthesizer, costCap int) (*Deck, error) {
	d := NewDeck(e.Name, costCap)
	for _, ce := range e.Cards {
		c, err := s.Synthesize(ce.Terms, ce.Name, ce.Kind)
		if err != nil {
			return nil, fmt.Errorf("deck %q card %q: %w", e.Name, ce.Name, err)
		}
		n := ce.Count
		if n <= 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			if err := d.Add(c); err != nil {
				return nil, err
			}
		}
	}
	return d, nil
}

// Names lists deck names in file order.
func (df *DeckFile) Names() []string {
	names := make([]string, len(df.Decks))
	for i, d := range df.Decks {
		names[i] = d.Name
	}
	return names
}

// DeckByNumber returns the Nth deck (1-indexed) from the deck file.
func DeckByNumber(path string, n int, s *Synthesizer, costCap int) (*Deck, error) {
	df, err := LoadDeckFile(path)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > len(df.Decks) {
		return nil, fmt.Errorf("deck %d not found (have %d: %s)", n, len(df.Decks), strings.Join(df.Names(), ", "))
	}
	return df.Decks[n-1].Build(s, costCap)
}

// EntryOf converts a built deck back to its file form. Consecutive copies of
// the same card collapse into one entry with a count.
func EntryOf(d *Deck) DeckEntry {
	e := DeckEntry{Name: d.Name}
	var lastID string
	for _, c := range d.Cards() {
		if n := len(e.Cards); n > 0 && c.ID == lastID {
			e.Cards[n-1].Count++
			continue
		}
		e.Cards = append(e.Cards, CardEntry{
			Name:  c.Name,
			Kind:  c.Kind,
			Terms: cloneItems(c.Provenance),
			Count: 1,
		})
		lastID = c.ID
	}
	return e
}
