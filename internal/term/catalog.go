package term

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// CatalogFile represents the top-level YAML structure of a term catalog.
type CatalogFile struct {
	Terms []*Term `yaml:"terms"`
}

// Catalog is a registry of term definitions keyed by id. A Catalog is
// read-only once built and safe for concurrent use.
type Catalog struct {
	terms map[string]*Term
	order []string
}

// NewCatalog builds a catalog, rejecting blank or duplicate ids, limiters
// with a repeat cost and multiply or divide factors that are not positive.
func NewCatalog(terms ...*Term) (*Catalog, error) {
	c := &Catalog{terms: make(map[string]*Term, len(terms))}
	for _, t := range terms {
		if t == nil {
			continue
		}
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return nil, fmt.Errorf("term %q has no id", t.Name)
		}
		if _, dup := c.terms[id]; dup {
			return nil, fmt.Errorf("duplicate term id %q", id)
		}
		if t.IsLimiter() && t.Cost.Op == CostRepeat {
			return nil, fmt.Errorf("limiter %q cannot use a repeat cost", id)
		}
		if (t.Cost.Op == CostMultiply || t.Cost.Op == CostDivide) && !(t.Cost.Value > 0) {
			return nil, fmt.Errorf("term %q has a %s factor of %g", id, t.Cost.Op, t.Cost.Value)
		}
		if t.Name == "" {
			t.Name = id
		}
		c.terms[id] = t
		c.order = append(c.order, id)
	}
	return c, nil
}

// ParseCatalog parses catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	return NewCatalog(cf.Terms...)
}

// LoadCatalog reads and parses a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCatalog(data)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = ParseCatalog(defaultCatalogYAML)
	})
	return defaultCatalog, defaultErr
}

// Lookup returns the term with the given id.
func (c *Catalog) Lookup(id string) (*Term, bool) {
	t, ok := c.terms[id]
	return t, ok
}

// Len returns the number of terms.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Terms returns all terms in catalog order.
func (c *Catalog) Terms() []*Term {
	result := make([]*Term, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.terms[id])
	}
	return result
}

// Resolve checks that every id is present in the catalog.
func (c *Catalog) Resolve(ids ...string) error {
	var missing []string
	for _, id := range ids {
		if _, ok := c.terms[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("unresolved term ids: %s", strings.Join(missing, ", "))
	}
	return nil
}

// TermInfo is the JSON view of a term.
type TermInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Cost     string `json:"cost"`
	Spell    string `json:"spell"`
	Creature string `json:"creature"`
}

// Infos lists terms in catalog order, keeping only the given category when
// category is non-empty (matched case-insensitively).
func (c *Catalog) Infos(category string) []TermInfo {
	out := []TermInfo{}
	for _, t := range c.Terms() {
		if category != "" && !strings.EqualFold(t.Category.String(), category) {
			continue
		}
		out = append(out, TermInfo{
			ID:       t.ID,
			Name:     t.Name,
			Category: t.Category.String(),
			Cost:     t.Cost.String(),
			Spell:    t.Spell.Raw,
			Creature: t.Creature.Raw,
		})
	}
	return out
}
