package card

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Item is one entry of a crafting list: either a single term or a limiter
// group wrapping child terms. Groups are one level deep.
type Item struct {
	TermID   string
	Limiter  string
	Children []string
}

// T returns a single-term item.
func T(id string) Item {
	return Item{TermID: id}
}

// Group returns a limiter group item.
func Group(limiter string, children ...string) Item {
	return Item{Limiter: limiter, Children: children}
}

// IsGroup reports whether the item is a limiter group.
func (it Item) IsGroup() bool {
	return it.Limiter != ""
}

// IDs returns every term id referenced by the item, limiter first.
func (it Item) IDs() []string {
	if !it.IsGroup() {
		return []string{it.TermID}
	}
	return append([]string{it.Limiter}, it.Children...)
}

func (it Item) String() string {
	if !it.IsGroup() {
		return it.TermID
	}
	return fmt.Sprintf("%s(%s)", it.Limiter, strings.Join(it.Children, ", "))
}

type groupYAML struct {
	Limiter  string   `yaml:"limiter"`
	Children []string `yaml:"children,flow"`
}

// UnmarshalYAML accepts a bare term id or a {limiter, children} mapping.
func (it *Item) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*it = Item{TermID: strings.TrimSpace(node.Value)}
		return nil
	case yaml.MappingNode:
		var g groupYAML
		if err := node.Decode(&g); err != nil {
			return err
		}
		if g.Limiter == "" {
			return fmt.Errorf("line %d: limiter group needs a limiter", node.Line)
		}
		*it = Item{Limiter: g.Limiter, Children: g.Children}
		return nil
	default:
		return fmt.Errorf("line %d: term item must be an id or a limiter group", node.Line)
	}
}

func (it Item) MarshalYAML() (any, error) {
	if !it.IsGroup() {
		return it.TermID, nil
	}
	return groupYAML{Limiter: it.Limiter, Children: it.Children}, nil
}

// FlattenIDs returns all term ids of items in order.
func FlattenIDs(items []Item) []string {
	var ids []string
	for _, it := range items {
		ids = append(ids, it.IDs()...)
	}
	return ids
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		out[i] = it
		if it.Children != nil {
			out[i].Children = append([]string(nil), it.Children...)
		}
	}
	return out
}

// ParseItems parses the compact list form used by the tool and web surfaces:
// term ids separated by spaces or commas, with a limiter group written as
// "limiter(child, child)". ParseItems(FormatItems(items)) round-trips.
func ParseItems(s string) ([]Item, error) {
	var (
		items []Item
		tok   strings.Builder
		group *Item
	)
	flush := func() {
		if tok.Len() == 0 {
			return
		}
		id := tok.String()
		tok.Reset()
		if group != nil {
			group.Children = append(group.Children, id)
			return
		}
		items = append(items, T(id))
	}

	for i, r := range s {
		switch {
		case r == '(':
			if group != nil {
				return nil, fmt.Errorf("offset %d: limiter groups cannot be nested", i)
			}
			if tok.Len() == 0 {
				return nil, fmt.Errorf("offset %d: group without a limiter", i)
			}
			group = &Item{Limiter: tok.String()}
			tok.Reset()
		case r == ')':
			if group == nil {
				return nil, fmt.Errorf("offset %d: unmatched ')'", i)
			}
			flush()
			items = append(items, *group)
			group = nil
		case r == ',' || r == ' ' || r == '\t' || r == '\n':
			flush()
		default:
			tok.WriteRune(r)
		}
	}
	if group != nil {
		return nil, fmt.Errorf("group %q is not closed", group.Limiter)
	}
	flush()
	return items, nil
}

// FormatItems renders items in the form ParseItems accepts.
func FormatItems(items []Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, " ")
}
