package card

import (
	"context"
	"strings"

	"github.com/peterkuimelis/lexicarcana/internal/term"
)

// Namer proposes a cosmetic display name for a crafting list.
type Namer interface {
	NameCard(ctx context.Context, items []Item) (string, error)
}

// TermNamer derives a name from the leading terms of a crafting list.
type TermNamer struct {
	Catalog *term.Catalog
}

func (n TermNamer) NameCard(_ context.Context, items []Item) (string, error) {
	var words []string
	seen := make(map[string]bool)
	for _, id := range FlattenIDs(items) {
		if seen[id] {
			continue
		}
		seen[id] = true
		t, ok := n.Catalog.Lookup(id)
		if !ok {
			return "", synthErr(UnknownTerm, id, "term not in catalog")
		}
		if w := baseName(t.Name); w != "" {
			words = append(words, w)
		}
		if len(words) == 2 {
			break
		}
	}
	return strings.Join(words, " "), nil
}

// baseName drops scaling tokens such as "X" or "3X" from a term name.
func baseName(name string) string {
	var kept []string
	for _, f := range strings.Fields(name) {
		if strings.HasSuffix(f, "X") && strings.TrimLeft(strings.TrimSuffix(f, "X"), "0123456789") == "" {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

// ResolveName asks namer for a name and falls back to the user's name when
// the namer is nil, fails or returns nothing.
func ResolveName(ctx context.Context, namer Namer, items []Item, fallback string) string {
	if namer == nil {
		return fallback
	}
	name, err := namer.NameCard(ctx, items)
	if err != nil || strings.TrimSpace(name) == "" {
		return fallback
	}
	return strings.TrimSpace(name)
}
