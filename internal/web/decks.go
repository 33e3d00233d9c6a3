package web

import (
	"github.com/peterkuimelis/lexicarcana/internal/card"
)

// DeckInfo is the JSON representation of a numbered deck for /api/decks.
type DeckInfo struct {
	Number    int         `json:"number"`
	Name      string      `json:"name"`
	Cards     []card.Info `json:"cards"`
	TotalCost int         `json:"totalCost"`
	Error     string      `json:"error,omitempty"`
}

// StoredDeckInfo describes a deck crafted in the browser and kept in the store.
type StoredDeckInfo struct {
	Name      string      `json:"name"`
	Cards     []card.Info `json:"cards"`
	TotalCost int         `json:"totalCost"`
}

// fileDecks builds every deck in the deck file. A deck that fails to
// synthesize is still listed, with its error.
func fileDecks(path string, synth *card.Synthesizer, costCap int) ([]DeckInfo, error) {
	df, err := card.LoadDeckFile(path)
	if err != nil {
		return nil, err
	}
	decks := make([]DeckInfo, 0, len(df.Decks))
	for i, e := range df.Decks {
		di := DeckInfo{Number: i + 1, Name: e.Name, Cards: []card.Info{}}
		d, err := e.Build(synth, costCap)
		if err != nil {
			di.Error = err.Error()
		} else {
			di.Cards, di.TotalCost = uniqueInfos(d), d.TotalCost()
		}
		decks = append(decks, di)
	}
	return decks, nil
}

// uniqueInfos lists each distinct card once, in deck order.
func uniqueInfos(d *card.Deck) []card.Info {
	infos := []card.Info{}
	seen := make(map[string]bool)
	for _, c := range d.Cards() {
		if !seen[c.ID] {
			infos = append(infos, c.Info())
			seen[c.ID] = true
		}
	}
	return infos
}
