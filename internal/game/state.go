package game

import (
	"github.com/peterkuimelis/lexicarcana/internal/card"
)

// Creature is a card in play. It is owned by exactly one board slot.
type Creature struct {
	ID        int
	CardID    string
	Card      *card.Card
	Name      string
	Attack    int
	Health    int
	MaxHealth int
	CanAttack bool
}

func (c *Creature) clone() *Creature {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Player represents one player's entire state.
type Player struct {
	ID        int
	Name      string
	Health    int
	MaxHealth int
	Deck      []*card.Card
	Hand      []*card.Card
	Graveyard []*card.Card
	Board     [BoardSize]*Creature

	PlayedCardThisTurn bool
	TurnHasSwappedCard bool

	// LastPlayed is the most recent card this player put into the settlement zone.
	LastPlayed *card.Card
}

// FreeSlot returns the index of the first empty board slot, or -1.
func (p *Player) FreeSlot() int {
	for i, c := range p.Board {
		if c == nil {
			return i
		}
	}
	return -1
}

// FreeSlots returns all empty board slot indices.
func (p *Player) FreeSlots() []int {
	var slots []int
	for i, c := range p.Board {
		if c == nil {
			slots = append(slots, i)
		}
	}
	return slots
}

// Creatures returns all creatures on the board in slot order.
func (p *Player) Creatures() []*Creature {
	var result []*Creature
	for _, c := range p.Board {
		if c != nil {
			result = append(result, c)
		}
	}
	return result
}

// CreatureCount returns the number of occupied board slots.
func (p *Player) CreatureCount() int {
	return len(p.Creatures())
}

func (p *Player) removeFromHand(i int) *card.Card {
	c := p.Hand[i]
	p.Hand = append(p.Hand[:i:i], p.Hand[i+1:]...)
	return c
}

func (p *Player) clone() *Player {
	cp := *p
	cp.Deck = append([]*card.Card(nil), p.Deck...)
	cp.Hand = append([]*card.Card(nil), p.Hand...)
	cp.Graveyard = append([]*card.Card(nil), p.Graveyard...)
	for i, c := range p.Board {
		cp.Board[i] = c.clone()
	}
	return &cp
}

// SettlementEntry is a played card awaiting end-of-turn resolution.
type SettlementEntry struct {
	Card   *card.Card
	Player int
	Target Target
	// CreatureID is set for creature plays.
	CreatureID int
}

// MatchState is the single source of truth for a match. It is mutated only
// through Match; callers receive clones.
type MatchState struct {
	Players    [2]*Player
	TurnCount  int
	Active     int
	Settlement []SettlementEntry
	Phase      Phase

	// SelectedHand and SelectedDeck are -1 when nothing is selected.
	SelectedHand int
	SelectedDeck int

	// Winner is set exactly when Phase is End.
	Winner *Player

	nextID int
}

// NewMatchState returns a state with two empty players at full health.
func NewMatchState(health int) *MatchState {
	if health <= 0 {
		health = StartingHealth
	}
	s := &MatchState{SelectedHand: -1, SelectedDeck: -1}
	for i := range s.Players {
		s.Players[i] = &Player{ID: i, Name: playerLabel(i), Health: health, MaxHealth: health}
	}
	return s
}

func playerLabel(i int) string {
	if i == 0 {
		return "Player 1"
	}
	return "Player 2"
}

func (s *MatchState) NextID() int {
	s.nextID++
	return s.nextID
}

// Opponent returns the other player index.
func (s *MatchState) Opponent(player int) int {
	return 1 - player
}

// ActivePlayer returns the player whose turn it is.
func (s *MatchState) ActivePlayer() *Player {
	return s.Players[s.Active]
}

// Over reports whether the match has reached End.
func (s *MatchState) Over() bool {
	return s.Phase == PhaseEnd
}

// WinnerIndex returns the winner's index, or -1 for an unfinished match.
func (s *MatchState) WinnerIndex() int {
	if s.Winner == nil {
		return -1
	}
	return s.Winner.ID
}

// CreatureAt returns the creature referenced by t, if any.
func (s *MatchState) CreatureAt(t Target) *Creature {
	if t.Kind != TargetCreature || t.Player < 0 || t.Player > 1 || t.Slot < 0 || t.Slot >= BoardSize {
		return nil
	}
	return s.Players[t.Player].Board[t.Slot]
}

// FindCreature returns the creature with the given id and its location.
func (s *MatchState) FindCreature(id int) (*Creature, Target, bool) {
	for p, pl := range s.Players {
		for slot, c := range pl.Board {
			if c != nil && c.ID == id {
				return c, CreatureTarget(p, slot), true
			}
		}
	}
	return nil, Target{}, false
}

// Clone returns a deep copy. Cards are shared since they are immutable.
func (s *MatchState) Clone() *MatchState {
	cp := *s
	for i, p := range s.Players {
		cp.Players[i] = p.clone()
	}
	cp.Settlement = append([]SettlementEntry(nil), s.Settlement...)
	if s.Winner != nil {
		cp.Winner = cp.Players[s.Winner.ID]
	}
	return &cp
}
