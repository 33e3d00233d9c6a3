package game

import (
	"context"
	"reflect"
	"testing"

	"github.com/peterkuimelis/lexicarcana/internal/card"
	"github.com/peterkuimelis/lexicarcana/internal/log"
)

// ScriptedController is a Controller that follows a predefined script of intents.
// Used in tests to deterministically drive the match.
type ScriptedController struct {
	t       *testing.T
	name    string
	actions []ScriptedAction
	pos     int
}

type ScriptedAction struct {
	// Match by IntentType: the first legal intent of this type
	Type IntentType
	// Optional: for PlayCard, the name of the hand card
	CardName string
	// Optional: for SelectSlot, the slot; for SelectTarget, the target
	Slot   int
	Target *Target
}

func NewScriptedController(t *testing.T, name string) *ScriptedController {
	return &ScriptedController{t: t, name: name}
}

func (sc *ScriptedController) AddPlay(cardName string) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: IntentPlayCard, CardName: cardName})
	return sc
}

func (sc *ScriptedController) AddSlot(slot int) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: IntentSelectSlot, Slot: slot})
	return sc
}

func (sc *ScriptedController) AddTarget(t Target) *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: IntentSelectTarget, Target: &t})
	return sc
}

func (sc *ScriptedController) AddEndTurn() *ScriptedController {
	sc.actions = append(sc.actions, ScriptedAction{Type: IntentEndTurn})
	return sc
}

func (sc *ScriptedController) ChooseIntent(ctx context.Context, state *MatchState, legal []Intent) (Intent, error) {
	if sc.pos < len(sc.actions) {
		// Consume the next scripted action only if it matches a legal intent.
		scripted := sc.actions[sc.pos]
		for _, in := range legal {
			if in.Type != scripted.Type || !sc.matches(state, scripted, in) {
				continue
			}
			sc.pos++
			return in, nil
		}
	}
	// Default: end the turn, or back out of a selection.
	for _, in := range legal {
		if in.Type == IntentEndTurn {
			return in, nil
		}
	}
	return legal[len(legal)-1], nil
}

func (sc *ScriptedController) matches(state *MatchState, a ScriptedAction, in Intent) bool {
	switch a.Type {
	case IntentPlayCard:
		if state.Phase != PhaseMain {
			return false
		}
		return a.CardName == "" || state.Players[in.Player].Hand[in.Index].Name == a.CardName
	case IntentSelectSlot:
		return in.Index == a.Slot
	case IntentSelectTarget:
		return a.Target == nil || in.Target == *a.Target
	}
	return true
}

func (sc *ScriptedController) Notify(ctx context.Context, event log.GameEvent) error {
	return nil
}

// --- Test card helpers ---

func creatureCard(name string, atk, hp int) *card.Card {
	return &card.Card{ID: name, Name: name, Kind: card.KindCreature, Cost: 1, Attack: atk, Health: hp}
}

func spellCard(name string, effects ...card.Effect) *card.Card {
	return &card.Card{ID: name, Name: name, Kind: card.KindSpell, Cost: 1, Effects: effects}
}

func damageSpell(name string, n int) *card.Card {
	return spellCard(name, card.Effect{TermID: "damage", Count: 1, Amount: n})
}

func healSpell(name string, n int) *card.Card {
	return spellCard(name, card.Effect{TermID: "heal", Count: 1, Amount: n})
}

func fillerCards(n int) []*card.Card {
	cards := make([]*card.Card, n)
	for i := range cards {
		cards[i] = creatureCard("Filler", 1, 1)
	}
	return cards
}

// newTestMatch returns a match at the start of P1's first turn with the given hands.
func newTestMatch(t *testing.T, hand0, hand1 []*card.Card) (*Match, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	s := NewMatchState(0)
	s.Players[0].Hand = hand0
	s.Players[1].Hand = hand1
	return NewMatchFromState(s, logger), logger
}

// place puts a creature straight onto the board, bypassing the settlement zone.
func place(m *Match, player, slot int, c *card.Card, canAttack bool) *Creature {
	cr := newCreature(m.state, c)
	cr.CanAttack = canAttack
	m.state.Players[player].Board[slot] = cr
	return cr
}

func mustSubmit(t *testing.T, m *Match, in Intent) {
	t.Helper()
	if err := m.Submit(in); err != nil {
		t.Fatalf("Submit(%s): %v", in, err)
	}
}

// mustReject submits in, expects the given reason and checks the state did not change.
func mustReject(t *testing.T, m *Match, in Intent, want Reason) {
	t.Helper()
	before := m.Snapshot()
	err := m.Submit(in)
	got, ok := ReasonOf(err)
	if !ok {
		t.Fatalf("Submit(%s) = %v, want rejection %s", in, err, want)
	}
	if got != want {
		t.Fatalf("Submit(%s) rejected with %s, want %s", in, got, want)
	}
	if after := m.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("Submit(%s) was rejected but changed the state", in)
	}
}

// runMatchToCompletion runs a match and returns the winner for inspection.
func runMatchToCompletion(t *testing.T, m *Match, p0, p1 Controller, maxRounds int) int {
	t.Helper()
	winner, err := m.Run(context.Background(), [2]Controller{p0, p1}, maxRounds)
	if err != nil {
		t.Logf("Event log:\n%s", log.FormatAll(m.Logger().Events()))
		t.Fatalf("Match error: %v", err)
	}
	t.Logf("Match result: winner=%d", winner)
	t.Logf("Event log:\n%s", log.FormatAll(m.Logger().Events()))
	return winner
}
