package game

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/peterkuimelis/lexicarcana/internal/card"
	"github.com/peterkuimelis/lexicarcana/internal/log"
)

func TestNewMatchDealsOpeningHands(t *testing.T) {
	m := NewMatch(MatchConfig{
		Decks: [2][]*card.Card{fillerCards(8), fillerCards(3)},
		Names: [2]string{"Ada", ""},
	})
	s := m.Snapshot()
	if len(s.Players[0].Hand) != InitialHand || len(s.Players[0].Deck) != 3 {
		t.Errorf("P1 hand/deck = %d/%d, want %d/3", len(s.Players[0].Hand), len(s.Players[0].Deck), InitialHand)
	}
	if len(s.Players[1].Hand) != 3 || len(s.Players[1].Deck) != 0 {
		t.Errorf("P2 hand/deck = %d/%d, want 3/0", len(s.Players[1].Hand), len(s.Players[1].Deck))
	}
	for _, p := range s.Players {
		if p.Health != StartingHealth || p.MaxHealth != StartingHealth {
			t.Errorf("%s health = %d/%d", p.Name, p.Health, p.MaxHealth)
		}
	}
	if s.Players[0].Name != "Ada" || s.Players[1].Name != "Player 2" {
		t.Errorf("names = %q, %q", s.Players[0].Name, s.Players[1].Name)
	}
	if s.Phase != PhaseMain || s.Active != 0 || s.TurnCount != 0 {
		t.Errorf("initial state = phase %s, active %d, round %d", s.Phase, s.Active, s.TurnCount)
	}
	if s.SelectedHand != -1 || s.SelectedDeck != -1 {
		t.Errorf("selections = %d/%d, want -1/-1", s.SelectedHand, s.SelectedDeck)
	}
}

func TestPlayCreatureIntoSlot(t *testing.T) {
	golem := creatureCard("Golem", 3, 4)
	m, _ := newTestMatch(t, []*card.Card{golem}, nil)

	mustSubmit(t, m, PlayCard(0, 0))
	if s := m.Snapshot(); s.Phase != PhaseSelectingBoardSlot || s.SelectedHand != 0 {
		t.Fatalf("after PlayCard: phase %s, selected %d", s.Phase, s.SelectedHand)
	}

	mustSubmit(t, m, SelectSlot(0, 2))
	s := m.Snapshot()
	if s.Phase != PhaseMain {
		t.Errorf("phase = %s, want Main", s.Phase)
	}
	cr := s.Players[0].Board[2]
	if cr == nil || cr.Name != "Golem" || cr.Attack != 3 || cr.Health != 4 || cr.MaxHealth != 4 {
		t.Fatalf("slot 2 = %+v", cr)
	}
	if cr.CanAttack {
		t.Error("a creature entering play must not be able to attack")
	}
	if cr.CardID != golem.ID {
		t.Errorf("CardID = %q, want %q", cr.CardID, golem.ID)
	}
	if len(s.Players[0].Hand) != 0 {
		t.Errorf("hand = %d cards, want 0", len(s.Players[0].Hand))
	}
	if len(s.Settlement) != 1 || s.Settlement[0].Card != golem || s.Settlement[0].CreatureID != cr.ID {
		t.Errorf("settlement = %+v", s.Settlement)
	}
	if !s.Players[0].PlayedCardThisTurn {
		t.Error("PlayedCardThisTurn not set")
	}
}

func TestCreatureHealthFlooredAtOne(t *testing.T) {
	m, _ := newTestMatch(t, []*card.Card{creatureCard("Wisp", 2, 0)}, nil)
	mustSubmit(t, m, PlayCard(0, 0))
	mustSubmit(t, m, SelectSlot(0, 0))
	if cr := m.Snapshot().Players[0].Board[0]; cr.Health != 1 || cr.MaxHealth != 1 {
		t.Errorf("Wisp = %d/%d, want health 1", cr.Attack, cr.Health)
	}
}

func TestOnlyOneCardPerTurn(t *testing.T) {
	m, _ := newTestMatch(t, []*card.Card{creatureCard("A", 1, 1), creatureCard("B", 1, 1)}, nil)
	mustSubmit(t, m, PlayCard(0, 0))
	mustSubmit(t, m, SelectSlot(0, 0))
	mustReject(t, m, PlayCard(0, 0), ReasonCardAlreadyPlayedThisTurn)
}

func TestSelectOccupiedSlot(t *testing.T) {
	m, _ := newTestMatch(t, []*card.Card{creatureCard("New", 1, 1)}, nil)
	place(m, 0, 3, creatureCard("Old", 1, 1), true)

	mustSubmit(t, m, PlayCard(0, 0))
	mustReject(t, m, SelectSlot(0, 3), ReasonSlotOccupied)
	if s := m.Snapshot(); s.Phase != PhaseSelectingBoardSlot {
		t.Errorf("phase = %s, want SelectingBoardSlot", s.Phase)
	}
	mustReject(t, m, SelectSlot(0, BoardSize), ReasonInvalidIndex)
	mustSubmit(t, m, SelectSlot(0, 4))
}

func TestPlayCardCancelsSelection(t *testing.T) {
	m, logger := newTestMatch(t, []*card.Card{creatureCard("A", 1, 1), damageSpell("Zap", 2)}, nil)

	mustSubmit(t, m, PlayCard(0, 1))
	if s := m.Snapshot(); s.Phase != PhaseSelectingTarget {
		t.Fatalf("phase = %s, want SelectingTarget", s.Phase)
	}
	mustReject(t, m, PlayCard(0, 0), ReasonWrongPhase)

	mustSubmit(t, m, PlayCard(0, 1))
	s := m.Snapshot()
	if s.Phase != PhaseMain || s.SelectedHand != -1 || s.Players[0].PlayedCardThisTurn {
		t.Errorf("after cancel: phase %s, selected %d, played %v", s.Phase, s.SelectedHand, s.Players[0].PlayedCardThisTurn)
	}
	if len(logger.EventsOfType(log.EventCancelSelection)) != 1 {
		t.Error("expected a CancelSelection event")
	}

	mustSubmit(t, m, PlayCard(0, 0))
	mustSubmit(t, m, PlayCard(0, 0))
	if s := m.Snapshot(); s.Phase != PhaseMain {
		t.Errorf("creature cancel: phase %s", s.Phase)
	}
}

func TestSpellTargeting(t *testing.T) {
	zap := damageSpell("Zap", 2)
	m, _ := newTestMatch(t, []*card.Card{zap}, nil)
	place(m, 1, 0, creatureCard("Target", 1, 5), false)

	mustReject(t, m, SelectTarget(0, PlayerTarget(1)), ReasonWrongPhase)
	mustSubmit(t, m, PlayCard(0, 0))
	mustReject(t, m, SelectTarget(0, CreatureTarget(1, 1)), ReasonInvalidTarget)
	mustReject(t, m, SelectTarget(0, Target{}), ReasonInvalidTarget)
	mustReject(t, m, SelectTarget(0, PlayerTarget(2)), ReasonInvalidTarget)

	mustSubmit(t, m, SelectTarget(0, CreatureTarget(1, 0)))
	s := m.Snapshot()
	if len(s.Settlement) != 1 || s.Settlement[0].Target != CreatureTarget(1, 0) || s.Settlement[0].Card != zap {
		t.Fatalf("settlement = %+v", s.Settlement)
	}
	if s.Phase != PhaseMain || len(s.Players[0].Hand) != 0 || !s.Players[0].PlayedCardThisTurn {
		t.Errorf("after cast: phase %s, hand %d", s.Phase, len(s.Players[0].Hand))
	}
}

func TestNotActivePlayer(t *testing.T) {
	m, _ := newTestMatch(t, nil, []*card.Card{creatureCard("A", 1, 1)})
	mustReject(t, m, PlayCard(1, 0), ReasonNotActivePlayer)
	mustReject(t, m, EndTurn(1), ReasonNotActivePlayer)
	mustReject(t, m, PickDeckCard(1, 0), ReasonNotActivePlayer)
}

func TestPickDeckCardBelowHandCap(t *testing.T) {
	m, _ := newTestMatch(t, fillerCards(2), nil)
	deck := []*card.Card{creatureCard("D0", 1, 1), creatureCard("D1", 1, 1), creatureCard("D2", 1, 1)}
	m.state.Players[0].Deck = deck

	browsed, err := m.Browse(0)
	if err != nil || len(browsed) != 3 {
		t.Fatalf("Browse = %d cards, %v", len(browsed), err)
	}

	mustSubmit(t, m, PickDeckCard(0, 1))
	s := m.Snapshot()
	p := s.Players[0]
	if len(p.Hand) != 3 || p.Hand[2].Name != "D1" {
		t.Errorf("hand = %v", p.Hand)
	}
	if len(p.Deck) != 2 || p.Deck[0].Name != "D0" || p.Deck[1].Name != "D2" {
		t.Errorf("deck = %v", p.Deck)
	}
	if !p.TurnHasSwappedCard || s.Phase != PhaseMain {
		t.Errorf("flag %v, phase %s", p.TurnHasSwappedCard, s.Phase)
	}

	mustReject(t, m, PickDeckCard(0, 0), ReasonSwapAlreadyUsedThisTurn)
	mustReject(t, m, BrowseDeck(0), ReasonSwapAlreadyUsedThisTurn)
}

func TestPickDeckCardRejections(t *testing.T) {
	m, _ := newTestMatch(t, nil, nil)
	mustReject(t, m, PickDeckCard(0, 0), ReasonDeckEmpty)
	m.state.Players[0].Deck = fillerCards(2)
	mustReject(t, m, PickDeckCard(0, 2), ReasonInvalidIndex)
	mustReject(t, m, PickDeckCard(0, -1), ReasonInvalidIndex)
}

func TestSwapAtHandCap(t *testing.T) {
	hand := make([]*card.Card, HandCap)
	for i := range hand {
		hand[i] = creatureCard("H", 1, 1)
	}
	inHand := creatureCard("Kept", 1, 1)
	hand[4] = inHand
	m, _ := newTestMatch(t, hand, nil)
	fromDeck := creatureCard("Wanted", 2, 2)
	m.state.Players[0].Deck = []*card.Card{creatureCard("D0", 1, 1), creatureCard("D1", 1, 1), fromDeck}

	mustSubmit(t, m, PickDeckCard(0, 2))
	if s := m.Snapshot(); s.Phase != PhaseSelectingHandCard || s.SelectedDeck != 2 {
		t.Fatalf("phase %s, selected deck %d", s.Phase, s.SelectedDeck)
	}
	mustReject(t, m, EndTurn(0), ReasonWrongPhase)
	mustReject(t, m, SwapHandCard(0, HandCap), ReasonInvalidIndex)

	mustSubmit(t, m, SwapHandCard(0, 4))
	s := m.Snapshot()
	p := s.Players[0]
	if p.Hand[4] != fromDeck || p.Deck[2] != inHand {
		t.Errorf("swap did not keep slot identity: hand[4]=%s deck[2]=%s", p.Hand[4].Name, p.Deck[2].Name)
	}
	if len(p.Hand) != HandCap || len(p.Deck) != 3 {
		t.Errorf("sizes changed: hand %d deck %d", len(p.Hand), len(p.Deck))
	}
	if !p.TurnHasSwappedCard || s.Phase != PhaseMain || s.SelectedDeck != -1 {
		t.Errorf("flag %v, phase %s, selected %d", p.TurnHasSwappedCard, s.Phase, s.SelectedDeck)
	}
}

func TestPickDeckCardCancelsSwap(t *testing.T) {
	m, _ := newTestMatch(t, fillerCards(HandCap), nil)
	m.state.Players[0].Deck = fillerCards(3)

	mustSubmit(t, m, PickDeckCard(0, 1))
	mustReject(t, m, PickDeckCard(0, 0), ReasonWrongPhase)
	mustSubmit(t, m, PickDeckCard(0, 1))
	s := m.Snapshot()
	if s.Phase != PhaseMain || s.SelectedDeck != -1 || s.Players[0].TurnHasSwappedCard {
		t.Errorf("after cancel: phase %s, selected %d, flag %v", s.Phase, s.SelectedDeck, s.Players[0].TurnHasSwappedCard)
	}
}

func TestRejectedEndTurnLeavesStateUnchanged(t *testing.T) {
	m, logger := newTestMatch(t, []*card.Card{damageSpell("Zap", 3)}, nil)
	place(m, 0, 0, creatureCard("Attacker", 4, 4), true)

	mustSubmit(t, m, PlayCard(0, 0))
	before := m.Snapshot()
	for _, in := range []Intent{EndTurn(0), EndTurn(1), EndTurn(0)} {
		if err := m.Submit(in); err == nil {
			t.Fatalf("Submit(%s) was accepted mid-selection", in)
		}
	}
	if after := m.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Errorf("rejected EndTurns changed the state:\nbefore %+v\nafter  %+v", before, after)
	}

	if n := len(logger.EventsOfType(log.EventRejected)); n != 3 {
		t.Errorf("rejected events = %d, want 3", n)
	}
	if s := m.Snapshot(); s.Players[1].Health != StartingHealth || s.SelectedHand != 0 {
		t.Errorf("rejected EndTurn ran combat or dropped the selection: P2 health %d", s.Players[1].Health)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	m, _ := newTestMatch(t, []*card.Card{creatureCard("A", 1, 1)}, nil)
	place(m, 1, 0, creatureCard("B", 1, 1), false)
	s := m.Snapshot()
	s.Players[0].Hand = nil
	s.Players[1].Board[0].Health = -5
	s.Players[1].Health = 0

	again := m.Snapshot()
	if len(again.Players[0].Hand) != 1 || again.Players[1].Board[0].Health != 1 || again.Players[1].Health != StartingHealth {
		t.Error("mutating a snapshot changed the match")
	}
}

// TestRandomPlayKeepsInvariants drives matches with random legal intents and
// checks the board and hand invariants after every accepted intent.
func TestRandomPlayKeepsInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		deck := func() []*card.Card {
			var cards []*card.Card
			for i := 0; i < 12; i++ {
				if i%3 == 0 {
					cards = append(cards, damageSpell("Zap", 3))
				} else {
					cards = append(cards, creatureCard("Imp", 2+i%3, 1+i%4))
				}
			}
			return cards
		}
		m := NewMatch(MatchConfig{Decks: [2][]*card.Card{deck(), deck()}})

		for step := 0; step < 400; step++ {
			s := m.Snapshot()
			if s.Over() {
				break
			}
			legal := LegalIntents(s)
			if len(legal) == 0 {
				t.Fatalf("seed %d step %d: no legal intents in phase %s", seed, step, s.Phase)
			}
			in := legal[rng.Intn(len(legal))]
			if err := m.Submit(in); err != nil {
				t.Fatalf("seed %d step %d: legal intent %s rejected: %v", seed, step, in, err)
			}

			after := m.Snapshot()
			seen := make(map[int]bool)
			for _, p := range after.Players {
				if len(p.Hand) > HandCap {
					t.Fatalf("seed %d: hand size %d exceeds cap", seed, len(p.Hand))
				}
				for _, c := range p.Creatures() {
					if seen[c.ID] {
						t.Fatalf("seed %d: creature %d occupies two slots", seed, c.ID)
					}
					seen[c.ID] = true
					if in.Type == IntentEndTurn && c.Health <= 0 {
						t.Fatalf("seed %d: dead creature %s survived cleanup", seed, c.Name)
					}
				}
			}
			if after.Over() && after.Winner == nil {
				t.Fatalf("seed %d: match ended without a result", seed)
			}
		}
	}
}

func TestLegalIntentsAreAccepted(t *testing.T) {
	m, _ := newTestMatch(t, []*card.Card{creatureCard("A", 1, 1), damageSpell("Zap", 1)}, nil)
	m.state.Players[0].Deck = fillerCards(2)
	base := m.Snapshot()
	for _, in := range LegalIntents(base) {
		trial := NewMatchFromState(base.Clone(), nil)
		if err := trial.Submit(in); err != nil {
			t.Errorf("legal intent %s rejected: %v", in, err)
		}
	}
	if reflect.DeepEqual(LegalIntents(base), []Intent(nil)) {
		t.Error("no legal intents at the start of a turn")
	}
}
