package game

import (
	"sync"

	"github.com/peterkuimelis/lexicarcana/internal/card"
	"github.com/peterkuimelis/lexicarcana/internal/log"
)

// MatchConfig holds configuration for creating a new match.
type MatchConfig struct {
	Decks          [2][]*card.Card // draw piles, dealt from the front
	Names          [2]string
	StartingHealth int // 0 selects StartingHealth
	HandCap        int // 0 selects HandCap
	InitialHand    int // 0 selects InitialHand; negative deals nothing
	Logger         log.EventLogger
}

// Match owns a MatchState and serializes every mutation through Submit.
type Match struct {
	mu        sync.Mutex
	state     *MatchState
	handCap   int
	logger    log.EventLogger
	observers []func(log.GameEvent)
}

// NewMatch creates a match and deals each player's opening hand.
func NewMatch(cfg MatchConfig) *Match {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	handCap := cfg.HandCap
	if handCap <= 0 {
		handCap = HandCap
	}
	initial := cfg.InitialHand
	if initial == 0 {
		initial = InitialHand
	}
	if initial > handCap {
		initial = handCap
	}

	s := NewMatchState(cfg.StartingHealth)
	m := &Match{state: s, handCap: handCap, logger: logger}
	for i, p := range s.Players {
		if cfg.Names[i] != "" {
			p.Name = cfg.Names[i]
		}
		p.Deck = append([]*card.Card(nil), cfg.Decks[i]...)
		n := min(max(initial, 0), len(p.Deck))
		p.Hand = append([]*card.Card(nil), p.Deck[:n]...)
		p.Deck = p.Deck[n:]
		m.log(log.NewDealEvent(s.TurnCount, i, n))
	}
	m.log(log.NewTurnEvent(s.TurnCount, s.Active))
	return m
}

// NewMatchFromState wraps an existing state, mainly for tests and restored matches.
func NewMatchFromState(s *MatchState, logger log.EventLogger) *Match {
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	return &Match{state: s, handCap: HandCap, logger: logger}
}

// Observe registers fn to receive every logged event. fn runs while the match
// is locked and must not call back into the match.
func (m *Match) Observe(fn func(log.GameEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// Snapshot returns a deep copy of the current state.
func (m *Match) Snapshot() *MatchState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone()
}

// Logger returns the match's event log.
func (m *Match) Logger() log.EventLogger {
	return m.logger
}

// HandCap returns the configured hand size limit.
func (m *Match) HandCap() int {
	return m.handCap
}

// Over reports whether the match has ended.
func (m *Match) Over() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Over()
}

// Submit processes one intent to completion. It returns a *Rejection when the
// intent is illegal, in which case the state is unchanged.
func (m *Match) Submit(in Intent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.validate(in); err != nil {
		m.log(log.NewRejectedEvent(m.state.TurnCount, m.state.Phase.String(), in.Player, in.String(), err.Reason.String()))
		return err
	}

	switch in.Type {
	case IntentPlayCard:
		m.playCard(in)
	case IntentSelectSlot:
		m.selectSlot(in)
	case IntentSelectTarget:
		m.selectTarget(in)
	case IntentBrowseDeck:
		p := m.state.Players[in.Player]
		m.log(log.NewBrowseDeckEvent(m.state.TurnCount, m.state.Phase.String(), in.Player, len(p.Deck)))
	case IntentPickDeckCard:
		m.pickDeckCard(in)
	case IntentSwapHandCard:
		m.swapHandCard(in)
	case IntentEndTurn:
		m.endTurn()
	}
	return nil
}

// Browse submits a BrowseDeck intent and returns the player's draw pile.
func (m *Match) Browse(player int) ([]*card.Card, error) {
	if err := m.Submit(BrowseDeck(player)); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*card.Card(nil), m.state.Players[player].Deck...), nil
}

// validate checks an intent against the current state without mutating it.
func (m *Match) validate(in Intent) *Rejection {
	s := m.state
	if s.Phase == PhaseEnd {
		return reject(in, ReasonMatchOver)
	}
	if in.Player != s.Active {
		return reject(in, ReasonNotActivePlayer)
	}
	p := s.Players[in.Player]

	switch in.Type {
	case IntentPlayCard:
		if (s.Phase == PhaseSelectingBoardSlot || s.Phase == PhaseSelectingTarget) && in.Index == s.SelectedHand {
			return nil // cancel
		}
		if s.Phase != PhaseMain {
			return reject(in, ReasonWrongPhase)
		}
		if p.PlayedCardThisTurn {
			return reject(in, ReasonCardAlreadyPlayedThisTurn)
		}
		if in.Index < 0 || in.Index >= len(p.Hand) {
			return reject(in, ReasonInvalidIndex)
		}

	case IntentSelectSlot:
		if s.Phase != PhaseSelectingBoardSlot {
			return reject(in, ReasonWrongPhase)
		}
		if in.Index < 0 || in.Index >= BoardSize {
			return reject(in, ReasonInvalidIndex)
		}
		if p.Board[in.Index] != nil {
			return reject(in, ReasonSlotOccupied)
		}

	case IntentSelectTarget:
		if s.Phase != PhaseSelectingTarget {
			return reject(in, ReasonWrongPhase)
		}
		switch in.Target.Kind {
		case TargetPlayer:
			if in.Target.Player < 0 || in.Target.Player > 1 {
				return reject(in, ReasonInvalidTarget)
			}
		case TargetCreature:
			if s.CreatureAt(in.Target) == nil {
				return reject(in, ReasonInvalidTarget)
			}
		default:
			return reject(in, ReasonInvalidTarget)
		}

	case IntentBrowseDeck:
		if s.Phase != PhaseMain {
			return reject(in, ReasonWrongPhase)
		}
		if p.TurnHasSwappedCard {
			return reject(in, ReasonSwapAlreadyUsedThisTurn)
		}

	case IntentPickDeckCard:
		if s.Phase == PhaseSelectingHandCard && in.Index == s.SelectedDeck {
			return nil // cancel
		}
		if s.Phase != PhaseMain {
			return reject(in, ReasonWrongPhase)
		}
		if p.TurnHasSwappedCard {
			return reject(in, ReasonSwapAlreadyUsedThisTurn)
		}
		if len(p.Deck) == 0 {
			return reject(in, ReasonDeckEmpty)
		}
		if in.Index < 0 || in.Index >= len(p.Deck) {
			return reject(in, ReasonInvalidIndex)
		}

	case IntentSwapHandCard:
		if s.Phase != PhaseSelectingHandCard {
			return reject(in, ReasonWrongPhase)
		}
		if in.Index < 0 || in.Index >= len(p.Hand) {
			return reject(in, ReasonInvalidIndex)
		}

	case IntentEndTurn:
		if s.Phase != PhaseMain {
			return reject(in, ReasonWrongPhase)
		}

	default:
		return reject(in, ReasonWrongPhase)
	}
	return nil
}

func (m *Match) playCard(in Intent) {
	s := m.state
	p := s.Players[in.Player]

	if s.Phase != PhaseMain {
		m.log(log.NewCancelSelectionEvent(s.TurnCount, s.Phase.String(), in.Player, p.Hand[s.SelectedHand].Name))
		s.SelectedHand = -1
		m.setPhase(PhaseMain)
		return
	}

	c := p.Hand[in.Index]
	s.SelectedHand = in.Index
	m.log(log.NewSelectCardEvent(s.TurnCount, s.Phase.String(), in.Player, c.Name))
	if c.IsCreature() {
		m.setPhase(PhaseSelectingBoardSlot)
	} else {
		m.setPhase(PhaseSelectingTarget)
	}
}

func (m *Match) selectSlot(in Intent) {
	s := m.state
	p := s.Players[in.Player]
	c := p.removeFromHand(s.SelectedHand)

	cr := newCreature(s, c)
	p.Board[in.Index] = cr
	s.Settlement = append(s.Settlement, SettlementEntry{
		Card:       c,
		Player:     in.Player,
		Target:     CreatureTarget(in.Player, in.Index),
		CreatureID: cr.ID,
	})
	p.PlayedCardThisTurn = true
	p.LastPlayed = c
	s.SelectedHand = -1

	m.log(log.NewPlaceCreatureEvent(s.TurnCount, s.Phase.String(), in.Player, c.Name, cr.Attack, cr.Health, in.Index))
	m.setPhase(PhaseMain)
}

func (m *Match) selectTarget(in Intent) {
	s := m.state
	p := s.Players[in.Player]
	c := p.removeFromHand(s.SelectedHand)

	s.Settlement = append(s.Settlement, SettlementEntry{Card: c, Player: in.Player, Target: in.Target})
	p.PlayedCardThisTurn = true
	p.LastPlayed = c
	s.SelectedHand = -1

	m.log(log.NewCastSpellEvent(s.TurnCount, s.Phase.String(), in.Player, c.Name, in.Target.String()))
	m.setPhase(PhaseMain)
}

func (m *Match) pickDeckCard(in Intent) {
	s := m.state
	p := s.Players[in.Player]

	if s.Phase == PhaseSelectingHandCard {
		m.log(log.NewCancelSelectionEvent(s.TurnCount, s.Phase.String(), in.Player, p.Deck[s.SelectedDeck].Name))
		s.SelectedDeck = -1
		m.setPhase(PhaseMain)
		return
	}

	if len(p.Hand) < m.handCap {
		c := p.Deck[in.Index]
		p.Deck = append(p.Deck[:in.Index:in.Index], p.Deck[in.Index+1:]...)
		p.Hand = append(p.Hand, c)
		p.TurnHasSwappedCard = true
		m.log(log.NewAddToHandEvent(s.TurnCount, s.Phase.String(), in.Player, c.Name, "picked from deck"))
		return
	}

	s.SelectedDeck = in.Index
	m.log(log.NewSelectCardEvent(s.TurnCount, s.Phase.String(), in.Player, p.Deck[in.Index].Name))
	m.setPhase(PhaseSelectingHandCard)
}

func (m *Match) swapHandCard(in Intent) {
	s := m.state
	p := s.Players[in.Player]
	d := s.SelectedDeck

	p.Hand[in.Index], p.Deck[d] = p.Deck[d], p.Hand[in.Index]
	p.TurnHasSwappedCard = true
	s.SelectedDeck = -1

	m.log(log.NewSwapEvent(s.TurnCount, s.Phase.String(), in.Player, p.Deck[d].Name, p.Hand[in.Index].Name))
	m.setPhase(PhaseMain)
}

func (m *Match) setPhase(phase Phase) {
	if m.state.Phase == phase {
		return
	}
	m.state.Phase = phase
	m.log(log.NewPhaseChangeEvent(m.state.TurnCount, phase.String()))
}

func (m *Match) log(event log.GameEvent) {
	m.logger.Log(event)
	for _, fn := range m.observers {
		fn(event)
	}
}

// newCreature instantiates a battle creature from a card. Health is floored at 1.
func newCreature(s *MatchState, c *card.Card) *Creature {
	hp := max(c.Health, 1)
	return &Creature{
		ID:        s.NextID(),
		CardID:    c.ID,
		Card:      c,
		Name:      c.Name,
		Attack:    max(c.Attack, 0),
		Health:    hp,
		MaxHealth: hp,
	}
}
