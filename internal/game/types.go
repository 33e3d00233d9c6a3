package game

import "fmt"

const (
	StartingHealth = 30
	BoardSize      = 6
	HandCap        = 6
	InitialHand    = 5
)

// --- Enums ---

type Phase int

const (
	PhaseMain Phase = iota
	PhaseSelectingBoardSlot
	PhaseSelectingTarget
	PhaseSelectingHandCard
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseMain:
		return "Main"
	case PhaseSelectingBoardSlot:
		return "SelectingBoardSlot"
	case PhaseSelectingTarget:
		return "SelectingTarget"
	case PhaseSelectingHandCard:
		return "SelectingHandCard"
	case PhaseEnd:
		return "End"
	default:
		return "Unknown"
	}
}

type IntentType int

const (
	IntentPlayCard IntentType = iota
	IntentSelectSlot
	IntentSelectTarget
	IntentBrowseDeck
	IntentPickDeckCard
	IntentSwapHandCard
	IntentEndTurn
)

func (t IntentType) String() string {
	switch t {
	case IntentPlayCard:
		return "PlayCard"
	case IntentSelectSlot:
		return "SelectSlot"
	case IntentSelectTarget:
		return "SelectTarget"
	case IntentBrowseDeck:
		return "BrowseDeck"
	case IntentPickDeckCard:
		return "PickDeckCard"
	case IntentSwapHandCard:
		return "SwapHandCard"
	case IntentEndTurn:
		return "EndTurn"
	default:
		return "Unknown"
	}
}

type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetPlayer
	TargetCreature
)

// Target is a player or a (player, slot) creature reference.
type Target struct {
	Kind   TargetKind
	Player int
	Slot   int
}

func PlayerTarget(player int) Target {
	return Target{Kind: TargetPlayer, Player: player}
}

func CreatureTarget(player, slot int) Target {
	return Target{Kind: TargetCreature, Player: player, Slot: slot}
}

func (t Target) String() string {
	switch t.Kind {
	case TargetPlayer:
		return fmt.Sprintf("P%d", t.Player+1)
	case TargetCreature:
		return fmt.Sprintf("P%d slot %d", t.Player+1, t.Slot)
	default:
		return "nothing"
	}
}

// Intent is a player's request to the match engine. Intents are pure data.
type Intent struct {
	Type   IntentType
	Player int
	Index  int // hand, slot or deck index, depending on Type
	Target Target
}

func PlayCard(player, handIndex int) Intent {
	return Intent{Type: IntentPlayCard, Player: player, Index: handIndex}
}

func SelectSlot(player, slot int) Intent {
	return Intent{Type: IntentSelectSlot, Player: player, Index: slot}
}

func SelectTarget(player int, target Target) Intent {
	return Intent{Type: IntentSelectTarget, Player: player, Target: target}
}

func BrowseDeck(player int) Intent {
	return Intent{Type: IntentBrowseDeck, Player: player}
}

func PickDeckCard(player, deckIndex int) Intent {
	return Intent{Type: IntentPickDeckCard, Player: player, Index: deckIndex}
}

func SwapHandCard(player, handIndex int) Intent {
	return Intent{Type: IntentSwapHandCard, Player: player, Index: handIndex}
}

func EndTurn(player int) Intent {
	return Intent{Type: IntentEndTurn, Player: player}
}

func (i Intent) String() string {
	switch i.Type {
	case IntentPlayCard, IntentSelectSlot, IntentPickDeckCard, IntentSwapHandCard:
		return fmt.Sprintf("%s(%d)", i.Type, i.Index)
	case IntentSelectTarget:
		return fmt.Sprintf("%s(%s)", i.Type, i.Target)
	default:
		return i.Type.String()
	}
}
