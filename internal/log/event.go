package log

// EventType enumerates all observable match events.
type EventType int

const (
	EventPhaseChange EventType = iota
	EventDeal
	EventNewTurn
	EventSelectCard
	EventCancelSelection
	EventPlaceCreature
	EventCastSpell
	EventSettle
	EventConditionUnmet
	EventHealthChange
	EventStatChange
	EventSummonToken
	EventLaneAttack
	EventDirectAttack
	EventDestroy
	EventSendToGraveyard
	EventBrowseDeck
	EventAddToHand
	EventSwap
	EventRejected
	EventHandoff
	EventWin
)

func (e EventType) String() string {
	switch e {
	case EventPhaseChange:
		return "PhaseChange"
	case EventDeal:
		return "Deal"
	case EventNewTurn:
		return "NewTurn"
	case EventSelectCard:
		return "SelectCard"
	case EventCancelSelection:
		return "CancelSelection"
	case EventPlaceCreature:
		return "PlaceCreature"
	case EventCastSpell:
		return "CastSpell"
	case EventSettle:
		return "Settle"
	case EventConditionUnmet:
		return "ConditionUnmet"
	case EventHealthChange:
		return "HealthChange"
	case EventStatChange:
		return "StatChange"
	case EventSummonToken:
		return "SummonToken"
	case EventLaneAttack:
		return "LaneAttack"
	case EventDirectAttack:
		return "DirectAttack"
	case EventDestroy:
		return "Destroy"
	case EventSendToGraveyard:
		return "SendToGraveyard"
	case EventBrowseDeck:
		return "BrowseDeck"
	case EventAddToHand:
		return "AddToHand"
	case EventSwap:
		return "Swap"
	case EventRejected:
		return "Rejected"
	case EventHandoff:
		return "Handoff"
	case EventWin:
		return "Win"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a match.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // full rounds completed (0-based)
	Phase   string    // match phase when the event happened
	Player  int       // acting player (0 or 1)
	Type    EventType // event type
	Card    string    // card or creature name (if applicable)
	Details string    // human-readable detail string
}
