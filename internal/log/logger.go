package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging match events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]GameEvent(nil), l.events...)
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	events := l.Events()
	if len(events) == 0 {
		return GameEvent{}
	}
	return events[len(events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// playerName returns "P1" or "P2" for display.
func playerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	return fmt.Sprintf("R%-2d %-18s| %s", e.Turn, e.Phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewPhaseChangeEvent(turn int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewDealEvent(turn int, player int, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Main",
		Player:  player,
		Type:    EventDeal,
		Details: fmt.Sprintf("%s is dealt %d cards", playerName(player), count),
	}
}

func NewTurnEvent(turn int, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Main",
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Round %d (%s) ===", turn, playerName(player)),
	}
}

func NewSelectCardEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSelectCard,
		Card:    cardName,
		Details: fmt.Sprintf("%s selects %s", playerName(player), cardName),
	}
}

func NewCancelSelectionEvent(turn int, phase string, player int, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventCancelSelection,
		Card:    cardName,
		Details: fmt.Sprintf("%s cancels %s", playerName(player), cardName),
	}
}

func NewPlaceCreatureEvent(turn int, phase string, player int, cardName string, atk, hp int, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPlaceCreature,
		Card:    cardName,
		Details: fmt.Sprintf("%s places %s (%d/%d) in slot %d", playerName(player), cardName, atk, hp, slot),
	}
}

func NewCastSpellEvent(turn int, phase string, player int, cardName string, target string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventCastSpell,
		Card:    cardName,
		Details: fmt.Sprintf("%s casts %s at %s", playerName(player), cardName, target),
	}
}

func NewSettleEvent(turn int, phase string, player int, cardName string, target string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSettle,
		Card:    cardName,
		Details: fmt.Sprintf("%s resolves against %s", cardName, target),
	}
}

func NewConditionUnmetEvent(turn int, phase string, player int, cardName string, limiter string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventConditionUnmet,
		Card:    cardName,
		Details: fmt.Sprintf("%s: %s condition not met", cardName, limiter),
	}
}

func NewHealthChangeEvent(turn int, phase string, player int, oldHP, newHP int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventHealthChange,
		Details: fmt.Sprintf("%s health: %d → %d (%s)", playerName(player), oldHP, newHP, reason),
	}
}

func NewStatChangeEvent(turn int, phase string, player int, name string, atk, hp int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventStatChange,
		Card:    name,
		Details: fmt.Sprintf("%s's %s is now %d/%d (%s)", playerName(player), name, atk, hp, reason),
	}
}

func NewSummonTokenEvent(turn int, phase string, player int, name string, slot int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSummonToken,
		Card:    name,
		Details: fmt.Sprintf("%s creates %s in slot %d", playerName(player), name, slot),
	}
}

func NewLaneAttackEvent(turn int, player int, attacker string, defender string, lane int, damage int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Combat",
		Player:  player,
		Type:    EventLaneAttack,
		Card:    attacker,
		Details: fmt.Sprintf("Lane %d: %s hits %s for %d", lane, attacker, defender, damage),
	}
}

func NewDirectAttackEvent(turn int, player int, attacker string, lane int, damage int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Combat",
		Player:  player,
		Type:    EventDirectAttack,
		Card:    attacker,
		Details: fmt.Sprintf("Lane %d: %s hits %s directly for %d", lane, attacker, playerName(1-player), damage),
	}
}

func NewDestroyEvent(turn int, phase string, player int, name string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventDestroy,
		Card:    name,
		Details: fmt.Sprintf("%s's %s is destroyed (%s)", playerName(player), name, reason),
	}
}

func NewSendToGraveyardEvent(turn int, phase string, player int, name string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSendToGraveyard,
		Card:    name,
		Details: fmt.Sprintf("%s goes to %s's graveyard", name, playerName(player)),
	}
}

func NewBrowseDeckEvent(turn int, phase string, player int, size int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventBrowseDeck,
		Details: fmt.Sprintf("%s browses their deck (%d cards)", playerName(player), size),
	}
}

func NewAddToHandEvent(turn int, phase string, player int, cardName string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventAddToHand,
		Card:    cardName,
		Details: fmt.Sprintf("%s adds %s to hand (%s)", playerName(player), cardName, reason),
	}
}

func NewSwapEvent(turn int, phase string, player int, handCard, deckCard string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventSwap,
		Card:    deckCard,
		Details: fmt.Sprintf("%s swaps %s for %s", playerName(player), handCard, deckCard),
	}
}

func NewRejectedEvent(turn int, phase string, player int, intent string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventRejected,
		Details: fmt.Sprintf("%s: %s rejected (%s)", playerName(player), intent, reason),
	}
}

func NewHandoffEvent(turn int, from int, to int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Main",
		Player:  from,
		Type:    EventHandoff,
		Details: fmt.Sprintf("%s ends their turn; %s to act", playerName(from), playerName(to)),
	}
}

func NewWinEvent(turn int, phase string, winner int, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  winner,
		Type:    EventWin,
		Details: fmt.Sprintf("%s wins! (%s)", playerName(winner), reason),
	}
}
