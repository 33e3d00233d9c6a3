package game

import (
	"errors"
	"fmt"
)

// Reason is why an intent was rejected.
type Reason int

const (
	ReasonWrongPhase Reason = iota
	ReasonSlotOccupied
	ReasonCardAlreadyPlayedThisTurn
	ReasonSwapAlreadyUsedThisTurn
	ReasonNotActivePlayer
	ReasonInvalidIndex
	ReasonInvalidTarget
	ReasonDeckEmpty
	ReasonMatchOver
)

func (r Reason) String() string {
	switch r {
	case ReasonWrongPhase:
		return "WrongPhase"
	case ReasonSlotOccupied:
		return "SlotOccupied"
	case ReasonCardAlreadyPlayedThisTurn:
		return "CardAlreadyPlayedThisTurn"
	case ReasonSwapAlreadyUsedThisTurn:
		return "SwapAlreadyUsedThisTurn"
	case ReasonNotActivePlayer:
		return "NotActivePlayer"
	case ReasonInvalidIndex:
		return "InvalidIndex"
	case ReasonInvalidTarget:
		return "InvalidTarget"
	case ReasonDeckEmpty:
		return "DeckEmpty"
	case ReasonMatchOver:
		return "MatchOver"
	default:
		return "Unknown"
	}
}

// Rejection reports an illegal intent. The match state is unchanged.
type Rejection struct {
	Intent Intent
	Reason Reason
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("intent %s from P%d rejected: %s", r.Intent, r.Intent.Player+1, r.Reason)
}

func reject(in Intent, reason Reason) *Rejection {
	return &Rejection{Intent: in, Reason: reason}
}

// ReasonOf extracts the rejection reason from err.
func ReasonOf(err error) (Reason, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r.Reason, true
	}
	return 0, false
}
