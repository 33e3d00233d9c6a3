package card

import "fmt"

// ErrorKind classifies a synthesis failure.
type ErrorKind int

const (
	EmptyTermSet ErrorKind = iota
	DuplicateUniqueTerm
	MultipleLimiters
	NestedLimiter
	UnknownTerm
	NotALimiter
)

func (k ErrorKind) String() string {
	switch k {
	case EmptyTermSet:
		return "EmptyTermSet"
	case DuplicateUniqueTerm:
		return "DuplicateUniqueTerm"
	case MultipleLimiters:
		return "MultipleLimiters"
	case NestedLimiter:
		return "NestedLimiter"
	case UnknownTerm:
		return "UnknownTerm"
	case NotALimiter:
		return "NotALimiter"
	default:
		return "Unknown"
	}
}

// SynthesisError reports why a term list could not become a card.
// errors.Is matches on Kind, so callers compare against the Err* sentinels.
type SynthesisError struct {
	Kind    ErrorKind
	TermID  string
	Message string
}

func (e *SynthesisError) Error() string {
	if e.TermID != "" {
		return fmt.Sprintf("synthesis: %s: %s (%s)", e.Kind, e.Message, e.TermID)
	}
	return fmt.Sprintf("synthesis: %s: %s", e.Kind, e.Message)
}

func (e *SynthesisError) Is(target error) bool {
	t, ok := target.(*SynthesisError)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyTermSet        = &SynthesisError{Kind: EmptyTermSet, Message: "no terms to synthesize"}
	ErrDuplicateUniqueTerm = &SynthesisError{Kind: DuplicateUniqueTerm, Message: "unique term used more than once"}
	ErrMultipleLimiters    = &SynthesisError{Kind: MultipleLimiters, Message: "a card may carry only one limiter"}
	ErrNestedLimiter       = &SynthesisError{Kind: NestedLimiter, Message: "limiters cannot be nested"}
	ErrUnknownTerm         = &SynthesisError{Kind: UnknownTerm, Message: "term not in catalog"}
	ErrNotALimiter         = &SynthesisError{Kind: NotALimiter, Message: "group head is not a conditional term"}
)

func synthErr(kind ErrorKind, termID, msg string) *SynthesisError {
	return &SynthesisError{Kind: kind, TermID: termID, Message: msg}
}
