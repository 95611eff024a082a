package game

import "fmt"

// ValidationError rejects an action that is illegal in the current state:
// wrong phase or turn, malformed payload, illegal geometry, or a piece limit.
// The state is left untouched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ResourceError rejects an action because a player or the bank cannot cover
// it. Bank distinguishes bank-side insufficiency (including scarcity) from a
// plain short hand.
type ResourceError struct {
	Reason string
	Bank   bool
}

func (e *ResourceError) Error() string { return e.Reason }

// NotFoundError rejects an action referencing an unknown entity, such as a
// trade id or player id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
