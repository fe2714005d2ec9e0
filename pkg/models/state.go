package models

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a record would leave the processed state.
var ErrInvalidTransition = errors.New("invalid processing state transition")

// ProcessingState mirrors the processed_amount marker on the primary store:
// NULL means pending, any value means processed.
type ProcessingState int

const (
	StatePending ProcessingState = iota
	StateProcessed
)

func (s ProcessingState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateProcessed:
		return "processed"
	default:
		return fmt.Sprintf("ProcessingState(%d)", int(s))
	}
}

// Advance moves a pending record to processed. It is the only legal transition.
// The loader calls it as a pre-write check; the resulting state is persisted as
// the marker column, not on the in-memory record.
func (s ProcessingState) Advance() (ProcessingState, error) {
	if s != StatePending {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, StateProcessed)
	}
	return StateProcessed, nil
}

// StateFromMarker derives the state from the store's nullable marker column.
func StateFromMarker(markerSet bool) ProcessingState {
	if markerSet {
		return StateProcessed
	}
	return StatePending
}
