package models

import "fmt"

// Booking status lifecycle: WAITING -> APPROVED | REJECTED, decided once by
// the item owner. CANCELED is declared for parity with clients but no
// exposed operation reaches it.
const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELED"
)

// BookingState filters booking lists relative to a query-time "now".
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState maps a query parameter to a state filter.
// Empty input defaults to ALL.
func ParseBookingState(raw string) (BookingState, error) {
	switch BookingState(raw) {
	case "":
		return StateAll, nil
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return BookingState(raw), nil
	default:
		return "", fmt.Errorf("unknown booking state: %s", raw)
	}
}

const (
	// DefaultPageSize applies when list endpoints omit the size parameter.
	DefaultPageSize = 10

	// MaxRequestDescriptionLen bounds item request descriptions.
	MaxRequestDescriptionLen = 500
)
