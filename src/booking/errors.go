package booking

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrAirplaneNotFound    = errors.New("airplane not found")
	ErrFlightNotFound      = errors.New("flight not found")
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrInvalidWindow rejects flights whose arrival does not come
	// strictly after departure.
	ErrInvalidWindow = errors.New("arrival time must be after departure time")

	// ErrFlightDeparted rejects bookings against flights whose
	// departure instant is not strictly in the future.
	ErrFlightDeparted = errors.New("cannot book a flight that has already departed")

	ErrFlightNumberTaken = errors.New("flight number already in use")
	ErrTailNumberTaken   = errors.New("tail number already in use")

	ErrPassengerNameTooShort = errors.New("passenger name must be at least 2 characters")
	ErrPassengerEmailEmpty   = errors.New("passenger email is required")
)

// ConflictError reports the first committed flight whose buffered window
// overlaps the candidate's. Lowest flight id wins the tie-break so the
// message is deterministic; other conflicts may exist.
type ConflictError struct {
	FlightID      uint
	FlightNumber  string
	DepartureTime time.Time
	ArrivalTime   time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"airplane is already scheduled for flight %s from %s to %s; flights must have at least %s gap between them",
		e.FlightNumber,
		e.DepartureTime.Format(time.RFC3339),
		e.ArrivalTime.Format(time.RFC3339),
		TurnaroundBuffer,
	)
}

// CapacityError reports a booking rejected because the flight's aircraft
// is fully booked at commit time.
type CapacityError struct {
	FlightNumber string
	Capacity     uint
	ActiveCount  uint
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("flight %s is fully booked (capacity: %d)", e.FlightNumber, e.Capacity)
}

// DuplicateError reports an already-active reservation for the same
// (flight, normalized email) pair.
type DuplicateError struct {
	ReservationID  uint
	FlightNumber   string
	PassengerEmail string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("an active reservation already exists for %s on flight %s", e.PassengerEmail, e.FlightNumber)
}

// IntegrityError blocks a delete while other records still reference the
// entity. Cascading deletes would silently orphan audit records, so the
// coordinator rejects instead.
type IntegrityError struct {
	Entity     string
	ID         uint
	References int64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("cannot delete %s %d: %d record(s) still reference it", e.Entity, e.ID, e.References)
}

// TransientError wraps storage-level failures that a caller may retry,
// such as exhausting code-allocation attempts under contention.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *TransientError) Unwrap() error {
	return e.Err
}
