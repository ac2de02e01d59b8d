package main

import (
	"errors"
	"net/http"

	"airline/src/booking"

	"github.com/gin-gonic/gin"
)

// respondBookingError maps engine errors onto HTTP statuses and keeps
// the structured detail the engine attaches: callers need to know which
// flight conflicts or which reservation already exists, not just "no".
func respondBookingError(ctx *gin.Context, err error) {
	var conflictErr *booking.ConflictError
	var capacityErr *booking.CapacityError
	var duplicateErr *booking.DuplicateError
	var integrityErr *booking.IntegrityError
	var transientErr *booking.TransientError

	switch {
	case errors.Is(err, booking.ErrAirplaneNotFound),
		errors.Is(err, booking.ErrFlightNotFound),
		errors.Is(err, booking.ErrReservationNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &conflictErr):
		ctx.JSON(http.StatusConflict, gin.H{
			"error": conflictErr.Error(),
			"conflict": gin.H{
				"flight_id":      conflictErr.FlightID,
				"flight_number":  conflictErr.FlightNumber,
				"departure_time": conflictErr.DepartureTime,
				"arrival_time":   conflictErr.ArrivalTime,
			},
		})
	case errors.As(err, &capacityErr):
		ctx.JSON(http.StatusConflict, gin.H{
			"error":        capacityErr.Error(),
			"capacity":     capacityErr.Capacity,
			"active_count": capacityErr.ActiveCount,
		})
	case errors.As(err, &duplicateErr):
		ctx.JSON(http.StatusConflict, gin.H{
			"error":          duplicateErr.Error(),
			"reservation_id": duplicateErr.ReservationID,
		})
	case errors.As(err, &integrityErr):
		ctx.JSON(http.StatusConflict, gin.H{
			"error":      integrityErr.Error(),
			"references": integrityErr.References,
		})
	case errors.Is(err, booking.ErrFlightNumberTaken),
		errors.Is(err, booking.ErrTailNumberTaken):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidWindow),
		errors.Is(err, booking.ErrFlightDeparted),
		errors.Is(err, booking.ErrPassengerNameTooShort),
		errors.Is(err, booking.ErrPassengerEmailEmpty):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &transientErr):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": transientErr.Error()})
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
