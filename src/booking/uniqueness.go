package booking

import (
	"errors"
	"strings"

	"airline/src/models"
	"airline/src/types"

	"gorm.io/gorm"
)

// NormalizeEmail lowercases and trims a passenger email. All duplicate
// checks and stored emails go through this, so comparison is effectively
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// findActiveReservation returns the active reservation held by the
// normalized email on the flight, or nil. Scope is per-flight: the same
// passenger may hold active reservations on different flights, and a
// cancelled reservation never blocks a new booking.
func findActiveReservation(tx *gorm.DB, flightID uint, normalizedEmail string) (*models.Reservation, error) {
	var existing models.Reservation
	err := tx.
		Where(&models.Reservation{
			FlightID:       flightID,
			PassengerEmail: normalizedEmail,
			Status:         types.RESERVATION_ACTIVE,
		}).
		First(&existing).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}
