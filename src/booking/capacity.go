package booking

import (
	"airline/src/models"
	"airline/src/types"

	"gorm.io/gorm"
)

// activeCount returns the number of non-cancelled reservations for a
// flight. Only meaningful as a commit-time check when called inside the
// flight's critical section; anywhere else it is a snapshot.
func activeCount(tx *gorm.DB, flightID uint) (uint, error) {
	var count int64
	err := tx.
		Model(&models.Reservation{}).
		Where(&models.Reservation{FlightID: flightID, Status: types.RESERVATION_ACTIVE}).
		Count(&count).
		Error
	if err != nil {
		return 0, err
	}
	return uint(count), nil
}

func availabilityFor(tx *gorm.DB, flight *models.Flight) (*models.Availability, error) {
	active, err := activeCount(tx, flight.ID)
	if err != nil {
		return nil, err
	}
	capacity := flight.Airplane.Capacity
	available := uint(0)
	if capacity > active {
		available = capacity - active
	}
	return &models.Availability{
		FlightID:    flight.ID,
		Capacity:    capacity,
		ActiveCount: active,
		Available:   available,
		FullyBooked: active >= capacity,
	}, nil
}
