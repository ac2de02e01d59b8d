package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"airline/src/models"
	"airline/src/types"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Coordinator owns every commit path that touches scheduling or booking
// state. Each operation takes the affected resource's key lock for the
// whole check-then-write sequence and runs the write inside one gorm
// transaction, so no concurrent request can interleave between the read
// and the commit.
type Coordinator struct {
	db    *gorm.DB
	locks *keyLocks
	log   *logrus.Entry
	now   func() time.Time
}

func NewCoordinator(db *gorm.DB, logger *logrus.Logger) *Coordinator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Coordinator{
		db:    db,
		locks: newKeyLocks(),
		log:   logger.WithField("component", "booking"),
		now:   time.Now,
	}
}

// FlightSpec is the validated input for creating or updating a flight.
type FlightSpec struct {
	FlightNumber  string
	Departure     string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	AirplaneID    uint
}

// CancelResult is the availability snapshot handed back to the caller
// after a cancellation. AlreadyCancelled marks the benign no-op case.
type CancelResult struct {
	Reservation      *models.Reservation  `json:"reservation"`
	Availability     *models.Availability `json:"availability"`
	AlreadyCancelled bool                 `json:"already_cancelled"`
}

// CreateFlight validates the window, checks the airplane's schedule for
// buffered-interval conflicts and commits the flight, all under the
// airplane's key lock.
func (c *Coordinator) CreateFlight(ctx context.Context, spec FlightSpec) (*models.Flight, error) {
	if !spec.ArrivalTime.After(spec.DepartureTime) {
		return nil, ErrInvalidWindow
	}

	unlock := c.locks.Lock(airplaneKey(spec.AirplaneID))
	defer unlock()

	var flight models.Flight
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plane models.Airplane
		if err := tx.First(&plane, spec.AirplaneID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAirplaneNotFound
			}
			return err
		}
		widened := NewInterval(spec.DepartureTime, spec.ArrivalTime).Widen(TurnaroundBuffer)
		conflict, err := firstConflict(tx, spec.AirplaneID, widened, 0)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ConflictError{
				FlightID:      conflict.ID,
				FlightNumber:  conflict.FlightNumber,
				DepartureTime: conflict.DepartureTime,
				ArrivalTime:   conflict.ArrivalTime,
			}
		}
		flight = models.Flight{
			FlightNumber:  spec.FlightNumber,
			Departure:     spec.Departure,
			Destination:   spec.Destination,
			DepartureTime: spec.DepartureTime,
			ArrivalTime:   spec.ArrivalTime,
			AirplaneID:    spec.AirplaneID,
		}
		if err := tx.Create(&flight).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrFlightNumberTaken
			}
			return err
		}
		flight.Airplane = plane
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{
		"flight_id":     flight.ID,
		"flight_number": flight.FlightNumber,
		"airplane_id":   flight.AirplaneID,
	}).Info("flight committed")
	return &flight, nil
}

// UpdateFlight re-enters the proposed state and re-validates the new
// window against every other committed flight for the target airplane.
// When the update moves the flight to a different airplane, both
// schedules are locked (in id order, so two movers cannot deadlock).
func (c *Coordinator) UpdateFlight(ctx context.Context, id uint, spec FlightSpec) (*models.Flight, error) {
	if !spec.ArrivalTime.After(spec.DepartureTime) {
		return nil, ErrInvalidWindow
	}

	var current models.Flight
	if err := c.db.WithContext(ctx).First(&current, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}

	for _, key := range airplaneKeys(current.AirplaneID, spec.AirplaneID) {
		unlock := c.locks.Lock(key)
		defer unlock()
	}

	var flight models.Flight
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-read under the lock; the pre-lock read only located the keys.
		if err := tx.First(&flight, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFlightNotFound
			}
			return err
		}
		var plane models.Airplane
		if err := tx.First(&plane, spec.AirplaneID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAirplaneNotFound
			}
			return err
		}
		widened := NewInterval(spec.DepartureTime, spec.ArrivalTime).Widen(TurnaroundBuffer)
		conflict, err := firstConflict(tx, spec.AirplaneID, widened, id)
		if err != nil {
			return err
		}
		if conflict != nil {
			return &ConflictError{
				FlightID:      conflict.ID,
				FlightNumber:  conflict.FlightNumber,
				DepartureTime: conflict.DepartureTime,
				ArrivalTime:   conflict.ArrivalTime,
			}
		}
		flight.FlightNumber = spec.FlightNumber
		flight.Departure = spec.Departure
		flight.Destination = spec.Destination
		flight.DepartureTime = spec.DepartureTime
		flight.ArrivalTime = spec.ArrivalTime
		flight.AirplaneID = spec.AirplaneID
		if err := tx.Save(&flight).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrFlightNumberTaken
			}
			return err
		}
		flight.Airplane = plane
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{
		"flight_id":     flight.ID,
		"flight_number": flight.FlightNumber,
		"airplane_id":   flight.AirplaneID,
	}).Info("flight updated")
	return &flight, nil
}

// DeleteFlight refuses to delete while any reservation, active or
// cancelled, still references the flight. Reservations are the audit
// trail; they are never cascaded away.
func (c *Coordinator) DeleteFlight(ctx context.Context, id uint) error {
	var flight models.Flight
	if err := c.db.WithContext(ctx).First(&flight, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFlightNotFound
		}
		return err
	}

	unlockPlane := c.locks.Lock(airplaneKey(flight.AirplaneID))
	defer unlockPlane()
	unlockFlight := c.locks.Lock(flightKey(id))
	defer unlockFlight()

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&flight, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFlightNotFound
			}
			return err
		}
		var refs int64
		if err := tx.
			Model(&models.Reservation{}).
			Where("flight_id = ?", id).
			Count(&refs).
			Error; err != nil {
			return err
		}
		if refs > 0 {
			return &IntegrityError{Entity: "flight", ID: id, References: refs}
		}
		return tx.Delete(&models.Flight{}, id).Error
	})
}

// DeleteAirplane refuses to delete while any flight references the
// aircraft.
func (c *Coordinator) DeleteAirplane(ctx context.Context, id uint) error {
	unlock := c.locks.Lock(airplaneKey(id))
	defer unlock()

	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plane models.Airplane
		if err := tx.First(&plane, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAirplaneNotFound
			}
			return err
		}
		var refs int64
		if err := tx.
			Model(&models.Flight{}).
			Where("airplane_id = ?", id).
			Count(&refs).
			Error; err != nil {
			return err
		}
		if refs > 0 {
			return &IntegrityError{Entity: "airplane", ID: id, References: refs}
		}
		return tx.Delete(&models.Airplane{}, id).Error
	})
}

// CreateReservation books a seat. The flight's key lock covers the
// departed check, the duplicate check, the capacity check and the
// insert, so a burst of concurrent bookings against a flight with
// capacity C admits exactly C of them. A code collision at commit time
// retries allocation instead of failing the booking.
func (c *Coordinator) CreateReservation(ctx context.Context, flightID uint, passengerName, passengerEmail string) (*models.Reservation, error) {
	name := strings.TrimSpace(passengerName)
	email := NormalizeEmail(passengerEmail)
	if len(name) < 2 {
		return nil, ErrPassengerNameTooShort
	}
	if email == "" {
		return nil, ErrPassengerEmailEmpty
	}

	unlock := c.locks.Lock(flightKey(flightID))
	defer unlock()

	var lastErr error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		var reservation models.Reservation
		err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var flight models.Flight
			if err := tx.Preload("Airplane").First(&flight, flightID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrFlightNotFound
				}
				return err
			}
			if !flight.DepartureTime.After(c.now()) {
				return ErrFlightDeparted
			}
			existing, err := findActiveReservation(tx, flightID, email)
			if err != nil {
				return err
			}
			if existing != nil {
				return &DuplicateError{
					ReservationID:  existing.ID,
					FlightNumber:   flight.FlightNumber,
					PassengerEmail: email,
				}
			}
			active, err := activeCount(tx, flightID)
			if err != nil {
				return err
			}
			if active >= flight.Airplane.Capacity {
				return &CapacityError{
					FlightNumber: flight.FlightNumber,
					Capacity:     flight.Airplane.Capacity,
					ActiveCount:  active,
				}
			}
			code, err := GenerateCode()
			if err != nil {
				return err
			}
			taken, err := codeExists(tx, code)
			if err != nil {
				return err
			}
			if taken {
				return errCodeCollision
			}
			reservation = models.Reservation{
				Code:           code,
				PassengerName:  name,
				PassengerEmail: email,
				FlightID:       flightID,
				Status:         types.RESERVATION_ACTIVE,
			}
			if err := tx.Create(&reservation).Error; err != nil {
				// Another instance can win the code between our existence
				// check and the insert; the unique index is the authority.
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errCodeCollision
				}
				return err
			}
			reservation.Flight = flight
			return nil
		})
		if errors.Is(err, errCodeCollision) {
			lastErr = err
			c.log.WithField("attempt", attempt+1).Warn("reservation code collision, regenerating")
			continue
		}
		if err != nil {
			return nil, err
		}
		c.log.WithFields(logrus.Fields{
			"reservation_id": reservation.ID,
			"code":           reservation.Code,
			"flight_id":      flightID,
		}).Info("reservation committed")
		return &reservation, nil
	}
	return nil, &TransientError{Op: "allocate reservation code", Err: lastErr}
}

// CancelReservation flips an active reservation to cancelled and
// releases its seat. Cancelling twice is a no-op, not an error; the
// caller still gets a fresh availability snapshot either way.
func (c *Coordinator) CancelReservation(ctx context.Context, id uint) (*CancelResult, error) {
	var reservation models.Reservation
	if err := c.db.WithContext(ctx).First(&reservation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}

	unlock := c.locks.Lock(flightKey(reservation.FlightID))
	defer unlock()

	var result CancelResult
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Flight.Airplane").First(&reservation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if !reservation.IsActive() {
			result.AlreadyCancelled = true
		} else {
			if err := tx.
				Model(&models.Reservation{}).
				Where("id = ?", id).
				Update("status", types.RESERVATION_CANCELLED).
				Error; err != nil {
				return err
			}
			reservation.Status = types.RESERVATION_CANCELLED
		}
		availability, err := availabilityFor(tx, &reservation.Flight)
		if err != nil {
			return err
		}
		result.Reservation = &reservation
		result.Availability = availability
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !result.AlreadyCancelled {
		c.log.WithFields(logrus.Fields{
			"reservation_id": id,
			"code":           reservation.Code,
			"flight_id":      reservation.FlightID,
		}).Info("reservation cancelled")
	}
	return &result, nil
}

// Availability returns a point-in-time seat snapshot for a flight. No
// lock is taken; only the commit paths are authoritative.
func (c *Coordinator) Availability(ctx context.Context, flightID uint) (*models.Availability, error) {
	var flight models.Flight
	err := c.db.WithContext(ctx).Preload("Airplane").First(&flight, flightID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	return availabilityFor(c.db.WithContext(ctx), &flight)
}

// airplaneKeys returns the distinct key set for one or two airplanes in
// ascending id order.
func airplaneKeys(a, b uint) []string {
	if a == b {
		return []string{airplaneKey(a)}
	}
	if a > b {
		a, b = b, a
	}
	return []string{airplaneKey(a), airplaneKey(b)}
}
