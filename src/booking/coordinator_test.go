package booking

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"airline/src/models"
	"airline/src/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type CoordinatorSuite struct {
	suite.Suite
	db    *gorm.DB
	coord *Coordinator
	base  time.Time
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func (s *CoordinatorSuite) SetupTest() {
	d, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	s.Require().NoError(err)
	sqlDB, err := d.DB()
	s.Require().NoError(err)
	// A single connection keeps every session on the same in-memory
	// database and serializes sqlite access under concurrent tests.
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(d.AutoMigrate(&models.Airplane{}, &models.Flight{}, &models.Reservation{}))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.db = d
	s.coord = NewCoordinator(d, logger)
	s.base = time.Now().Add(48 * time.Hour).Truncate(time.Hour)
}

func (s *CoordinatorSuite) newAirplane(tail string, capacity uint) *models.Airplane {
	plane := &models.Airplane{
		TailNumber:     tail,
		Model:          "Airbus A320",
		Capacity:       capacity,
		ProductionYear: 2018,
		Active:         true,
	}
	s.Require().NoError(s.db.Create(plane).Error)
	return plane
}

func (s *CoordinatorSuite) newFlight(planeID uint, number string, dep, arr time.Time) *models.Flight {
	flight, err := s.coord.CreateFlight(context.Background(), FlightSpec{
		FlightNumber:  number,
		Departure:     "Istanbul",
		Destination:   "Berlin",
		DepartureTime: dep,
		ArrivalTime:   arr,
		AirplaneID:    planeID,
	})
	s.Require().NoError(err)
	return flight
}

func (s *CoordinatorSuite) at(h, m int) time.Time {
	return s.base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func (s *CoordinatorSuite) TestCreateFlightInvalidWindow() {
	plane := s.newAirplane("TC-AAA", 2)

	_, err := s.coord.CreateFlight(context.Background(), FlightSpec{
		FlightNumber:  "TK100",
		Departure:     "Istanbul",
		Destination:   "Berlin",
		DepartureTime: s.at(12, 0),
		ArrivalTime:   s.at(12, 0),
		AirplaneID:    plane.ID,
	})
	s.ErrorIs(err, ErrInvalidWindow)
}

func (s *CoordinatorSuite) TestCreateFlightUnknownAirplane() {
	_, err := s.coord.CreateFlight(context.Background(), FlightSpec{
		FlightNumber:  "TK100",
		Departure:     "Istanbul",
		Destination:   "Berlin",
		DepartureTime: s.at(10, 0),
		ArrivalTime:   s.at(12, 0),
		AirplaneID:    999,
	})
	s.ErrorIs(err, ErrAirplaneNotFound)
}

func (s *CoordinatorSuite) TestScheduleConflictWithinBuffer() {
	plane := s.newAirplane("TC-AAA", 2)
	committed := s.newFlight(plane.ID, "TK100", s.at(10, 0), s.at(12, 0))

	// 30 minute gap: inside the one hour turnaround buffer.
	_, err := s.coord.CreateFlight(context.Background(), FlightSpec{
		FlightNumber:  "TK101",
		Departure:     "Berlin",
		Destination:   "Istanbul",
		DepartureTime: s.at(12, 30),
		ArrivalTime:   s.at(14, 0),
		AirplaneID:    plane.ID,
	})
	var conflictErr *ConflictError
	s.ErrorAs(err, &conflictErr)
	s.Equal(committed.ID, conflictErr.FlightID)
	s.Equal("TK100", conflictErr.FlightNumber)

	// 61 minute gap clears the buffer.
	_, err = s.coord.CreateFlight(context.Background(), FlightSpec{
		FlightNumber:  "TK102",
		Departure:     "Berlin",
		Destination:   "Istanbul",
		DepartureTime: s.at(13, 1),
		ArrivalTime:   s.at(15, 0),
		AirplaneID:    plane.ID,
	})
	s.NoError(err)
}

func (s *CoordinatorSuite) TestScheduleConflictExactBufferBoundary() {
	plane := s.newAirplane("TC-AAA", 2)
	s.newFlight(plane.ID, "TK100", s.at(10, 0), s.at(12, 0))

	// Exactly one hour gap still conflicts: boundaries are inclusive.
	_, err := s.coord.CreateFlight(context.Background(), FlightSpec{
		FlightNumber:  "TK101",
		Departure:     "Berlin",
		Destination:   "Istanbul",
		DepartureTime: s.at(13, 0),
		ArrivalTime:   s.at(15, 0),
		AirplaneID:    plane.ID,
	})
	var conflictErr *ConflictError
	s.ErrorAs(err, &conflictErr)
}

func (s *CoordinatorSuite) TestConflictReportsLowestFlightID() {
	planeA := s.newAirplane("TC-AAA", 2)
	planeB := s.newAirplane("TC-BBB", 2)
	first := s.newFlight(planeA.ID, "TK100", s.at(10, 0), s.at(12, 0))
	s.newFlight(planeB.ID, "TK200", s.at(9, 0), s.at(16, 0))
	s.newFlight(planeA.ID, "TK101", s.at(14, 0), s.at(16, 0))

	// Candidate overlaps both of plane A's flights; the lowest id wins.
	_, err := s.coord.CreateFlight(context.Background(), FlightSpec{
		FlightNumber:  "TK102",
		Departure:     "Berlin",
		Destination:   "Istanbul",
		DepartureTime: s.at(11, 0),
		ArrivalTime:   s.at(15, 0),
		AirplaneID:    planeA.ID,
	})
	var conflictErr *ConflictError
	s.ErrorAs(err, &conflictErr)
	s.Equal(first.ID, conflictErr.FlightID)
}

func (s *CoordinatorSuite) TestUpdateFlightExcludesOwnInterval() {
	plane := s.newAirplane("TC-AAA", 2)
	flight := s.newFlight(plane.ID, "TK100", s.at(10, 0), s.at(12, 0))

	// Shifting a flight inside its own old window must not self-conflict.
	updated, err := s.coord.UpdateFlight(context.Background(), flight.ID, FlightSpec{
		FlightNumber:  "TK100",
		Departure:     "Istanbul",
		Destination:   "Berlin",
		DepartureTime: s.at(10, 30),
		ArrivalTime:   s.at(12, 30),
		AirplaneID:    plane.ID,
	})
	s.NoError(err)
	s.True(updated.DepartureTime.Equal(s.at(10, 30)))
}

func (s *CoordinatorSuite) TestUpdateFlightConflictsWithOthers() {
	plane := s.newAirplane("TC-AAA", 2)
	s.newFlight(plane.ID, "TK100", s.at(10, 0), s.at(12, 0))
	other := s.newFlight(plane.ID, "TK101", s.at(15, 0), s.at(17, 0))

	_, err := s.coord.UpdateFlight(context.Background(), other.ID, FlightSpec{
		FlightNumber:  "TK101",
		Departure:     "Berlin",
		Destination:   "Istanbul",
		DepartureTime: s.at(12, 30),
		ArrivalTime:   s.at(14, 0),
		AirplaneID:    plane.ID,
	})
	var conflictErr *ConflictError
	s.ErrorAs(err, &conflictErr)
	s.Equal("TK100", conflictErr.FlightNumber)
}

func (s *CoordinatorSuite) TestAvailabilityRoundTrip() {
	plane := s.newAirplane("TC-AAA", 3)
	flight := s.newFlight(plane.ID, "TK100", s.at(10, 0), s.at(12, 0))

	snapshot, err := s.coord.Availability(context.Background(), flight.ID)
	s.NoError(err)
	s.Equal(uint(0), snapshot.ActiveCount)
	s.Equal(uint(3), snapshot.Available)
	s.False(snapshot.FullyBooked)

	reservation, err := s.coord.CreateReservation(context.Background(), flight.ID, "Ada Lovelace", "ada@example.com")
	s.NoError(err)
	s.Len(reservation.Code, 8)

	snapshot, err = s.coord.Availability(context.Background(), flight.ID)
	s.NoError(err)
	s.Equal(uint(1), snapshot.ActiveCount)
	s.Equal(uint(2), snapshot.Available)

	result, err := s.coord.CancelReservation(context.Background(), reservation.ID)
	s.NoError(err)
	s.False(result.AlreadyCancelled)
	s.Equal(uint(0), result.Availability.ActiveCount)
	s.Equal(uint(3), result.Availability.Available)
}

func (s *CoordinatorSuite) TestDuplicateActiveBooking() {
	plane := s.newAirplane("TC-AAA", 3)
	flight := s.newFlight(plane.ID, "TK100", s.at(10, 0), s.at(12, 0))

	first, err := s.coord.CreateReservation(context.Background(), flight.ID, "Ada Lovelace", "ada@example.com")
	s.NoError(err)

	// Same address, different case and padding: still a duplicate.
	_, err = s.coord.CreateReservation(context.Background(), flight.ID, "Ada Lovelace", "  ADA@Example.COM ")
	var duplicateErr *DuplicateError
	s.ErrorAs(err, &duplicateErr)
	s.Equal(first.ID, duplicateErr.ReservationID)

	// The same passenger may book a different flight.
	flight2 := s.newFlight(plane.ID, "TK101", s.at(14, 0), s.at(16, 0))
	_, err = s.coord.CreateReservation(context.Background(), flight2.ID, "Ada Lovelace", "ada@example.com")
	s.NoError(err)
}

func (s *CoordinatorSuite) TestCancelThenRebook() {
	plane := s.newAirplane("TC-AAA", 2)
	flight := s.newFlight(plane.ID, "TK100", s.at(10, 0), s.at(12, 0))

	first, err := s.coord.CreateReservation(context.Background(), flight.ID, "Ada Lovelace", "ada@example.com")
	s.NoError(err)
	_, err = s.coord.CancelReservation(context.Background(), first.ID)
	s.NoError(err)

	second, err := s.coord.CreateReservation(context.Background(), flight.ID, "Ada Lovelace", "ada@example.com")
	s.NoError(err)
	s.NotEqual(first.ID, second.ID)
	// A cancelled reservation's code is never reissued.
	s.NotEqual(first.Code, second.Code)

	var kept models.Reservation
	s.NoError(s.db.First(&kept, first.ID).Error)
	s.Equal(types.RESERVATION_CANCELLED, kept.Status)
	s.Equal(first.Code, kept.Code)
}

func (s *CoordinatorSuite) TestCancelIsIdempotent() {
	plane := s.newAirplane("TC-AAA", 2)
	flight := s.newFlight(plane.ID, "TK100", s.at(10, 0), s.at(12, 0))
	reservation, err := s.coord.CreateReservation(context.Background(), flight.ID, "Ada Lovelace", "ada@example.com")
	s.NoError(err)

	first, err := s.coord.CancelReservation(context.Background(), reservation.ID)
	s.NoError(err)
	s.False(first.AlreadyCancelled)

	second, err := s.coord.CancelReservation(context.Background(), reservation.ID)
	s.NoError(err)
	s.True(second.AlreadyCancelled)
	s.Equal(uint(0), second.Availability.ActiveCount)

	_, err = s.coord.CancelReservation(context.Background(), 9999)
	s.ErrorIs(err, ErrReservationNotFound)
}

func (s *CoordinatorSuite) TestBookingDepartedFlight() {
	plane := s.newAirplane("TC-AAA", 2)
	// Scheduling past flights is allowed; booking them is not.
	flight := s.newFlight(plane.ID, "TK100", time.Now().Add(-4*time.Hour), time.Now().Add(-2*time.Hour))

	_, err := s.coord.CreateReservation(context.Background(), flight.ID, "Ada Lovelace", "ada@example.com")
	s.ErrorIs(err, ErrFlightDeparted)
}

func (s *CoordinatorSuite) TestConcurrentBookingBurst() {
	plane := s.newAirplane("TC-AAA", 2)
	flight := s.newFlight(plane.ID, "TK100", s.at(10, 0), s.at(12, 0))

	const attempts = 3
	results := make(chan error, attempts)
	codes := make(chan string, attempts)

	var wg sync.WaitGroup
	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(n int) {
			defer wg.Done()
			r, err := s.coord.CreateReservation(
				context.Background(),
				flight.ID,
				fmt.Sprintf("Passenger %d", n),
				fmt.Sprintf("passenger%d@example.com", n),
			)
			results <- err
			if err == nil {
				codes <- r.Code
			}
		}(i)
	}
	wg.Wait()
	close(results)
	close(codes)

	succeeded, capacityRejected := 0, 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var capacityErr *CapacityError
		s.ErrorAs(err, &capacityErr)
		s.Equal(uint(2), capacityErr.Capacity)
		capacityRejected++
	}
	s.Equal(2, succeeded)
	s.Equal(1, capacityRejected)

	seen := make(map[string]bool)
	for code := range codes {
		s.False(seen[code])
		seen[code] = true
	}

	snapshot, err := s.coord.Availability(context.Background(), flight.ID)
	s.NoError(err)
	s.Equal(uint(2), snapshot.ActiveCount)
	s.True(snapshot.FullyBooked)
}

func (s *CoordinatorSuite) TestConcurrentFlightScheduling() {
	plane := s.newAirplane("TC-AAA", 2)

	// Two racers commit overlapping windows against the same airplane.
	// The airplane's key lock serializes them, so exactly one lands.
	const racers = 2
	results := make(chan error, racers)

	var wg sync.WaitGroup
	wg.Add(racers)
	for i := 0; i < racers; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := s.coord.CreateFlight(context.Background(), FlightSpec{
				FlightNumber:  fmt.Sprintf("TK10%d", n),
				Departure:     "Istanbul",
				Destination:   "Berlin",
				DepartureTime: s.at(10, 0),
				ArrivalTime:   s.at(12, 0),
				AirplaneID:    plane.ID,
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	committed, rejected := 0, 0
	for err := range results {
		if err == nil {
			committed++
			continue
		}
		var conflictErr *ConflictError
		s.ErrorAs(err, &conflictErr)
		rejected++
	}
	s.Equal(1, committed)
	s.Equal(1, rejected)

	var count int64
	s.NoError(s.db.Model(&models.Flight{}).Where("airplane_id = ?", plane.ID).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *CoordinatorSuite) TestReservationInputValidation() {
	plane := s.newAirplane("TC-AAA", 2)
	flight := s.newFlight(plane.ID, "TK100", s.at(10, 0), s.at(12, 0))

	_, err := s.coord.CreateReservation(context.Background(), flight.ID, " A ", "ada@example.com")
	s.ErrorIs(err, ErrPassengerNameTooShort)

	_, err = s.coord.CreateReservation(context.Background(), flight.ID, "Ada Lovelace", "   ")
	s.ErrorIs(err, ErrPassengerEmailEmpty)
}

func (s *CoordinatorSuite) TestDeleteFlightBlockedByReservations() {
	plane := s.newAirplane("TC-AAA", 2)
	flight := s.newFlight(plane.ID, "TK100", s.at(10, 0), s.at(12, 0))
	reservation, err := s.coord.CreateReservation(context.Background(), flight.ID, "Ada Lovelace", "ada@example.com")
	s.NoError(err)

	// Even a cancelled reservation keeps the flight undeletable: the
	// audit trail references it.
	_, err = s.coord.CancelReservation(context.Background(), reservation.ID)
	s.NoError(err)

	err = s.coord.DeleteFlight(context.Background(), flight.ID)
	var integrityErr *IntegrityError
	s.ErrorAs(err, &integrityErr)
	s.Equal("flight", integrityErr.Entity)
	s.Equal(int64(1), integrityErr.References)

	empty := s.newFlight(plane.ID, "TK101", s.at(14, 0), s.at(16, 0))
	s.NoError(s.coord.DeleteFlight(context.Background(), empty.ID))
}

func (s *CoordinatorSuite) TestDeleteAirplaneBlockedByFlights() {
	plane := s.newAirplane("TC-AAA", 2)
	flight := s.newFlight(plane.ID, "TK100", s.at(10, 0), s.at(12, 0))

	err := s.coord.DeleteAirplane(context.Background(), plane.ID)
	var integrityErr *IntegrityError
	s.ErrorAs(err, &integrityErr)
	s.Equal("airplane", integrityErr.Entity)

	s.NoError(s.coord.DeleteFlight(context.Background(), flight.ID))
	s.NoError(s.coord.DeleteAirplane(context.Background(), plane.ID))
}

func (s *CoordinatorSuite) TestDuplicateFlightNumber() {
	plane := s.newAirplane("TC-AAA", 2)
	s.newFlight(plane.ID, "TK100", s.at(10, 0), s.at(12, 0))

	_, err := s.coord.CreateFlight(context.Background(), FlightSpec{
		FlightNumber:  "TK100",
		Departure:     "Istanbul",
		Destination:   "Berlin",
		DepartureTime: s.at(14, 0),
		ArrivalTime:   s.at(16, 0),
		AirplaneID:    plane.ID,
	})
	s.ErrorIs(err, ErrFlightNumberTaken)
}

func (s *CoordinatorSuite) TestSchedulesAreIndependentPerAirplane() {
	planeA := s.newAirplane("TC-AAA", 2)
	planeB := s.newAirplane("TC-BBB", 2)
	s.newFlight(planeA.ID, "TK100", s.at(10, 0), s.at(12, 0))

	// The same window on another airplane is fine.
	_, err := s.coord.CreateFlight(context.Background(), FlightSpec{
		FlightNumber:  "TK200",
		Departure:     "Istanbul",
		Destination:   "Berlin",
		DepartureTime: s.at(10, 0),
		ArrivalTime:   s.at(12, 0),
		AirplaneID:    planeB.ID,
	})
	s.NoError(err)
}

func (s *CoordinatorSuite) TestPairwiseNoOverlapProperty() {
	plane := s.newAirplane("TC-AAA", 2)
	windows := [][2]int{{6, 8}, {10, 12}, {14, 16}, {18, 20}}
	for i, w := range windows {
		s.newFlight(plane.ID, fmt.Sprintf("TK1%02d", i), s.at(w[0], 0), s.at(w[1], 0))
	}
	// A few rejected candidates in between.
	for _, w := range [][2]int{{8, 10}, {12, 13}, {16, 17}} {
		_, err := s.coord.CreateFlight(context.Background(), FlightSpec{
			FlightNumber:  fmt.Sprintf("TK9%02d", w[0]),
			Departure:     "Istanbul",
			Destination:   "Berlin",
			DepartureTime: s.at(w[0], 0),
			ArrivalTime:   s.at(w[1], 0),
			AirplaneID:    plane.ID,
		})
		s.Error(err)
	}

	var flights []models.Flight
	s.NoError(s.db.Where("airplane_id = ?", plane.ID).Find(&flights).Error)
	for i := range flights {
		for j := i + 1; j < len(flights); j++ {
			a := NewInterval(flights[i].DepartureTime, flights[i].ArrivalTime).Widen(TurnaroundBuffer)
			b := NewInterval(flights[j].DepartureTime, flights[j].ArrivalTime)
			s.False(a.Overlaps(b), "flights %s and %s overlap", flights[i].FlightNumber, flights[j].FlightNumber)
		}
	}
}
