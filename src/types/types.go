package types

import "time"

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
}

// ReservationStatus is a closed enum. Cancellation is one-way: a
// reservation never transitions back to active.
type ReservationStatus string

const (
	RESERVATION_ACTIVE    ReservationStatus = "active"
	RESERVATION_CANCELLED ReservationStatus = "cancelled"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type CreateAirplaneRequestBody struct {
	TailNumber     string `json:"tail_number" binding:"required"`
	Model          string `json:"model" binding:"required"`
	Capacity       uint   `json:"capacity" binding:"required,min=1"`
	ProductionYear uint   `json:"production_year" binding:"required"`
	Active         *bool  `json:"active,omitempty"`
}

type CreateFlightRequestBody struct {
	FlightNumber  string `json:"flight_number" binding:"required"`
	Departure     string `json:"departure" binding:"required"`
	Destination   string `json:"destination" binding:"required"`
	DepartureTime string `json:"departure_time" binding:"required,flighttime"`
	ArrivalTime   string `json:"arrival_time" binding:"required,flighttime"`
	AirplaneID    uint   `json:"airplane" binding:"required"`
}

type CreateReservationRequestBody struct {
	FlightID       uint   `json:"flight" binding:"required"`
	PassengerName  string `json:"passenger_name" binding:"required,min=2"`
	PassengerEmail string `json:"passenger_email" binding:"required,email"`
}
