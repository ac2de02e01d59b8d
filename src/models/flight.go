package models

import (
	"time"

	"airline/src/types"
)

// Flight is a scheduled leg flown by exactly one airplane. The composite
// index on (airplane_id, departure_time) backs the per-airplane interval
// conflict query.
type Flight struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	FlightNumber  string    `gorm:"uniqueIndex;size:20" json:"flight_number"`
	Departure     string    `gorm:"size:200" json:"departure"`
	Destination   string    `gorm:"size:200" json:"destination"`
	DepartureTime time.Time `gorm:"index:idx_flights_airplane_departure,priority:2" json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	AirplaneID    uint      `gorm:"index:idx_flights_airplane_departure,priority:1" json:"airplane"`

	Airplane     Airplane      `json:"airplane_details,omitempty"`
	Reservations []Reservation `gorm:"foreignKey:FlightID" json:"reservations,omitempty"`

	Stats *Availability `gorm:"-" json:"stats,omitempty"`

	types.Timestamps
}

// Availability is a derived snapshot. Outside the coordinator's critical
// section it may already be stale by the time a caller acts on it.
type Availability struct {
	FlightID    uint `json:"flight_id"`
	Capacity    uint `json:"capacity"`
	ActiveCount uint `json:"active_count"`
	Available   uint `json:"available"`
	FullyBooked bool `json:"fully_booked"`
}
