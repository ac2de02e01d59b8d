package models

import (
	"time"

	"airline/src/types"
)

// Reservation is a passenger's booking on a flight. Code is generated,
// never client-supplied, and stays reserved forever: cancelled
// reservations keep their code and are never hard-deleted.
type Reservation struct {
	ID             uint                    `gorm:"primarykey" json:"id"`
	Code           string                  `gorm:"uniqueIndex;size:10" json:"reservation_code"`
	PassengerName  string                  `gorm:"size:200" json:"passenger_name"`
	PassengerEmail string                  `gorm:"index;size:254" json:"passenger_email"`
	FlightID       uint                    `gorm:"index" json:"flight"`
	Status         types.ReservationStatus `gorm:"default:'active';size:20" json:"status"`
	CreatedAt      time.Time               `gorm:"autoCreateTime:nano;index" json:"created_at"`

	Flight Flight `json:"flight_details,omitempty"`
}

func (r *Reservation) IsActive() bool {
	return r.Status == types.RESERVATION_ACTIVE
}
