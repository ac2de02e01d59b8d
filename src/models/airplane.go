package models

import "airline/src/types"

// Airplane is an aircraft in the fleet. TailNumber is the immutable
// business key; Capacity bounds active reservations on every flight
// the aircraft is assigned to.
type Airplane struct {
	ID             uint   `gorm:"primarykey" json:"id"`
	TailNumber     string `gorm:"uniqueIndex;size:20" json:"tail_number"`
	Model          string `gorm:"size:100" json:"model"`
	Capacity       uint   `gorm:"check:capacity >= 1" json:"capacity"`
	ProductionYear uint   `json:"production_year"`
	Active         bool   `gorm:"default:true" json:"active"`

	Flights []Flight `gorm:"foreignKey:AirplaneID" json:"flights,omitempty"`

	types.Timestamps
}

func (a *Airplane) IsOperational() bool {
	return a.Active
}
