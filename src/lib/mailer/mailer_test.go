package mailer

import (
	"testing"
	"time"

	"airline/src/models"

	"github.com/stretchr/testify/assert"
)

func testReservation() *models.Reservation {
	return &models.Reservation{
		Code:           "AB12CD34",
		PassengerName:  "Ada Lovelace",
		PassengerEmail: "ada@example.com",
		Flight: models.Flight{
			FlightNumber:  "TK100",
			Departure:     "Istanbul",
			Destination:   "Berlin",
			DepartureTime: time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC),
			ArrivalTime:   time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC),
			Airplane: models.Airplane{
				TailNumber: "TC-NRT",
				Model:      "Airbus A320",
			},
		},
	}
}

func TestConfirmationMessage(t *testing.T) {
	subject, body := ConfirmationMessage(testReservation())

	assert.Equal(t, "Flight Reservation Confirmation - AB12CD34", subject)
	assert.Contains(t, body, "Dear Ada Lovelace")
	assert.Contains(t, body, "Reservation Code: AB12CD34")
	assert.Contains(t, body, "Flight Number: TK100")
	assert.Contains(t, body, "Tail Number: TC-NRT")
}

func TestCancellationMessage(t *testing.T) {
	subject, body := CancellationMessage(testReservation())

	assert.Equal(t, "Reservation Cancelled - AB12CD34", subject)
	assert.Contains(t, body, "Dear Ada Lovelace")
	assert.Contains(t, body, "Route: Istanbul - Berlin")
	assert.Contains(t, body, "cancelled as requested")
}

func TestSendWithoutSMTPConfigured(t *testing.T) {
	t.Setenv("SMTP_HOST", "")

	assert.False(t, SendReservationConfirmation(testReservation()))
	assert.False(t, SendCancellation(testReservation()))
}
