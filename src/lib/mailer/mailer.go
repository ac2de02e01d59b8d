package mailer

import (
	"fmt"
	"os"
	"strings"

	"airline/src/lib"
	"airline/src/models"

	"github.com/sirupsen/logrus"
	mail "github.com/wneessen/go-mail"
)

const timeFormat = "January 2, 2006 at 3:04 PM"

func fromAddress() string {
	from := os.Getenv("MAIL_FROM")
	if from == "" {
		from = "noreply@airline.com"
	}
	return from
}

// ConfirmationMessage renders the booking confirmation for a reservation.
func ConfirmationMessage(r *models.Reservation) (subject, body string) {
	flight := r.Flight
	airplane := flight.Airplane
	subject = fmt.Sprintf("Flight Reservation Confirmation - %s", r.Code)
	body = strings.TrimSpace(fmt.Sprintf(`
Dear %s,

Thank you for booking with us! Your flight reservation has been confirmed.

RESERVATION DETAILS
-------------------
Reservation Code: %s
Status: Active

FLIGHT INFORMATION
------------------
Flight Number: %s
Departure: %s
Destination: %s
Departure Time: %s
Arrival Time: %s

AIRCRAFT DETAILS
----------------
Aircraft: %s
Tail Number: %s

IMPORTANT INFORMATION
---------------------
- Please arrive at the airport at least 2 hours before departure
- Bring a valid ID and your reservation code: %s
- Check-in opens 24 hours before departure

Thank you for choosing our airline!

Best regards,
Airline Management Team
`,
		r.PassengerName,
		r.Code,
		flight.FlightNumber,
		flight.Departure,
		flight.Destination,
		flight.DepartureTime.Format(timeFormat),
		flight.ArrivalTime.Format(timeFormat),
		airplane.Model,
		airplane.TailNumber,
		r.Code,
	))
	return subject, body
}

// CancellationMessage renders the cancellation notice for a reservation.
func CancellationMessage(r *models.Reservation) (subject, body string) {
	flight := r.Flight
	subject = fmt.Sprintf("Reservation Cancelled - %s", r.Code)
	body = strings.TrimSpace(fmt.Sprintf(`
Dear %s,

Your flight reservation has been cancelled as requested.

CANCELLED RESERVATION
---------------------
Reservation Code: %s
Flight Number: %s
Route: %s - %s
Departure Time: %s

If you did not request this cancellation, please contact us immediately.

Thank you for your understanding.

Best regards,
Airline Management Team
`,
		r.PassengerName,
		r.Code,
		flight.FlightNumber,
		flight.Departure,
		flight.Destination,
		flight.DepartureTime.Format(timeFormat),
	))
	return subject, body
}

// SendReservationConfirmation delivers the confirmation email and
// reports whether it went out. Delivery failure never rolls back the
// reservation; the result is surfaced as the email_sent flag.
func SendReservationConfirmation(r *models.Reservation) bool {
	subject, body := ConfirmationMessage(r)
	return send(r.PassengerEmail, subject, body)
}

// SendCancellation delivers the cancellation notice.
func SendCancellation(r *models.Reservation) bool {
	subject, body := CancellationMessage(r)
	return send(r.PassengerEmail, subject, body)
}

func send(to, subject, body string) bool {
	client, err := lib.GetSMTPClient()
	if err != nil || client == nil {
		logrus.WithField("to", to).Warn("smtp not configured, skipping email")
		return false
	}
	msg := mail.NewMsg()
	if err := msg.From(fromAddress()); err != nil {
		logrus.WithError(err).Warn("invalid Sender address")
		return false
	}
	if err := msg.To(to); err != nil {
		logrus.WithError(err).Warn("invalid recipient address")
		return false
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	if err := client.DialAndSend(msg); err != nil {
		logrus.WithError(err).WithField("to", to).Warn("failed to send email")
		return false
	}
	logrus.WithField("to", to).Info("email sent")
	return true
}
